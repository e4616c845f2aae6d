package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSampleNode(t *testing.T) {
	node, err := NewSampleNode("n1", "scan1", 0.25, SampleTypeBernoulli)
	require.NoError(t, err)
	assert.Equal(t, "n1", node.ID)
	assert.Equal(t, "scan1", node.SourceID)
	assert.Equal(t, 0.25, node.SampleRatio)
	assert.Equal(t, SampleTypeBernoulli, node.SampleType)

	// Boundary ratios are valid.
	_, err = NewSampleNode("n2", "scan1", 0, SampleTypeSystem)
	assert.NoError(t, err)
	_, err = NewSampleNode("n3", "scan1", 1, SampleTypeSystem)
	assert.NoError(t, err)
}

func TestNewSampleNodeRejectsInvalidInput(t *testing.T) {
	_, err := NewSampleNode("n1", "scan1", -0.1, SampleTypeBernoulli)
	assert.Error(t, err)

	_, err = NewSampleNode("n1", "scan1", 1.1, SampleTypeBernoulli)
	assert.Error(t, err)

	_, err = NewSampleNode("n1", "scan1", 0.5, SampleType("POISSON"))
	assert.Error(t, err)
}
