// Package plan holds the immutable plan-node carriers the coordinator
// exchanges with planning logic.
package plan

import "fmt"

// SampleType is the sampling method of a SampleNode.
type SampleType string

const (
	SampleTypeBernoulli SampleType = "BERNOULLI"
	SampleTypeSystem    SampleType = "SYSTEM"
)

// SampleNode samples its source at a fixed ratio. Immutable; create
// with NewSampleNode.
type SampleNode struct {
	ID          string     `json:"id"`
	SourceID    string     `json:"sourceId"`
	SampleRatio float64    `json:"sampleRatio"`
	SampleType  SampleType `json:"sampleType"`
}

// NewSampleNode creates a SampleNode, validating the ratio and type.
func NewSampleNode(id, sourceID string, ratio float64, sampleType SampleType) (*SampleNode, error) {
	if ratio < 0 || ratio > 1 {
		return nil, fmt.Errorf("sample ratio must be within [0, 1]: %v", ratio)
	}
	switch sampleType {
	case SampleTypeBernoulli, SampleTypeSystem:
	default:
		return nil, fmt.Errorf("unsupported sample type: %q", sampleType)
	}
	return &SampleNode{
		ID:          id,
		SourceID:    sourceID,
		SampleRatio: ratio,
		SampleType:  sampleType,
	}, nil
}
