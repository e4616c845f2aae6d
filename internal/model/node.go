package model

import "fmt"

// NodeState is the lifecycle state of a worker node.
type NodeState string

const (
	NodeStateActive       NodeState = "ACTIVE"
	NodeStateShuttingDown NodeState = "SHUTTING_DOWN"
)

// Node identifies one worker node by its host and port.
type Node struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// HostPort returns the node's host:port form used as its identity.
func (n Node) HostPort() string {
	return fmt.Sprintf("%s:%d", n.Host, n.Port)
}

// NodeAssignmentInfo reports the splits and tasks currently assigned
// to one node.
type NodeAssignmentInfo struct {
	NodeHost          string    `json:"nodeHost"`
	NodePort          int       `json:"nodePort"`
	PartitionedSplits int       `json:"partitionedSplits"`
	Tasks             int       `json:"tasks"`
	State             NodeState `json:"state"`
}

// BlacklistNodeInfo names one node to exclude from future scheduling.
type BlacklistNodeInfo struct {
	NodeHost string `json:"nodeHost" validate:"required"`
	NodePort int    `json:"nodePort" validate:"required,min=1,max=65535"`
}

// NodeAssignmentBlacklistRequest is the body of a blacklist update:
// the full replacement set of blacklisted nodes.
type NodeAssignmentBlacklistRequest struct {
	BlacklistedNodes []BlacklistNodeInfo `json:"blacklistedNodes" validate:"required,dive"`
}
