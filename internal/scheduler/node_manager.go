// Package scheduler tracks worker-node membership, per-node split and
// task assignment counts, and the scheduling blacklist.
package scheduler

import (
	"sort"
	"sync"

	"quarry-hive/internal/model"
)

type nodeCounts struct {
	splits int
	tasks  int
}

// NodeManager holds the cluster's node sets and per-node assignment
// counts. All methods are safe for concurrent use.
type NodeManager struct {
	mu           sync.RWMutex
	active       map[string]model.Node // keyed by host:port
	shuttingDown map[string]model.Node
	blacklist    map[string]model.BlacklistNodeInfo
	counts       map[string]*nodeCounts
}

// NewNodeManager creates an empty node manager.
func NewNodeManager() *NodeManager {
	return &NodeManager{
		active:       make(map[string]model.Node),
		shuttingDown: make(map[string]model.Node),
		blacklist:    make(map[string]model.BlacklistNodeInfo),
		counts:       make(map[string]*nodeCounts),
	}
}

// AddNode registers a node as active.
func (m *NodeManager) AddNode(node model.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := node.HostPort()
	delete(m.shuttingDown, key)
	m.active[key] = node
	if m.counts[key] == nil {
		m.counts[key] = &nodeCounts{}
	}
}

// BeginShutdown moves an active node to the shutting-down set.
func (m *NodeManager) BeginShutdown(node model.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := node.HostPort()
	if _, ok := m.active[key]; ok {
		delete(m.active, key)
		m.shuttingDown[key] = node
	}
}

// RemoveNode forgets a node and its counts entirely.
func (m *NodeManager) RemoveNode(node model.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := node.HostPort()
	delete(m.active, key)
	delete(m.shuttingDown, key)
	delete(m.counts, key)
}

// ActiveNodes returns the active nodes, excluding blacklisted ones,
// ordered by host:port for deterministic scheduling.
func (m *NodeManager) ActiveNodes() []model.Node {
	m.mu.RLock()
	defer m.mu.RUnlock()

	nodes := make([]model.Node, 0, len(m.active))
	for key, node := range m.active {
		if _, banned := m.blacklist[key]; !banned {
			nodes = append(nodes, node)
		}
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].HostPort() < nodes[j].HostPort()
	})
	return nodes
}

// AddSplits records count additional splits assigned to node.
func (m *NodeManager) AddSplits(node model.Node, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.counts[node.HostPort()]
	if c != nil {
		c.splits += count
	}
}

// AddTask records one additional task assigned to node.
func (m *NodeManager) AddTask(node model.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.counts[node.HostPort()]
	if c != nil {
		c.tasks++
	}
}

// SetBlacklist replaces the scheduling blacklist with the given set.
func (m *NodeManager) SetBlacklist(nodes []model.BlacklistNodeInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blacklist = make(map[string]model.BlacklistNodeInfo, len(nodes))
	for _, info := range nodes {
		key := model.Node{Host: info.NodeHost, Port: info.NodePort}.HostPort()
		m.blacklist[key] = info
	}
}

// Blacklist returns the current blacklist entries sorted by host:port.
func (m *NodeManager) Blacklist() []model.BlacklistNodeInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]model.BlacklistNodeInfo, 0, len(m.blacklist))
	for _, info := range m.blacklist {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].NodeHost != infos[j].NodeHost {
			return infos[i].NodeHost < infos[j].NodeHost
		}
		return infos[i].NodePort < infos[j].NodePort
	})
	return infos
}

// Assignments reports split/task counts for all active nodes followed
// by all shutting-down nodes.
func (m *NodeManager) Assignments() []model.NodeAssignmentInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]model.NodeAssignmentInfo, 0, len(m.active)+len(m.shuttingDown))
	infos = append(infos, m.assignmentsLocked(m.active, model.NodeStateActive)...)
	infos = append(infos, m.assignmentsLocked(m.shuttingDown, model.NodeStateShuttingDown)...)
	return infos
}

func (m *NodeManager) assignmentsLocked(nodes map[string]model.Node, state model.NodeState) []model.NodeAssignmentInfo {
	infos := make([]model.NodeAssignmentInfo, 0, len(nodes))
	for key, node := range nodes {
		counts := m.counts[key]
		if counts == nil {
			counts = &nodeCounts{}
		}
		infos = append(infos, model.NodeAssignmentInfo{
			NodeHost:          node.Host,
			NodePort:          node.Port,
			PartitionedSplits: counts.splits,
			Tasks:             counts.tasks,
			State:             state,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].NodeHost != infos[j].NodeHost {
			return infos[i].NodeHost < infos[j].NodeHost
		}
		return infos[i].NodePort < infos[j].NodePort
	})
	return infos
}
