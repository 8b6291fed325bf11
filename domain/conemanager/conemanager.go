// Package conemanager computes past, future and anticone sets of blocks
// against the current graph.
package conemanager

import (
	"github.com/pkg/errors"

	"github.com/ShaiW/blanim/domain/blockgraph"
	"github.com/ShaiW/blanim/domain/model"
)

// ConeManager answers cone queries by breadth-first traversal over the graph
// adjacency. The graph is append-only, so the past set of an inserted block
// can never change and is memoized on first use. Future sets grow as new
// descendants arrive and are deliberately never cached.
type ConeManager struct {
	topology  model.DAGTopology
	pastCache map[model.BlockID]blockgraph.IDSet
}

// New returns a ConeManager over the given topology.
func New(topology model.DAGTopology) *ConeManager {
	return &ConeManager{
		topology:  topology,
		pastCache: make(map[model.BlockID]blockgraph.IDSet),
	}
}

// PastOf returns all ancestors of the given block, excluding the block
// itself, sorted by the BlockID total order.
func (cm *ConeManager) PastOf(id model.BlockID) ([]model.BlockID, error) {
	past, err := cm.pastSet(id)
	if err != nil {
		return nil, err
	}
	return past.ToSortedSlice(), nil
}

// FutureOf returns all descendants of the given block, excluding the block
// itself, sorted by the BlockID total order.
func (cm *ConeManager) FutureOf(id model.BlockID) ([]model.BlockID, error) {
	future, err := cm.futureSet(id)
	if err != nil {
		return nil, err
	}
	return future.ToSortedSlice(), nil
}

// AnticoneOf returns all blocks that are neither ancestors nor descendants of
// the given block, excluding the block itself.
func (cm *ConeManager) AnticoneOf(id model.BlockID) ([]model.BlockID, error) {
	past, err := cm.pastSet(id)
	if err != nil {
		return nil, err
	}
	future, err := cm.futureSet(id)
	if err != nil {
		return nil, err
	}

	anticone := blockgraph.NewIDSet()
	for _, other := range cm.topology.BlockIDs() {
		if other == id || past.Contains(other) || future.Contains(other) {
			continue
		}
		anticone.Add(other)
	}
	return anticone.ToSortedSlice(), nil
}

// IsAncestorOf returns whether ancestor is in the past of descendant. A block
// is not considered its own ancestor.
func (cm *ConeManager) IsAncestorOf(ancestor, descendant model.BlockID) (bool, error) {
	past, err := cm.pastSet(descendant)
	if err != nil {
		return false, err
	}
	return past.Contains(ancestor), nil
}

func (cm *ConeManager) pastSet(id model.BlockID) (blockgraph.IDSet, error) {
	if past, ok := cm.pastCache[id]; ok {
		return past, nil
	}
	past, err := cm.traverse(id, cm.topology.ParentsOf)
	if err != nil {
		return nil, err
	}
	cm.pastCache[id] = past
	return past, nil
}

func (cm *ConeManager) futureSet(id model.BlockID) (blockgraph.IDSet, error) {
	return cm.traverse(id, cm.topology.ChildrenOf)
}

// traverse collects all blocks reachable from id through next, visiting each
// block at most once. The graph is acyclic by construction, so the traversal
// always terminates.
func (cm *ConeManager) traverse(id model.BlockID,
	next func(model.BlockID) []model.BlockID) (blockgraph.IDSet, error) {

	if !cm.topology.HasBlock(id) {
		return nil, errors.Errorf("block %s is not in the graph", id)
	}

	visited := blockgraph.NewIDSet()
	queue := next(id)
	for len(queue) > 0 {
		var current model.BlockID
		current, queue = queue[0], queue[1:]
		if visited.Contains(current) {
			continue
		}
		visited.Add(current)
		queue = append(queue, next(current)...)
	}
	return visited, nil
}
