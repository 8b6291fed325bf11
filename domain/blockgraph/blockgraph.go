package blockgraph

import (
	"fmt"

	"github.com/ShaiW/blanim/domain/model"
)

// BlockGraph owns the set of logical blocks and their parent/child adjacency.
// It is the single source of truth for the DAG structure, append-only for the
// lifetime of one run, and AddBlock is its only mutation entry point.
//
// Blocks are held in an id-indexed arena rather than as mutable object links,
// so the graph can be serialized, diffed or replayed without reference cycles.
// This type is NOT safe for concurrent access; the pipeline is single-threaded
// by design.
type BlockGraph struct {
	blocks   map[model.BlockID]*Block
	order    []model.BlockID
	children map[model.BlockID]IDSet
	tips     IDSet

	genesisID     model.BlockID
	lastTimestamp int64
}

// New returns a new, empty BlockGraph.
func New() *BlockGraph {
	return &BlockGraph{
		blocks:   make(map[model.BlockID]*Block),
		children: make(map[model.BlockID]IDSet),
		tips:     NewIDSet(),
	}
}

// AddBlock inserts a new block with an auto-generated id: "Gen" for the
// genesis block, then "B1", "B2", ... by insertion sequence.
func (g *BlockGraph) AddBlock(parents []model.BlockID, timestamp int64) (model.BlockID, error) {
	return g.AddBlockWithID(g.nextBlockID(parents), parents, timestamp)
}

// AddBlockWithID inserts a new block under the given id. It fails with a
// RuleError and leaves the graph unmodified when the id collides
// (ErrDuplicateBlock), any parent is missing (ErrUnknownParent), the parent
// set is empty while a genesis already exists (ErrEmptyParentSet), or the
// timestamp precedes the latest accepted block (ErrTimestampRegression).
func (g *BlockGraph) AddBlockWithID(id model.BlockID, parents []model.BlockID, timestamp int64) (model.BlockID, error) {
	if _, ok := g.blocks[id]; ok {
		return "", ruleError(ErrDuplicateBlock, fmt.Sprintf("block %s already exists", id))
	}
	if len(parents) == 0 && g.genesisID != "" {
		return "", ruleError(ErrEmptyParentSet,
			fmt.Sprintf("block %s has no parents but genesis block %s already exists", id, g.genesisID))
	}
	seen := NewIDSet()
	for _, parentID := range parents {
		if _, ok := g.blocks[parentID]; !ok {
			return "", ruleError(ErrUnknownParent, fmt.Sprintf("parent block %s is unknown", parentID))
		}
		if seen.Contains(parentID) {
			return "", ruleError(ErrDuplicateBlock,
				fmt.Sprintf("block %s references parent %s more than once", id, parentID))
		}
		seen.Add(parentID)
	}
	if timestamp < g.lastTimestamp {
		return "", ruleError(ErrTimestampRegression,
			fmt.Sprintf("block %s timestamp %d precedes latest accepted timestamp %d",
				id, timestamp, g.lastTimestamp))
	}

	// All invariants hold - from here on the insertion cannot fail.
	block := &Block{
		ID:        id,
		ParentIDs: model.CloneIDs(parents),
		Timestamp: timestamp,
	}
	g.blocks[id] = block
	g.order = append(g.order, id)
	g.children[id] = NewIDSet()
	g.lastTimestamp = timestamp
	if block.IsGenesis() {
		g.genesisID = id
	}

	for _, parentID := range block.ParentIDs {
		g.children[parentID].Add(id)
		g.tips.Remove(parentID)
	}
	g.tips.Add(id)

	return id, nil
}

func (g *BlockGraph) nextBlockID(parents []model.BlockID) model.BlockID {
	if len(parents) == 0 && g.genesisID == "" {
		return GenesisID
	}
	return model.BlockID(fmt.Sprintf("B%d", len(g.order)))
}

// Block returns the block record for the given id.
func (g *BlockGraph) Block(id model.BlockID) (*Block, bool) {
	block, ok := g.blocks[id]
	return block, ok
}

// HasBlock returns whether the given id is in the graph.
func (g *BlockGraph) HasBlock(id model.BlockID) bool {
	_, ok := g.blocks[id]
	return ok
}

// ParentsOf returns the parent ids of the given block, or nil if the block is
// unknown. The returned slice must not be modified.
func (g *BlockGraph) ParentsOf(id model.BlockID) []model.BlockID {
	block, ok := g.blocks[id]
	if !ok {
		return nil
	}
	return block.ParentIDs
}

// ChildrenOf returns the ids of the blocks referencing the given block as a
// parent, sorted by the BlockID total order.
func (g *BlockGraph) ChildrenOf(id model.BlockID) []model.BlockID {
	children, ok := g.children[id]
	if !ok {
		return nil
	}
	return children.ToSortedSlice()
}

// Tips returns the current tip set - the blocks no other block references as
// a parent - sorted by the BlockID total order. The tip set is maintained
// incrementally on every insertion, never recomputed by scanning.
func (g *BlockGraph) Tips() []model.BlockID {
	return g.tips.ToSortedSlice()
}

// TipSet returns a copy of the tip set.
func (g *BlockGraph) TipSet() IDSet {
	return g.tips.Clone()
}

// GenesisID returns the id of the genesis block, or "" before one exists.
func (g *BlockGraph) GenesisID() model.BlockID {
	return g.genesisID
}

// BlockIDs returns all block ids in insertion order.
func (g *BlockGraph) BlockIDs() []model.BlockID {
	return model.CloneIDs(g.order)
}

// BlockCount returns the number of blocks in the graph.
func (g *BlockGraph) BlockCount() int {
	return len(g.order)
}
