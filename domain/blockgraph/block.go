package blockgraph

import (
	"fmt"

	"github.com/ShaiW/blanim/domain/model"
)

// GenesisID is the id given to the unique parentless block when no explicit
// id is supplied. The naming convention ("Gen", "B1", "B2", ...) matches the
// labels shown by the rendering layer.
const GenesisID = model.BlockID("Gen")

// Block is the logical block record owned by the graph arena. It is immutable
// once inserted; classification results live in the GHOSTDAG data store, and
// the children relation is an index owned by BlockGraph, never part of this
// record.
type Block struct {
	// ID is the unique identifier of the block.
	ID model.BlockID

	// ParentIDs are the ids of the block's parents in submission order.
	// Empty only for the genesis block.
	ParentIDs []model.BlockID

	// Timestamp is the logical creation time of the block, in milliseconds
	// from the start of the run.
	Timestamp int64
}

// IsGenesis returns whether the block is the parentless genesis block.
func (b *Block) IsGenesis() bool {
	return len(b.ParentIDs) == 0
}

// String returns a string that contains the block id and timestamp.
func (b *Block) String() string {
	return fmt.Sprintf("%s (%d)", b.ID, b.Timestamp)
}
