package model

// DAGTopology is the read surface of the block graph: parent/child adjacency
// and the current tip set.
type DAGTopology interface {
	HasBlock(id BlockID) bool
	ParentsOf(id BlockID) []BlockID
	ChildrenOf(id BlockID) []BlockID
	Tips() []BlockID
	BlockIDs() []BlockID
	BlockCount() int
}

// ConeCalculator computes past, future and anticone sets against the current
// graph. Past sets of existing blocks never change, so implementations are
// free to memoize them; future sets must not be cached.
type ConeCalculator interface {
	PastOf(id BlockID) ([]BlockID, error)
	FutureOf(id BlockID) ([]BlockID, error)
	AnticoneOf(id BlockID) ([]BlockID, error)
	IsAncestorOf(ancestor, descendant BlockID) (bool, error)
}

// GHOSTDAGDataStore stages classification results. Staging the same block
// twice is an error - each block is classified exactly once.
type GHOSTDAGDataStore interface {
	Stage(id BlockID, data *GHOSTDAGData) error
	Get(id BlockID) (*GHOSTDAGData, error)
	Has(id BlockID) bool
	ColorOf(id BlockID) Color
	SetColorIfUnset(id BlockID, color Color) bool
}

// GHOSTDAGManager resolves and manages GHOSTDAG block data.
type GHOSTDAGManager interface {
	GHOSTDAG(id BlockID) (*GHOSTDAGData, error)
}
