package model

// BlockID is the unique identifier of a block in the DAG. IDs follow the
// visualization naming convention ("Gen", "B1", "B2", ...) but any non-empty
// string is a valid identifier.
type BlockID string

func (id BlockID) String() string {
	return string(id)
}

// Less returns true iff id is lexicographically smaller than other. It is the
// total order used to break blue-score ties, so it must stay consistent across
// the entire run.
func (id BlockID) Less(other BlockID) bool {
	return id < other
}

// CloneIDs returns a copy of the given BlockID slice.
func CloneIDs(ids []BlockID) []BlockID {
	clone := make([]BlockID, len(ids))
	copy(clone, ids)
	return clone
}
