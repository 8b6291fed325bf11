// Package ghostdagdatastore holds the classification results of every block
// for the lifetime of one run.
package ghostdagdatastore

import (
	"github.com/pkg/errors"

	"github.com/ShaiW/blanim/domain/model"
)

// Store is the in-memory GHOSTDAG data store. Data is staged exactly once per
// block, immediately after insertion, and never modified afterwards. The
// color ledger records the blue/red verdict of a block the first time some
// descendant classifies it; later runs over the same block are ignored, so a
// block's color never flips retroactively.
type Store struct {
	data   map[model.BlockID]*model.GHOSTDAGData
	colors map[model.BlockID]model.Color
}

// New returns a new, empty Store.
func New() *Store {
	return &Store{
		data:   make(map[model.BlockID]*model.GHOSTDAGData),
		colors: make(map[model.BlockID]model.Color),
	}
}

// Stage records the classification data of the given block. Staging a block
// twice indicates a broken pipeline and is rejected.
func (s *Store) Stage(id model.BlockID, data *model.GHOSTDAGData) error {
	if _, ok := s.data[id]; ok {
		return errors.Errorf("GHOSTDAG data for block %s is already staged", id)
	}
	s.data[id] = data
	return nil
}

// Get returns the staged data of the given block. Every inserted block is
// classified immediately, so a miss here means the caller references a block
// that never went through the pipeline.
func (s *Store) Get(id model.BlockID) (*model.GHOSTDAGData, error) {
	data, ok := s.data[id]
	if !ok {
		return nil, errors.Errorf("GHOSTDAG data for block %s was never staged", id)
	}
	return data, nil
}

// Has returns whether data was staged for the given block.
func (s *Store) Has(id model.BlockID) bool {
	_, ok := s.data[id]
	return ok
}

// ColorOf returns the block's color, ColorUnclassified if no descendant
// merged it yet.
func (s *Store) ColorOf(id model.BlockID) model.Color {
	return s.colors[id]
}

// SetColorIfUnset colors the block unless it already has a color, and returns
// whether the color was applied.
func (s *Store) SetColorIfUnset(id model.BlockID, color model.Color) bool {
	if _, ok := s.colors[id]; ok {
		return false
	}
	s.colors[id] = color
	return true
}
