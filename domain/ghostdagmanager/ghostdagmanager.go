// Package ghostdagmanager implements the GHOSTDAG k-cluster classification:
// selected-parent resolution, merge-set computation and the blue/red coloring
// of every newly inserted block.
package ghostdagmanager

import (
	"github.com/ShaiW/blanim/domain/model"
)

// ghostdagManager resolves and manages GHOSTDAG block data
type ghostdagManager struct {
	topology  model.DAGTopology
	cone      model.ConeCalculator
	dataStore model.GHOSTDAGDataStore
	k         model.KType
}

// New instantiates a new GHOSTDAGManager
func New(
	topology model.DAGTopology,
	cone model.ConeCalculator,
	dataStore model.GHOSTDAGDataStore,
	k model.KType) model.GHOSTDAGManager {

	return &ghostdagManager{
		topology:  topology,
		cone:      cone,
		dataStore: dataStore,
		k:         k,
	}
}
