// Package blockprocessor wires the whole pipeline together: block insertion,
// cone queries, GHOSTDAG classification, retrieval indexing and the
// notification surface consumed by the renderer.
package blockprocessor

import (
	evbus "github.com/asaskevich/EventBus"
	"github.com/pkg/errors"

	"github.com/ShaiW/blanim/domain/blockgraph"
	"github.com/ShaiW/blanim/domain/conemanager"
	"github.com/ShaiW/blanim/domain/ghostdagdatastore"
	"github.com/ShaiW/blanim/domain/ghostdagmanager"
	"github.com/ShaiW/blanim/domain/model"
	"github.com/ShaiW/blanim/domain/retrievalindex"
	"github.com/ShaiW/blanim/domain/simulator"
)

// BlockProcessor owns the block graph and is the only component that mutates
// it. Every insertion fully completes, classification included, before the
// next one starts.
type BlockProcessor struct {
	graph     *blockgraph.BlockGraph
	cone      *conemanager.ConeManager
	dataStore *ghostdagdatastore.Store
	ghostdag  model.GHOSTDAGManager
	index     *retrievalindex.Index
	bus       evbus.Bus
}

// New builds a processor with an empty graph for the given k.
func New(k model.KType) *BlockProcessor {
	graph := blockgraph.New()
	cone := conemanager.New(graph)
	dataStore := ghostdagdatastore.New()
	return &BlockProcessor{
		graph:     graph,
		cone:      cone,
		dataStore: dataStore,
		ghostdag:  ghostdagmanager.New(graph, cone, dataStore, k),
		index:     retrievalindex.New(retrievalindex.DefaultMaxDistance),
		bus:       evbus.New(),
	}
}

// Bus exposes the notification bus so collaborators can subscribe to the
// Topic* events.
func (bp *BlockProcessor) Bus() evbus.Bus {
	return bp.bus
}

// AddBlock inserts a block with an automatically assigned id, classifies it
// and publishes the resulting notifications.
func (bp *BlockProcessor) AddBlock(parentIDs []model.BlockID, timestamp int64) (model.BlockID, error) {
	id, err := bp.graph.AddBlock(parentIDs, timestamp)
	if err != nil {
		return "", err
	}
	return id, bp.afterInsert(id, parentIDs, timestamp)
}

// AddBlockWithID is AddBlock for callers that bring their own id, such as the
// simulation event feed.
func (bp *BlockProcessor) AddBlockWithID(id model.BlockID, parentIDs []model.BlockID, timestamp int64) error {
	if _, err := bp.graph.AddBlockWithID(id, parentIDs, timestamp); err != nil {
		return err
	}
	return bp.afterInsert(id, parentIDs, timestamp)
}

func (bp *BlockProcessor) afterInsert(id model.BlockID, parentIDs []model.BlockID, timestamp int64) error {
	bp.index.Add(id)
	bp.bus.Publish(TopicBlockAdded, BlockAddedEvent{
		ID:        id,
		ParentIDs: model.CloneIDs(parentIDs),
		Timestamp: timestamp,
	})

	data, err := bp.ghostdag.GHOSTDAG(id)
	if err != nil {
		return errors.Wrapf(err, "classifying block %s", id)
	}
	bp.bus.Publish(TopicBlockClassified, BlockClassifiedEvent{
		ID:             id,
		Color:          bp.dataStore.ColorOf(id),
		BlueScore:      data.BlueScore,
		SelectedParent: data.SelectedParent,
		MergeSetBlues:  model.CloneIDs(data.MergeSetBlues),
		MergeSetReds:   model.CloneIDs(data.MergeSetReds),
	})
	bp.bus.Publish(TopicTipsChanged, TipsChangedEvent{Tips: bp.graph.Tips()})
	return nil
}

// ProcessSimulationEvents feeds a simulator run into the graph in order. The
// first failing event halts the run and its error is returned.
func (bp *BlockProcessor) ProcessSimulationEvents(events []simulator.BlockEvent) error {
	for _, event := range events {
		err := bp.AddBlockWithID(event.ID, event.ParentIDs, event.Timestamp)
		if err != nil {
			return errors.Wrapf(err, "processing simulation event %s", event.ID)
		}
	}
	log.Infof("Processed %d simulation events, %d tips", len(events), len(bp.graph.Tips()))
	return nil
}

// Tips returns the current tip set, sorted by id.
func (bp *BlockProcessor) Tips() []model.BlockID {
	return bp.graph.Tips()
}

// Block returns the block record for the given id.
func (bp *BlockProcessor) Block(id model.BlockID) (*blockgraph.Block, bool) {
	return bp.graph.Block(id)
}

// BlockCount returns the number of blocks in the graph.
func (bp *BlockProcessor) BlockCount() int {
	return bp.graph.BlockCount()
}

// BlockIDs returns every block id in insertion order.
func (bp *BlockProcessor) BlockIDs() []model.BlockID {
	return bp.graph.BlockIDs()
}

// PastOf returns the strict past cone of the given block.
func (bp *BlockProcessor) PastOf(id model.BlockID) ([]model.BlockID, error) {
	return bp.cone.PastOf(id)
}

// FutureOf returns the strict future cone of the given block.
func (bp *BlockProcessor) FutureOf(id model.BlockID) ([]model.BlockID, error) {
	return bp.cone.FutureOf(id)
}

// AnticoneOf returns the anticone of the given block.
func (bp *BlockProcessor) AnticoneOf(id model.BlockID) ([]model.BlockID, error) {
	return bp.cone.AnticoneOf(id)
}

// Lookup resolves an exact block id query.
func (bp *BlockProcessor) Lookup(query string) (model.BlockID, error) {
	return bp.index.Lookup(query)
}

// FuzzyLookup resolves a partial block id query, best matches first.
func (bp *BlockProcessor) FuzzyLookup(query string) []model.BlockID {
	return bp.index.FuzzyLookup(query)
}

// BlockData returns the GHOSTDAG data of the given block.
func (bp *BlockProcessor) BlockData(id model.BlockID) (*model.GHOSTDAGData, error) {
	return bp.dataStore.Get(id)
}

// ColorOf returns the current color of the given block.
func (bp *BlockProcessor) ColorOf(id model.BlockID) model.Color {
	return bp.dataStore.ColorOf(id)
}
