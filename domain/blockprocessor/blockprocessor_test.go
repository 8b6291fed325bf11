package blockprocessor

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ShaiW/blanim/domain/blockgraph"
	"github.com/ShaiW/blanim/domain/model"
	"github.com/ShaiW/blanim/domain/retrievalindex"
	"github.com/ShaiW/blanim/domain/simulator"
)

func testSimulatorConfig(seed int64) simulator.Config {
	return simulator.Config{
		Duration:        20 * time.Second,
		BlocksPerSecond: 2,
		NetworkDelay:    800 * time.Millisecond,
		Seed:            seed,
	}
}

func runSimulation(t *testing.T, processor *BlockProcessor, seed int64) []simulator.BlockEvent {
	t.Helper()
	sim, err := simulator.New(testSimulatorConfig(seed))
	require.NoError(t, err)
	events := sim.Run()
	require.NoError(t, processor.ProcessSimulationEvents(events))
	return events
}

func TestManualInsertion(t *testing.T) {
	processor := New(1)

	genesisID, err := processor.AddBlock(nil, 0)
	require.NoError(t, err)
	require.Equal(t, blockgraph.GenesisID, genesisID)
	require.Equal(t, []model.BlockID{"Gen"}, processor.Tips())

	past, err := processor.PastOf(genesisID)
	require.NoError(t, err)
	require.Empty(t, past)

	// A simulated fork: two blocks on genesis, then a merge block.
	b1, err := processor.AddBlock([]model.BlockID{genesisID}, 1000)
	require.NoError(t, err)
	b2, err := processor.AddBlock([]model.BlockID{genesisID}, 1000)
	require.NoError(t, err)
	require.Equal(t, []model.BlockID{b1, b2}, processor.Tips())

	anticone, err := processor.AnticoneOf(b1)
	require.NoError(t, err)
	require.Equal(t, []model.BlockID{b2}, anticone)

	merge, err := processor.AddBlock([]model.BlockID{b1, b2}, 2000)
	require.NoError(t, err)
	require.Equal(t, []model.BlockID{merge}, processor.Tips())

	// The merge set holds exactly the ancestry not already covered by the
	// selected parent.
	data, err := processor.BlockData(merge)
	require.NoError(t, err)
	require.Equal(t, b2, data.SelectedParent)
	require.Equal(t, []model.BlockID{b1}, data.MergeSet())
}

func TestInsertionFailuresLeaveStateConsistent(t *testing.T) {
	processor := New(1)
	_, err := processor.AddBlock(nil, 0)
	require.NoError(t, err)

	_, err = processor.AddBlock([]model.BlockID{"NoSuchBlock"}, 1000)
	var ruleErr blockgraph.RuleError
	require.True(t, errors.As(err, &ruleErr))
	require.Equal(t, blockgraph.ErrUnknownParent, ruleErr.ErrorCode)

	require.Equal(t, 1, processor.BlockCount())
	require.Equal(t, []model.BlockID{"Gen"}, processor.Tips())
	_, err = processor.Lookup("B1")
	require.True(t, errors.Is(err, retrievalindex.ErrNotFound))
}

func TestProcessSimulationEventsHaltsOnFirstFailure(t *testing.T) {
	processor := New(1)
	events := []simulator.BlockEvent{
		{ID: "Gen", Timestamp: 0},
		{ID: "B1", ParentIDs: []model.BlockID{"NoSuchBlock"}, Timestamp: 1000},
		{ID: "B2", ParentIDs: []model.BlockID{"Gen"}, Timestamp: 2000},
	}

	err := processor.ProcessSimulationEvents(events)
	var ruleErr blockgraph.RuleError
	require.True(t, errors.As(err, &ruleErr))
	require.Equal(t, blockgraph.ErrUnknownParent, ruleErr.ErrorCode)

	// Processing stopped at the bad event, B2 was never inserted.
	require.Equal(t, 1, processor.BlockCount())
	require.Equal(t, model.ColorUnclassified, processor.ColorOf("B2"))
}

func TestEndToEndSimulation(t *testing.T) {
	processor := New(18)
	events := runSimulation(t, processor, 11)

	require.Equal(t, len(events), processor.BlockCount())
	require.NotEmpty(t, processor.Tips())

	// Blue score identity for every non-genesis block.
	for _, id := range processor.BlockIDs() {
		if id == blockgraph.GenesisID {
			continue
		}
		data, err := processor.BlockData(id)
		require.NoError(t, err)
		selectedParentData, err := processor.BlockData(data.SelectedParent)
		require.NoError(t, err)
		require.Equal(t,
			selectedParentData.BlueScore+uint64(len(data.MergeSetBlues)),
			data.BlueScore, "blue score identity broken for %s", id)
	}

	// Cone sanity for every block.
	for _, id := range processor.BlockIDs() {
		past, err := processor.PastOf(id)
		require.NoError(t, err)
		future, err := processor.FutureOf(id)
		require.NoError(t, err)
		pastSet := blockgraph.IDSetFromSlice(past...)
		require.False(t, pastSet.Contains(id))
		for _, descendant := range future {
			require.False(t, pastSet.Contains(descendant),
				"block %s is both ancestor and descendant of %s", descendant, id)
		}
	}
}

// TestBlueKCluster verifies the defining k-cluster property: in the worldview
// of the most scored tip, every blue block has at most k blue blocks in its
// anticone.
func TestBlueKCluster(t *testing.T) {
	const k = 1
	processor := New(k)
	runSimulation(t, processor, 5)

	// The blue set of the heaviest tip is the union of blue merge sets
	// along its selected parent chain.
	var heaviest model.BlockID
	var heaviestScore uint64
	for _, tip := range processor.Tips() {
		data, err := processor.BlockData(tip)
		require.NoError(t, err)
		if data.BlueScore >= heaviestScore {
			heaviest, heaviestScore = tip, data.BlueScore
		}
	}

	blueSet := blockgraph.IDSetFromSlice(heaviest)
	for current := heaviest; current != blockgraph.GenesisID; {
		data, err := processor.BlockData(current)
		require.NoError(t, err)
		for _, blue := range data.MergeSetBlues {
			blueSet.Add(blue)
		}
		current = data.SelectedParent
	}

	for _, blue := range blueSet.ToSortedSlice() {
		anticone, err := processor.AnticoneOf(blue)
		require.NoError(t, err)
		blueAnticone := 0
		for _, other := range anticone {
			if blueSet.Contains(other) {
				blueAnticone++
			}
		}
		require.LessOrEqual(t, blueAnticone, k,
			"blue block %s has %d blues in its anticone", blue, blueAnticone)
	}
}

func TestDeterministicClassification(t *testing.T) {
	first := New(3)
	runSimulation(t, first, 17)
	second := New(3)
	runSimulation(t, second, 17)

	require.Equal(t, first.BlockIDs(), second.BlockIDs())
	for _, id := range first.BlockIDs() {
		firstData, err := first.BlockData(id)
		require.NoError(t, err)
		secondData, err := second.BlockData(id)
		require.NoError(t, err)
		require.Equal(t, firstData, secondData, "classification of %s diverged", id)
		require.Equal(t, first.ColorOf(id), second.ColorOf(id))
	}
}

func TestNotifications(t *testing.T) {
	processor := New(1)

	var added []BlockAddedEvent
	var classified []BlockClassifiedEvent
	var tipChanges []TipsChangedEvent
	require.NoError(t, processor.Bus().Subscribe(TopicBlockAdded, func(event BlockAddedEvent) {
		added = append(added, event)
	}))
	require.NoError(t, processor.Bus().Subscribe(TopicBlockClassified, func(event BlockClassifiedEvent) {
		classified = append(classified, event)
	}))
	require.NoError(t, processor.Bus().Subscribe(TopicTipsChanged, func(event TipsChangedEvent) {
		tipChanges = append(tipChanges, event)
	}))

	_, err := processor.AddBlock(nil, 0)
	require.NoError(t, err)
	b1, err := processor.AddBlock([]model.BlockID{"Gen"}, 1000)
	require.NoError(t, err)
	_, err = processor.AddBlock([]model.BlockID{b1}, 2000)
	require.NoError(t, err)

	require.Len(t, added, 3)
	require.Len(t, classified, 3)
	require.Len(t, tipChanges, 3)

	require.Equal(t, model.BlockID("B1"), added[1].ID)
	require.Equal(t, []model.BlockID{"Gen"}, added[1].ParentIDs)
	require.EqualValues(t, 1000, added[1].Timestamp)

	require.Equal(t, model.BlockID("B2"), classified[2].ID)
	require.Equal(t, b1, classified[2].SelectedParent)
	require.EqualValues(t, 2, classified[2].BlueScore)
	require.Equal(t, []model.BlockID{b1}, classified[2].MergeSetBlues)
	require.Empty(t, classified[2].MergeSetReds)

	require.Equal(t, []model.BlockID{"B2"}, tipChanges[2].Tips)
}

func TestLookupSurface(t *testing.T) {
	processor := New(18)
	runSimulation(t, processor, 29)

	id, err := processor.Lookup("B1")
	require.NoError(t, err)
	require.Equal(t, model.BlockID("B1"), id)

	matches := processor.FuzzyLookup("B1")
	require.NotEmpty(t, matches)
	require.Equal(t, model.BlockID("B1"), matches[0])

	require.Empty(t, processor.FuzzyLookup("zzz"))
}
