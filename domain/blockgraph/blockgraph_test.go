package blockgraph

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"github.com/ShaiW/blanim/domain/model"
)

// checkRuleError ensures the given error is a RuleError with the wanted code.
func checkRuleError(t *testing.T, err error, wantCode ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected rule error %s, got nil", wantCode)
	}
	var ruleErr RuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("expected a RuleError, got %T: %v", err, err)
	}
	if ruleErr.ErrorCode != wantCode {
		t.Fatalf("expected error code %s, got %s", wantCode, ruleErr.ErrorCode)
	}
}

func TestAddBlockAssignsIDs(t *testing.T) {
	graph := New()

	genesisID, err := graph.AddBlock(nil, 0)
	if err != nil {
		t.Fatalf("AddBlock genesis: %v", err)
	}
	if genesisID != GenesisID {
		t.Fatalf("genesis id: got %s, want %s", genesisID, GenesisID)
	}
	if graph.GenesisID() != GenesisID {
		t.Fatalf("GenesisID: got %s, want %s", graph.GenesisID(), GenesisID)
	}

	firstID, err := graph.AddBlock([]model.BlockID{genesisID}, 1000)
	if err != nil {
		t.Fatalf("AddBlock first child: %v", err)
	}
	if firstID != "B1" {
		t.Fatalf("first child id: got %s, want B1", firstID)
	}

	secondID, err := graph.AddBlock([]model.BlockID{firstID}, 2000)
	if err != nil {
		t.Fatalf("AddBlock second child: %v", err)
	}
	if secondID != "B2" {
		t.Fatalf("second child id: got %s, want B2", secondID)
	}

	wantOrder := []model.BlockID{"Gen", "B1", "B2"}
	if !reflect.DeepEqual(graph.BlockIDs(), wantOrder) {
		t.Fatalf("BlockIDs: got %v, want %v", graph.BlockIDs(), wantOrder)
	}
}

func TestAddBlockRuleErrors(t *testing.T) {
	tests := []struct {
		name      string
		id        model.BlockID
		parents   []model.BlockID
		timestamp int64
		wantCode  ErrorCode
	}{
		{
			name:      "unknown parent",
			id:        "B9",
			parents:   []model.BlockID{"NoSuchBlock"},
			timestamp: 3000,
			wantCode:  ErrUnknownParent,
		},
		{
			name:      "second parentless block",
			id:        "B9",
			parents:   nil,
			timestamp: 3000,
			wantCode:  ErrEmptyParentSet,
		},
		{
			name:      "duplicate id",
			id:        "B1",
			parents:   []model.BlockID{"Gen"},
			timestamp: 3000,
			wantCode:  ErrDuplicateBlock,
		},
		{
			name:      "duplicate parent reference",
			id:        "B9",
			parents:   []model.BlockID{"B1", "B1"},
			timestamp: 3000,
			wantCode:  ErrDuplicateBlock,
		},
		{
			name:      "timestamp regression",
			id:        "B9",
			parents:   []model.BlockID{"B1"},
			timestamp: 500,
			wantCode:  ErrTimestampRegression,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			graph := New()
			if _, err := graph.AddBlock(nil, 0); err != nil {
				t.Fatalf("AddBlock genesis: %v", err)
			}
			if _, err := graph.AddBlock([]model.BlockID{"Gen"}, 1000); err != nil {
				t.Fatalf("AddBlock B1: %v", err)
			}

			wantCount := graph.BlockCount()
			wantTips := graph.Tips()

			_, err := graph.AddBlockWithID(test.id, test.parents, test.timestamp)
			checkRuleError(t, err, test.wantCode)

			// A rejected insertion must leave the graph untouched.
			if graph.BlockCount() != wantCount {
				t.Fatalf("block count changed after failed insertion: got %d, want %d",
					graph.BlockCount(), wantCount)
			}
			if !reflect.DeepEqual(graph.Tips(), wantTips) {
				t.Fatalf("tips changed after failed insertion: got %v, want %v",
					graph.Tips(), wantTips)
			}
			if test.id != "B1" && graph.HasBlock(test.id) {
				t.Fatalf("rejected block %s is present in the graph", test.id)
			}
		})
	}
}

func TestTipsEvolution(t *testing.T) {
	graph := New()

	if _, err := graph.AddBlock(nil, 0); err != nil {
		t.Fatalf("AddBlock genesis: %v", err)
	}
	if !reflect.DeepEqual(graph.Tips(), []model.BlockID{"Gen"}) {
		t.Fatalf("tips after genesis: got %v, want [Gen]", graph.Tips())
	}

	// Two blocks forking off genesis are both tips.
	if _, err := graph.AddBlockWithID("B1", []model.BlockID{"Gen"}, 1000); err != nil {
		t.Fatalf("AddBlockWithID B1: %v", err)
	}
	if _, err := graph.AddBlockWithID("B2", []model.BlockID{"Gen"}, 1000); err != nil {
		t.Fatalf("AddBlockWithID B2: %v", err)
	}
	if !reflect.DeepEqual(graph.Tips(), []model.BlockID{"B1", "B2"}) {
		t.Fatalf("tips after fork: got %v, want [B1 B2]", graph.Tips())
	}

	// A merge block referencing both fork tips becomes the only tip.
	if _, err := graph.AddBlockWithID("B3", []model.BlockID{"B1", "B2"}, 2000); err != nil {
		t.Fatalf("AddBlockWithID B3: %v", err)
	}
	if !reflect.DeepEqual(graph.Tips(), []model.BlockID{"B3"}) {
		t.Fatalf("tips after merge: got %v, want [B3]", graph.Tips())
	}

	if !reflect.DeepEqual(graph.ChildrenOf("Gen"), []model.BlockID{"B1", "B2"}) {
		t.Fatalf("children of genesis: got %v, want [B1 B2]", graph.ChildrenOf("Gen"))
	}
	if !reflect.DeepEqual(graph.ParentsOf("B3"), []model.BlockID{"B1", "B2"}) {
		t.Fatalf("parents of B3: got %v, want [B1 B2]", graph.ParentsOf("B3"))
	}
}

func TestTimestampTiesAreAccepted(t *testing.T) {
	graph := New()
	if _, err := graph.AddBlock(nil, 0); err != nil {
		t.Fatalf("AddBlock genesis: %v", err)
	}
	if _, err := graph.AddBlockWithID("B1", []model.BlockID{"Gen"}, 1000); err != nil {
		t.Fatalf("AddBlockWithID B1: %v", err)
	}
	if _, err := graph.AddBlockWithID("B2", []model.BlockID{"Gen"}, 1000); err != nil {
		t.Fatalf("AddBlockWithID B2 with equal timestamp: %v", err)
	}
}
