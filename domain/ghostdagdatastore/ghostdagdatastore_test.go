package ghostdagdatastore

import (
	"testing"

	"github.com/ShaiW/blanim/domain/model"
)

func TestStageAndGet(t *testing.T) {
	store := New()

	data := &model.GHOSTDAGData{BlueScore: 7, SelectedParent: "B1"}
	if err := store.Stage("B2", data); err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if !store.Has("B2") {
		t.Fatal("Has returned false for a staged block")
	}

	got, err := store.Get("B2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.BlueScore != 7 || got.SelectedParent != "B1" {
		t.Fatalf("Get returned wrong data: %+v", got)
	}

	if err := store.Stage("B2", data); err == nil {
		t.Fatal("staging the same block twice did not fail")
	}
	if _, err := store.Get("NoSuchBlock"); err == nil {
		t.Fatal("Get of an unstaged block did not fail")
	}
}

func TestColorFirstWriteWins(t *testing.T) {
	store := New()

	if got := store.ColorOf("B1"); got != model.ColorUnclassified {
		t.Fatalf("color before classification: got %s, want %s", got, model.ColorUnclassified)
	}

	if !store.SetColorIfUnset("B1", model.ColorBlue) {
		t.Fatal("first SetColorIfUnset was not applied")
	}
	// A later classification run must not flip the verdict.
	if store.SetColorIfUnset("B1", model.ColorRed) {
		t.Fatal("second SetColorIfUnset overwrote an existing color")
	}
	if got := store.ColorOf("B1"); got != model.ColorBlue {
		t.Fatalf("color after conflicting writes: got %s, want %s", got, model.ColorBlue)
	}
}
