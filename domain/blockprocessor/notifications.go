package blockprocessor

import (
	"github.com/ShaiW/blanim/domain/model"
)

// EventBus topics published by the processor. Subscribers register handlers
// with the signature func(<payload struct>).
const (
	TopicBlockAdded      = "blockprocessor:blockAdded"
	TopicBlockClassified = "blockprocessor:blockClassified"
	TopicTipsChanged     = "blockprocessor:tipsChanged"
)

// BlockAddedEvent is published on TopicBlockAdded once per successfully
// inserted block, before classification runs.
type BlockAddedEvent struct {
	ID        model.BlockID
	ParentIDs []model.BlockID
	Timestamp int64
}

// BlockClassifiedEvent is published on TopicBlockClassified once per block,
// right after its GHOSTDAG data is resolved.
type BlockClassifiedEvent struct {
	ID             model.BlockID
	Color          model.Color
	BlueScore      uint64
	SelectedParent model.BlockID
	MergeSetBlues  []model.BlockID
	MergeSetReds   []model.BlockID
}

// TipsChangedEvent is published on TopicTipsChanged whenever an insertion
// changed the tip set.
type TipsChangedEvent struct {
	Tips []model.BlockID
}
