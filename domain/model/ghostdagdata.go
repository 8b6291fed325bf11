package model

// GHOSTDAGData holds the classification output computed for a single block at
// insertion time. Once staged in the data store it is never modified.
type GHOSTDAGData struct {
	// BlueScore is the amount of blue blocks in the block's past,
	// including the block's merge set blues.
	BlueScore uint64

	// SelectedParent is the parent with the highest blue score, ties broken
	// by the BlockID total order. Empty for the genesis block.
	SelectedParent BlockID

	// MergeSetBlues are the merge-set members classified blue, in
	// classification order. The selected parent is always the first entry.
	MergeSetBlues []BlockID

	// MergeSetReds are the merge-set members classified red, in
	// classification order.
	MergeSetReds []BlockID

	// BluesAnticoneSizes maps each blue in the block's worldview to the
	// size of its anticone restricted to that worldview's blue set.
	BluesAnticoneSizes map[BlockID]KType
}

// MergeSet returns the full merge set, blues before reds.
func (gd *GHOSTDAGData) MergeSet() []BlockID {
	mergeSet := make([]BlockID, 0, len(gd.MergeSetBlues)+len(gd.MergeSetReds))
	// The selected parent is part of the blue set but not of the merge set.
	for _, blue := range gd.MergeSetBlues {
		if blue == gd.SelectedParent {
			continue
		}
		mergeSet = append(mergeSet, blue)
	}
	return append(mergeSet, gd.MergeSetReds...)
}
