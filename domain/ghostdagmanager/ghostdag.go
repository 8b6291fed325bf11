package ghostdagmanager

import (
	"github.com/pkg/errors"

	"github.com/ShaiW/blanim/domain/model"
	"github.com/ShaiW/blanim/infrastructure/logger"
)

// chainBlockData pairs a block on the new block's selected parent chain with
// its GHOSTDAG data. An empty id represents the new block itself, whose data
// is still being assembled.
type chainBlockData struct {
	id   model.BlockID
	data *model.GHOSTDAGData
}

// GHOSTDAG runs the GHOSTDAG protocol and calculates the block's GHOSTDAG
// data: selected parent, merge set split into blues and reds, blue anticone
// sizes and blue score. The result is staged in the data store and the
// merge-set members receive their final color, first write wins.
//
// The function must be called exactly once per block, immediately after the
// block is inserted into the graph.
func (gm *ghostdagManager) GHOSTDAG(blockID model.BlockID) (*model.GHOSTDAGData, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "GHOSTDAG")
	defer onEnd()

	newBlockData := &model.GHOSTDAGData{
		MergeSetBlues:      make([]model.BlockID, 0),
		MergeSetReds:       make([]model.BlockID, 0),
		BluesAnticoneSizes: make(map[model.BlockID]model.KType),
	}

	blockParents := gm.topology.ParentsOf(blockID)
	if len(blockParents) == 0 {
		// The genesis block is defined to have a blue score of 0 and is
		// blue in every worldview.
		if err := gm.dataStore.Stage(blockID, newBlockData); err != nil {
			return nil, err
		}
		gm.dataStore.SetColorIfUnset(blockID, model.ColorBlue)
		return newBlockData, nil
	}

	selectedParent, err := gm.findSelectedParent(blockParents)
	if err != nil {
		return nil, err
	}
	newBlockData.SelectedParent = selectedParent
	newBlockData.MergeSetBlues = append(newBlockData.MergeSetBlues, selectedParent)
	newBlockData.BluesAnticoneSizes[selectedParent] = 0

	mergeSet, err := gm.mergeSet(selectedParent, blockParents)
	if err != nil {
		return nil, err
	}

	for _, blueCandidate := range mergeSet {
		isBlue, candidateAnticoneSize, candidateBluesAnticoneSizes, err :=
			gm.checkBlueCandidate(newBlockData, blueCandidate)
		if err != nil {
			return nil, err
		}

		if isBlue {
			// No k-cluster violation found, we can now set the candidate block as blue.
			newBlockData.MergeSetBlues = append(newBlockData.MergeSetBlues, blueCandidate)
			newBlockData.BluesAnticoneSizes[blueCandidate] = candidateAnticoneSize
			for blue, blueAnticoneSize := range candidateBluesAnticoneSizes {
				newBlockData.BluesAnticoneSizes[blue] = blueAnticoneSize + 1
			}
		} else {
			newBlockData.MergeSetReds = append(newBlockData.MergeSetReds, blueCandidate)
		}
	}

	selectedParentData, err := gm.dataStore.Get(selectedParent)
	if err != nil {
		return nil, err
	}
	newBlockData.BlueScore = selectedParentData.BlueScore + uint64(len(newBlockData.MergeSetBlues))

	if err := gm.dataStore.Stage(blockID, newBlockData); err != nil {
		return nil, err
	}
	for _, blue := range newBlockData.MergeSetBlues {
		gm.dataStore.SetColorIfUnset(blue, model.ColorBlue)
	}
	for _, red := range newBlockData.MergeSetReds {
		gm.dataStore.SetColorIfUnset(red, model.ColorRed)
	}

	log.Tracef("GHOSTDAG %s: selected parent %s, blue score %d, %d blues, %d reds",
		blockID, selectedParent, newBlockData.BlueScore,
		len(newBlockData.MergeSetBlues), len(newBlockData.MergeSetReds))

	return newBlockData, nil
}

// checkBlueCandidate decides whether the candidate can join the blue set
// without breaking the k-cluster property. It walks the new block's selected
// parent chain, accumulating the candidate's anticone against every blue
// encountered on the way.
func (gm *ghostdagManager) checkBlueCandidate(newBlockData *model.GHOSTDAGData,
	blueCandidate model.BlockID) (isBlue bool, candidateAnticoneSize model.KType,
	candidateBluesAnticoneSizes map[model.BlockID]model.KType, err error) {

	// The maximum length of the blue set is k+1 because it contains the
	// selected parent.
	if uint64(len(newBlockData.MergeSetBlues)) == uint64(gm.k)+1 {
		return false, 0, nil, nil
	}

	candidateBluesAnticoneSizes = make(map[model.BlockID]model.KType, gm.k)
	chainBlock := chainBlockData{data: newBlockData}

	for {
		isBlue, isRed, err := gm.checkBlueCandidateWithChainBlock(newBlockData, chainBlock,
			blueCandidate, candidateBluesAnticoneSizes, &candidateAnticoneSize)
		if err != nil {
			return false, 0, nil, err
		}
		if isBlue {
			break
		}
		if isRed {
			return false, 0, nil, nil
		}

		if chainBlock.data.SelectedParent == "" {
			// The walk is expected to resolve at the genesis block at the
			// latest, since genesis is in the past of every candidate.
			return false, 0, nil, errors.Errorf(
				"blue candidate %s was not resolved against the selected parent chain", blueCandidate)
		}
		selectedParentData, err := gm.dataStore.Get(chainBlock.data.SelectedParent)
		if err != nil {
			return false, 0, nil, err
		}
		chainBlock = chainBlockData{id: chainBlock.data.SelectedParent, data: selectedParentData}
	}

	return true, candidateAnticoneSize, candidateBluesAnticoneSizes, nil
}

func (gm *ghostdagManager) checkBlueCandidateWithChainBlock(newBlockData *model.GHOSTDAGData,
	chainBlock chainBlockData, blueCandidate model.BlockID,
	candidateBluesAnticoneSizes map[model.BlockID]model.KType,
	candidateAnticoneSize *model.KType) (isBlue, isRed bool, err error) {

	// If the candidate is in the future of the chain block, every remaining
	// blue on the chain is in the candidate's past, so the candidate cannot
	// accumulate any more anticone and can safely be colored blue.
	if chainBlock.id != "" {
		isAncestorOfBlueCandidate, err := gm.cone.IsAncestorOf(chainBlock.id, blueCandidate)
		if err != nil {
			return false, false, err
		}
		if isAncestorOfBlueCandidate {
			return true, false, nil
		}
	}

	for _, block := range chainBlock.data.MergeSetBlues {
		// Skip blocks that exist in the past of the candidate.
		isAncestorOfBlueCandidate, err := gm.cone.IsAncestorOf(block, blueCandidate)
		if err != nil {
			return false, false, err
		}
		if isAncestorOfBlueCandidate {
			continue
		}

		candidateBluesAnticoneSizes[block], err = gm.blueAnticoneSize(block, newBlockData)
		if err != nil {
			return false, false, err
		}
		*candidateAnticoneSize++

		if *candidateAnticoneSize > gm.k {
			// k-cluster violation: the candidate's blue anticone exceeded k.
			return false, true, nil
		}
		if candidateBluesAnticoneSizes[block] == gm.k {
			// k-cluster violation: the block that would become the
			// candidate's anticone member already has k blues in its own
			// anticone.
			return false, true, nil
		}
		if candidateBluesAnticoneSizes[block] > gm.k {
			return false, false, errors.Errorf(
				"blue anticone size of %s is %d, larger than k=%d",
				block, candidateBluesAnticoneSizes[block], gm.k)
		}
	}

	return false, false, nil
}

// blueAnticoneSize returns the blue anticone size of the given block from the
// worldview of the given context. Expects the block to be in the blue set of
// the context; anything else is an internal-consistency failure.
func (gm *ghostdagManager) blueAnticoneSize(block model.BlockID,
	context *model.GHOSTDAGData) (model.KType, error) {

	for current := context; ; {
		if size, ok := current.BluesAnticoneSizes[block]; ok {
			return size, nil
		}
		if current.SelectedParent == "" {
			return 0, errors.Errorf("block %s is not in the blue set of the given context", block)
		}
		next, err := gm.dataStore.Get(current.SelectedParent)
		if err != nil {
			return 0, err
		}
		current = next
	}
}
