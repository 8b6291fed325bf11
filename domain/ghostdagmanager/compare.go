package ghostdagmanager

import (
	"github.com/pkg/errors"

	"github.com/ShaiW/blanim/domain/model"
)

// findSelectedParent picks the parent with the highest blue score, breaking
// ties by the BlockID total order so the choice is always deterministic.
// Failing to find one among a non-empty parent set indicates a graph
// invariant violation and is fatal, unlike ordinary rule errors.
func (gm *ghostdagManager) findSelectedParent(parents []model.BlockID) (model.BlockID, error) {
	if len(parents) == 0 {
		return "", errors.Errorf("cannot select a parent out of an empty parent set")
	}

	selectedParent := parents[0]
	for _, parent := range parents[1:] {
		isSelectedParentSmaller, err := gm.less(selectedParent, parent)
		if err != nil {
			return "", err
		}
		if isSelectedParentSmaller {
			selectedParent = parent
		}
	}
	return selectedParent, nil
}

// less returns whether blockA is smaller than blockB in the
// blue-score-then-id total order.
func (gm *ghostdagManager) less(blockA, blockB model.BlockID) (bool, error) {
	dataA, err := gm.dataStore.Get(blockA)
	if err != nil {
		return false, err
	}
	dataB, err := gm.dataStore.Get(blockB)
	if err != nil {
		return false, err
	}

	if dataA.BlueScore == dataB.BlueScore {
		return blockA.Less(blockB), nil
	}
	return dataA.BlueScore < dataB.BlueScore, nil
}
