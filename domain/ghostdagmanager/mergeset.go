package ghostdagmanager

import (
	"sort"

	"github.com/ShaiW/blanim/domain/model"
)

// mergeSet returns every block reachable from the given parents that is not
// already an ancestor of the selected parent (and is not the selected parent
// itself), ordered by the blue-score-then-id total order.
func (gm *ghostdagManager) mergeSet(selectedParent model.BlockID,
	blockParents []model.BlockID) ([]model.BlockID, error) {

	mergeSetMap := make(map[model.BlockID]struct{}, gm.k)
	mergeSetSlice := make([]model.BlockID, 0, gm.k)
	selectedParentPast := make(map[model.BlockID]struct{})
	queue := []model.BlockID{}
	// Queueing all parents (other than the selected parent itself) for processing.
	for _, parent := range blockParents {
		if parent == selectedParent {
			continue
		}
		mergeSetMap[parent] = struct{}{}
		mergeSetSlice = append(mergeSetSlice, parent)
		queue = append(queue, parent)
	}

	for len(queue) > 0 {
		var current model.BlockID
		current, queue = queue[0], queue[1:]
		// For each parent of the current block we check whether it is in the past of the selected parent. If not,
		// we add it to the resulting merge set and queue it for further processing.
		for _, parent := range gm.topology.ParentsOf(current) {
			if _, ok := mergeSetMap[parent]; ok {
				continue
			}
			if _, ok := selectedParentPast[parent]; ok {
				continue
			}

			isAncestorOfSelectedParent, err := gm.cone.IsAncestorOf(parent, selectedParent)
			if err != nil {
				return nil, err
			}
			if isAncestorOfSelectedParent {
				selectedParentPast[parent] = struct{}{}
				continue
			}

			mergeSetMap[parent] = struct{}{}
			mergeSetSlice = append(mergeSetSlice, parent)
			queue = append(queue, parent)
		}
	}

	var sortErr error
	sort.Slice(mergeSetSlice, func(i, j int) bool {
		isLess, err := gm.less(mergeSetSlice[i], mergeSetSlice[j])
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return isLess
	})
	if sortErr != nil {
		return nil, sortErr
	}

	return mergeSetSlice, nil
}
