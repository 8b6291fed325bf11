package retrievalindex

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"

	"github.com/ShaiW/blanim/domain/model"
)

// ErrNotFound is returned by Lookup when no block matches the queried id
// exactly. Fuzzy lookups never return it, they return an empty result instead.
var ErrNotFound = errors.New("block not found")

// DefaultMaxDistance is the Levenshtein distance above which fuzzy matches
// are discarded. Block ids are short, so a handful of edits already means the
// query is about a different block.
const DefaultMaxDistance = 4

// Index resolves user-facing block id queries, either exactly or by ranked
// fuzzy matching. Blocks are registered once, at insertion time, and the
// index never forgets them.
type Index struct {
	ids         map[string]model.BlockID
	targets     []string
	maxDistance int
}

// New returns an empty index. maxDistance bounds the edit distance of fuzzy
// matches; pass DefaultMaxDistance unless the caller has a reason not to.
func New(maxDistance int) *Index {
	return &Index{
		ids:         make(map[string]model.BlockID),
		maxDistance: maxDistance,
	}
}

// Add registers a block id with the index. Re-adding an existing id is a
// no-op.
func (ix *Index) Add(id model.BlockID) {
	key := id.String()
	if _, ok := ix.ids[key]; ok {
		return
	}
	ix.ids[key] = id
	ix.targets = append(ix.targets, key)
}

// Lookup resolves an exact block id. A miss is reported with ErrNotFound.
func (ix *Index) Lookup(query string) (model.BlockID, error) {
	id, ok := ix.ids[query]
	if !ok {
		return "", errors.Wrapf(ErrNotFound, "no block with id %s", query)
	}
	return id, nil
}

// FuzzyLookup returns the block ids most similar to the query, best match
// first. The query is matched as a case-folded subsequence and surviving
// candidates are ranked by Levenshtein distance, ties broken by id so the
// result is deterministic. An empty slice means nothing matched closely
// enough; that is not an error.
func (ix *Index) FuzzyLookup(query string) []model.BlockID {
	ranks := fuzzy.RankFindNormalizedFold(query, ix.targets)
	matches := ranks[:0]
	for _, rank := range ranks {
		if rank.Distance <= ix.maxDistance {
			matches = append(matches, rank)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Target < matches[j].Target
	})

	result := make([]model.BlockID, 0, len(matches))
	for _, match := range matches {
		result = append(result, ix.ids[match.Target])
	}
	return result
}

// Len returns the number of indexed blocks.
func (ix *Index) Len() int {
	return len(ix.targets)
}
