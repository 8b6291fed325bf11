package simulator

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/ShaiW/blanim/domain/blockgraph"
	"github.com/ShaiW/blanim/domain/model"
)

// ErrInvalidSimulationParameters is returned by New when the configuration
// fails validation. No simulation runs in that case.
var ErrInvalidSimulationParameters = errors.New("invalid simulation parameters")

// maxBlockParents is the most tips a simulated miner will reference in a
// single block.
const maxBlockParents = 10

// Config holds the parameters of a simulation run.
type Config struct {
	// Duration is the simulated wall-clock span over which blocks are mined.
	Duration time.Duration

	// BlocksPerSecond is the rate of the Poisson block-creation process.
	BlocksPerSecond float64

	// NetworkDelay is how long a freshly created block takes to become
	// visible to other miners. A zero delay produces a simple chain, a
	// delay on the order of the inter-block time produces genuine forks.
	NetworkDelay time.Duration

	// Seed seeds the random source. The same seed and configuration always
	// produce the same event sequence.
	Seed int64
}

// BlockEvent is a single simulated block creation. Timestamps are
// milliseconds from the start of the run.
type BlockEvent struct {
	ID        model.BlockID
	ParentIDs []model.BlockID
	Timestamp int64
}

// Simulator generates a reproducible sequence of block-creation events over
// a simulated network with propagation delay. It only produces events, it
// never mutates a block graph.
type Simulator struct {
	config Config
}

// New validates the configuration and returns a simulator for it.
func New(config Config) (*Simulator, error) {
	if config.Duration <= 0 {
		return nil, errors.Wrapf(ErrInvalidSimulationParameters,
			"duration must be positive, got %s", config.Duration)
	}
	if config.BlocksPerSecond <= 0 {
		return nil, errors.Wrapf(ErrInvalidSimulationParameters,
			"blocks per second must be positive, got %f", config.BlocksPerSecond)
	}
	if config.NetworkDelay < 0 {
		return nil, errors.Wrapf(ErrInvalidSimulationParameters,
			"network delay must not be negative, got %s", config.NetworkDelay)
	}
	return &Simulator{config: config}, nil
}

// createdBlock records an already-resolved event, so later events can decide
// which blocks were visible to their creator.
type createdBlock struct {
	id        model.BlockID
	parentIDs []model.BlockID
	timestamp int64
}

// Run executes the simulation and returns the ordered event sequence,
// starting with the genesis event at time zero.
func (s *Simulator) Run() []BlockEvent {
	rng := rand.New(rand.NewSource(s.config.Seed))

	// Draw the whole Poisson process up front. Inter-arrival times of a
	// Poisson process at rate lambda are exponential with mean 1/lambda.
	pending := newEventHeap()
	sequence := uint64(0)
	durationMs := s.config.Duration.Milliseconds()
	elapsed := 0.0
	for {
		elapsed += rng.ExpFloat64() / s.config.BlocksPerSecond
		timestamp := int64(elapsed * 1000)
		if timestamp > durationMs {
			break
		}
		sequence++
		pending.push(&pendingEvent{timestamp: timestamp, sequence: sequence})
	}

	events := []BlockEvent{{ID: blockgraph.GenesisID, Timestamp: 0}}
	created := []*createdBlock{{id: blockgraph.GenesisID, timestamp: 0}}

	// visibleTips tracks the tips of the sub-DAG every miner has already
	// heard about. Genesis is visible from the start regardless of delay.
	visibleTips := blockgraph.NewIDSet()
	visibleTips.Add(blockgraph.GenesisID)
	visibleCursor := 1

	delayMs := s.config.NetworkDelay.Milliseconds()
	for pending.len() > 0 {
		event := pending.pop()

		// Reveal every block that had time to propagate before this event.
		for visibleCursor < len(created) &&
			created[visibleCursor].timestamp <= event.timestamp-delayMs {
			block := created[visibleCursor]
			for _, parent := range block.parentIDs {
				visibleTips.Remove(parent)
			}
			visibleTips.Add(block.id)
			visibleCursor++
		}

		id := model.BlockID(fmt.Sprintf("B%d", len(created)))
		parentIDs := pickParents(rng, visibleTips)
		events = append(events, BlockEvent{
			ID:        id,
			ParentIDs: parentIDs,
			Timestamp: event.timestamp,
		})
		created = append(created, &createdBlock{
			id:        id,
			parentIDs: parentIDs,
			timestamp: event.timestamp,
		})
	}

	log.Debugf("Simulated %d blocks over %s at %f blocks/s with %s network delay",
		len(events), s.config.Duration, s.config.BlocksPerSecond, s.config.NetworkDelay)
	return events
}

// pickParents draws a random non-empty subset of the visible tips, sorted by
// id so the event sequence is canonical.
func pickParents(rng *rand.Rand, visibleTips blockgraph.IDSet) []model.BlockID {
	tips := visibleTips.ToSortedSlice()
	maxParents := maxBlockParents
	if len(tips) < maxParents {
		maxParents = len(tips)
	}
	parentCount := 1 + rng.Intn(maxParents)

	parentIDs := make([]model.BlockID, 0, parentCount)
	for _, i := range rng.Perm(len(tips))[:parentCount] {
		parentIDs = append(parentIDs, tips[i])
	}
	sort.Slice(parentIDs, func(i, j int) bool {
		return parentIDs[i].Less(parentIDs[j])
	})
	return parentIDs
}
