package model

// Color is the consensus-approval status of a block. A block starts
// unclassified and is colored exactly once, when the first descendant merges
// it into its blue set or rejects it.
type Color byte

const (
	// ColorUnclassified means no descendant has merged the block yet.
	ColorUnclassified Color = iota

	// ColorBlue means the block is part of the canonical history.
	ColorBlue

	// ColorRed means the block is acknowledged but excluded from the
	// canonical history.
	ColorRed
)

var colorStrings = map[Color]string{
	ColorUnclassified: "unclassified",
	ColorBlue:         "blue",
	ColorRed:          "red",
}

func (c Color) String() string {
	if s, ok := colorStrings[c]; ok {
		return s
	}
	return "unknown"
}
