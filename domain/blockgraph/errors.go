package blockgraph

import "fmt"

// ErrorCode identifies a kind of graph-insertion error.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrUnknownParent indicates a referenced parent id is not present in
	// the graph. Parents must exist at insertion time - the graph never
	// accepts forward references.
	ErrUnknownParent ErrorCode = iota

	// ErrEmptyParentSet indicates a block with no parents was submitted
	// after the genesis block already exists.
	ErrEmptyParentSet

	// ErrDuplicateBlock indicates the block id is already in the graph.
	ErrDuplicateBlock

	// ErrTimestampRegression indicates the block's timestamp is earlier
	// than the latest accepted block. The event stream is required to be
	// monotonic non-decreasing, ties allowed.
	ErrTimestampRegression
)

var errorCodeStrings = map[ErrorCode]string{
	ErrUnknownParent:       "ErrUnknownParent",
	ErrEmptyParentSet:      "ErrEmptyParentSet",
	ErrDuplicateBlock:      "ErrDuplicateBlock",
	ErrTimestampRegression: "ErrTimestampRegression",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a rejected insertion request. It is used to indicate
// that processing of a block failed due to a violation of one of the graph
// invariants, as opposed to an internal-consistency failure. The caller can
// use type assertions on the returned error to access the ErrorCode field and
// retry with a corrected request.
type RuleError struct {
	ErrorCode   ErrorCode
	Description string
}

func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}
