package model

import "fmt"

// State is the tag attached to one addressable unit, buddy layer entry, or
// linked-list block.
type State int

const (
	// StateEmpty marks cells with no allocator state behind them: grid cells
	// past the end of memory and unallocated background. It is never a valid
	// input tag.
	StateEmpty State = -1

	StateFree   State = 0
	StateUsed   State = 1
	StateMarked State = 2
)

// NumStates is the size of the closed state set.
const NumStates = 3

// Valid reports whether s is one of the input tags.
func (s State) Valid() bool { return s >= StateFree && s < NumStates }

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "Empty"
	case StateFree:
		return "Free"
	case StateUsed:
		return "Used"
	case StateMarked:
		return "Marked"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
