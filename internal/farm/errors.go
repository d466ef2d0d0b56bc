package farm

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds  = errors.New("can't move there")
	ErrNoSelection  = errors.New("no plant type selected")
	ErrCellOccupied = errors.New("cell already has a plant")
	ErrNoSeeds      = errors.New("no seeds of the selected type")
	ErrNoPlant      = errors.New("no plant on this cell")

	ErrFirstState = errors.New("this is the first game state")
	ErrLastState  = errors.New("this is the last game state")

	ErrSlotEmpty      = errors.New("no saved game in this slot")
	ErrNothingToErase = errors.New("no saved game to erase")
	ErrSaveVerify     = errors.New("saved game did not read back")
	ErrEraseVerify    = errors.New("saved game is still present after erase")

	ErrCorruptRecord = errors.New("corrupt state record")

	// ErrBug marks conditions the rules make impossible.
	ErrBug = errors.New("bug")
)

// BugError reports a broken invariant. The session survives it.
type BugError struct {
	Op     string
	Detail string
}

func (e *BugError) Error() string {
	return fmt.Sprintf("%s: %s (this is a bug)", e.Op, e.Detail)
}

func (e *BugError) Unwrap() error {
	return ErrBug
}

func newBug(op, format string, args ...any) *BugError {
	return &BugError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
