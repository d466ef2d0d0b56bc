package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-farm/internal/farm"
)

// UserError represents an error that should be displayed to the user.
// These are not system failures - just invalid input or usage.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// NewUserError creates a user-facing error.
func NewUserError(msg string) *UserError {
	return &UserError{Message: msg}
}

var ruleMessages = map[error]string{
	farm.ErrOutOfBounds:    "Can't move there.",
	farm.ErrNoSelection:    "You haven't selected anything to sow. (Hint: pick a seed type with 1, 2 or 3.)",
	farm.ErrCellOccupied:   "There is already a plant here. (Hint: try reaping it instead.)",
	farm.ErrNoPlant:        "No crop on this cell.",
	farm.ErrFirstState:     "This is the first game state.",
	farm.ErrLastState:      "This is the last game state.",
	farm.ErrSlotEmpty:      "There does not seem to be a saved game in this slot.",
	farm.ErrNothingToErase: "There is no saved game here to erase.",
	farm.ErrSaveVerify:     "Could not save the game. The saved copy did not match.",
	farm.ErrEraseVerify:    "Could not erase the saved game. It is still there.",
	farm.ErrCorruptRecord:  "That saved game is damaged and cannot be loaded.",
}

// userError turns a farm failure into the message a farmer sees. Errors it
// does not recognize pass through unchanged.
func userError(s *Session, err error) error {
	var ue *UserError
	if errors.As(err, &ue) {
		return err
	}

	var bug *farm.BugError
	if errors.As(err, &bug) {
		slog.Error("farm invariant broken", "farmer", s.Name, "op", bug.Op, "detail", bug.Detail)
		return NewUserError(fmt.Sprintf("Can't %s: %s. This is a bug.", bug.Op, bug.Detail))
	}

	if errors.Is(err, farm.ErrNoSeeds) {
		return NewUserError(fmt.Sprintf("You have no %s seeds at this time.", s.Game.State().Selected))
	}

	for sentinel, msg := range ruleMessages {
		if errors.Is(err, sentinel) {
			return NewUserError(msg)
		}
	}

	return err
}
