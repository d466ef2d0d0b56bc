package farm

// History holds the undo and redo stacks. The top of the undo stack is the
// live state; the stack is never empty.
type History struct {
	undo []*State
	redo []*State
}

// NewHistory starts a history whose only entry is initial.
func NewHistory(initial *State) *History {
	return &History{undo: []*State{initial}}
}

// Current returns the live state.
func (h *History) Current() *State {
	return h.undo[len(h.undo)-1]
}

// Previous returns the state beneath the live one, or nil at the first state.
func (h *History) Previous() *State {
	if len(h.undo) < 2 {
		return nil
	}
	return h.undo[len(h.undo)-2]
}

// BeginStep opens a new undo step. Call it once per reversible action,
// before mutating.
func (h *History) BeginStep() {
	h.redo = h.redo[:0]
	h.undo = append(h.undo, h.Current().Clone())
}

func (h *History) Undo() error {
	if len(h.undo) <= 1 {
		return ErrFirstState
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, top)
	return nil
}

func (h *History) Redo() error {
	if len(h.redo) == 0 {
		return ErrLastState
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, top)
	return nil
}

// Depth returns the sizes of the undo and redo stacks.
func (h *History) Depth() (undo, redo int) {
	return len(h.undo), len(h.redo)
}

// Steps returns how many times Undo and Redo can succeed.
func (h *History) Steps() (undo, redo int) {
	return len(h.undo) - 1, len(h.redo)
}

// Reset discards everything and makes initial the only entry.
func (h *History) Reset(initial *State) {
	h.undo = []*State{initial}
	h.redo = nil
}

func (h *History) replace(undo, redo []*State) {
	h.undo = undo
	h.redo = redo
}
