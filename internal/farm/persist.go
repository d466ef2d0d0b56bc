package farm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// AutosaveSlot is the slot written after every committed action.
const AutosaveSlot = -1

// Store is a string-keyed save store.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// SlotKey returns the store key of a save slot.
func SlotKey(slot int) string {
	return fmt.Sprintf("saveSlot%d", slot)
}

type savedHistory struct {
	RedoStack []string `json:"redoStack"`
	UndoStack []string `json:"undoStack"`
}

// MarshalJSON writes both stacks as arrays of hex-encoded records.
func (h *History) MarshalJSON() ([]byte, error) {
	saved := savedHistory{
		RedoStack: make([]string, 0, len(h.redo)),
		UndoStack: make([]string, 0, len(h.undo)),
	}
	for _, s := range h.redo {
		saved.RedoStack = append(saved.RedoStack, s.pack().String())
	}
	for _, s := range h.undo {
		saved.UndoStack = append(saved.UndoStack, s.pack().String())
	}
	return json.Marshal(saved)
}

// UnmarshalJSON replaces both stacks. h is left untouched on error.
func (h *History) UnmarshalJSON(b []byte) error {
	var saved savedHistory
	if err := json.Unmarshal(b, &saved); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	if len(saved.UndoStack) == 0 {
		return fmt.Errorf("%w: undo stack is empty", ErrCorruptRecord)
	}

	undo, err := decodeStack(saved.UndoStack)
	if err != nil {
		return fmt.Errorf("undo stack: %w", err)
	}
	redo, err := decodeStack(saved.RedoStack)
	if err != nil {
		return fmt.Errorf("redo stack: %w", err)
	}

	h.replace(undo, redo)
	return nil
}

func decodeStack(records []string) ([]*State, error) {
	stack := make([]*State, 0, len(records))
	for i, rec := range records {
		s := &State{}
		if err := s.UnmarshalText([]byte(rec)); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		stack = append(stack, s)
	}
	return stack, nil
}

// Save writes the history to slot and verifies it by reading it back. Slot
// zero means the game's current slot.
func (g *Game) Save(ctx context.Context, slot int) error {
	if g.store == nil {
		return fmt.Errorf("saving: no store configured")
	}
	key := SlotKey(g.resolveSlot(slot))

	data, err := json.Marshal(g.history)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	if err := g.store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}

	got, ok, err := g.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("reading back %s: %w", key, err)
	}
	if !ok || got != string(data) {
		return ErrSaveVerify
	}

	return nil
}

// Load replaces the history with the one saved in slot and autosaves it. A
// missing autosave is not an error; loaded reports whether anything was read.
func (g *Game) Load(ctx context.Context, slot int) (loaded bool, err error) {
	if g.store == nil {
		return false, fmt.Errorf("loading: no store configured")
	}
	slot = g.resolveSlot(slot)
	key := SlotKey(slot)

	data, ok, err := g.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}
	if !ok || data == "" {
		if slot == AutosaveSlot {
			return false, nil
		}
		return false, ErrSlotEmpty
	}

	h := &History{}
	if err := h.UnmarshalJSON([]byte(data)); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}

	g.history = h
	g.justWon = false
	if slot != AutosaveSlot {
		g.autosave(ctx)
	}
	return true, nil
}

// Erase removes the saved game in slot, and the autosave too when the rules
// ask for it.
func (g *Game) Erase(ctx context.Context, slot int) error {
	if g.store == nil {
		return fmt.Errorf("erasing: no store configured")
	}
	keys := []string{SlotKey(g.resolveSlot(slot))}
	if g.rules.EraseClearsAutosave && keys[0] != SlotKey(AutosaveSlot) {
		keys = append(keys, SlotKey(AutosaveSlot))
	}

	present := false
	for _, key := range keys {
		_, ok, err := g.store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("reading %s: %w", key, err)
		}
		present = present || ok
	}
	if !present {
		return ErrNothingToErase
	}

	var errs []error
	for _, key := range keys {
		if err := g.store.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("deleting %s: %w", key, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	for _, key := range keys {
		_, ok, err := g.store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("verifying %s: %w", key, err)
		}
		if ok {
			return ErrEraseVerify
		}
	}

	return nil
}

func (g *Game) autosave(ctx context.Context) {
	if g.store == nil {
		return
	}
	if err := g.Save(ctx, AutosaveSlot); err != nil {
		g.logger.WarnContext(ctx, "autosave failed", "game", g.id, "error", err)
	}
}

func (g *Game) resolveSlot(slot int) int {
	if slot == 0 {
		return g.slot
	}
	return slot
}
