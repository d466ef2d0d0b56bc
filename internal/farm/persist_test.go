package farm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestSlotKey(t *testing.T) {
	testutil.AssertEqual(t, "slot", SlotKey(3), "saveSlot3")
	testutil.AssertEqual(t, "autosave", SlotKey(AutosaveSlot), "saveSlot-1")
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	g := newEmptyGame(t, WithStore(store))

	if err := g.Move(ctx, 2, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g.AdvanceDay(ctx)
	if err := g.Undo(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Save(ctx, 2); err != nil {
		t.Fatalf("saving: %v", err)
	}
	wantUndo := stackBytes(t, g.history.undo)
	wantRedo := stackBytes(t, g.history.redo)

	other := newEmptyGame(t, WithStore(store), WithSeed(99))
	loaded, err := other.Load(ctx, 2)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	testutil.AssertEqual(t, "loaded", loaded, true)
	testutil.AssertEqual(t, "undo", stackBytes(t, other.history.undo), wantUndo)
	testutil.AssertEqual(t, "redo", stackBytes(t, other.history.redo), wantRedo)

	if err := other.Redo(ctx); err != nil {
		t.Fatalf("redo after load: %v", err)
	}
	testutil.AssertEqual(t, "day", other.State().Day, 2)
}

func TestSaveUsesCurrentSlot(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	g := newEmptyGame(t, WithStore(store))
	g.SetSlot(5)

	if err := g.Save(ctx, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, ok, _ := store.Get(ctx, "saveSlot5")
	testutil.AssertEqual(t, "written", ok, true)
}

func TestSaveErrors(t *testing.T) {
	tests := map[string]struct {
		store  func() *mapStore
		expErr string
	}{
		"write fails": {
			store: func() *mapStore {
				s := newMapStore()
				s.setErr = errStore
				return s
			},
			expErr: "writing saveSlot1: store offline",
		},
		"read back differs": {
			store: func() *mapStore {
				s := newMapStore()
				s.mangle = func(v string) string { return strings.ToUpper(v) }
				return s
			},
			expErr: ErrSaveVerify.Error(),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			g := newEmptyGame(t, WithStore(tt.store()))
			testutil.AssertErrorContains(t, g.Save(context.Background(), 1), tt.expErr)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()

	tests := map[string]struct {
		data   map[string]string
		slot   int
		expOk  bool
		expErr error
	}{
		"missing slot": {
			slot:   3,
			expErr: ErrSlotEmpty,
		},
		"missing autosave is silent": {
			slot: AutosaveSlot,
		},
		"corrupt slot": {
			data:   map[string]string{"saveSlot3": `{"redoStack":[],"undoStack":["abc"]}`},
			slot:   3,
			expErr: ErrCorruptRecord,
		},
		"truncated slot": {
			data:   map[string]string{"saveSlot3": `{`},
			slot:   3,
			expErr: ErrCorruptRecord,
		},
		"truncated autosave": {
			data:   map[string]string{"saveSlot-1": `{"undoStack":`},
			slot:   AutosaveSlot,
			expErr: ErrCorruptRecord,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store := newMapStore()
			for k, v := range tt.data {
				store.data[k] = v
			}
			g := newEmptyGame(t, WithStore(store))
			g.State().Day = 12
			before := mustPack(t, g.State())

			loaded, err := g.Load(ctx, tt.slot)
			if !errors.Is(err, tt.expErr) {
				t.Fatalf("expected %v, got %v", tt.expErr, err)
			}
			testutil.AssertEqual(t, "loaded", loaded, tt.expOk)
			testutil.AssertEqual(t, "state untouched", mustPack(t, g.State()), before)
		})
	}
}

func TestAutosaveAfterEveryAction(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	g := newEmptyGame(t, WithStore(store))

	_, ok, _ := store.Get(ctx, SlotKey(AutosaveSlot))
	testutil.AssertEqual(t, "nothing before first action", ok, false)

	if err := g.Move(ctx, 0, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resumed := newEmptyGame(t, WithStore(store), WithSeed(5))
	loaded, err := resumed.Resume(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "loaded", loaded, true)
	testutil.AssertEqual(t, "player", resumed.State().Player, GridPoint{Row: 0, Col: 1})

	if err := g.Undo(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := resumed.Resume(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "undo autosaved", resumed.State().Player, GridPoint{})
}

func TestLoadAutosaves(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	g := newEmptyGame(t, WithStore(store))

	if err := g.Move(ctx, 1, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Save(ctx, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Move(ctx, 0, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := g.Load(ctx, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resumed := newEmptyGame(t, WithStore(store))
	if _, err := resumed.Resume(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "player", resumed.State().Player, GridPoint{Row: 1})
	testutil.AssertEqual(t, "history", stackBytes(t, resumed.History().undo), stackBytes(t, g.History().undo))
}

func TestAutosaveFailureDoesNotFailAction(t *testing.T) {
	store := newMapStore()
	store.setErr = errStore
	g := newEmptyGame(t, WithStore(store))

	if err := g.Move(context.Background(), 1, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "moved", g.State().Player, GridPoint{Row: 1})
}

func TestErase(t *testing.T) {
	ctx := context.Background()

	tests := map[string]struct {
		clearsAutosave bool
		data           map[string]string
		deleteErr      error
		sticky         bool
		slot           int
		expErr         error
		expRemaining   []string
	}{
		"erases slot": {
			data:         map[string]string{"saveSlot1": "x", "saveSlot-1": "y"},
			slot:         1,
			expRemaining: []string{"saveSlot-1"},
		},
		"erases autosave too": {
			clearsAutosave: true,
			data:           map[string]string{"saveSlot1": "x", "saveSlot-1": "y", "saveSlot2": "z"},
			slot:           1,
			expRemaining:   []string{"saveSlot2"},
		},
		"autosave alone counts when cleared": {
			clearsAutosave: true,
			data:           map[string]string{"saveSlot-1": "y"},
			slot:           4,
		},
		"nothing to erase": {
			data:         map[string]string{"saveSlot-1": "y"},
			slot:         4,
			expErr:       ErrNothingToErase,
			expRemaining: []string{"saveSlot-1"},
		},
		"delete fails": {
			data:         map[string]string{"saveSlot1": "x"},
			deleteErr:    errStore,
			slot:         1,
			expErr:       errStore,
			expRemaining: []string{"saveSlot1"},
		},
		"still present": {
			data:         map[string]string{"saveSlot1": "x"},
			sticky:       true,
			slot:         1,
			expErr:       ErrEraseVerify,
			expRemaining: []string{"saveSlot1"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store := newMapStore()
			for k, v := range tt.data {
				store.data[k] = v
			}
			store.deleteErr = tt.deleteErr
			store.sticky = tt.sticky

			rules := DefaultRules()
			rules.SeedChance = 0
			rules.EraseClearsAutosave = tt.clearsAutosave
			g := newEmptyGame(t, WithStore(store), WithRules(rules))

			err := g.Erase(ctx, tt.slot)
			if !errors.Is(err, tt.expErr) {
				t.Fatalf("expected %v, got %v", tt.expErr, err)
			}

			remaining := map[string]bool{}
			for k := range store.data {
				remaining[k] = true
			}
			want := map[string]bool{}
			for _, k := range tt.expRemaining {
				want[k] = true
			}
			testutil.AssertEqual(t, "remaining", remaining, want)
		})
	}
}

func TestNoStoreConfigured(t *testing.T) {
	ctx := context.Background()
	g := newEmptyGame(t)

	testutil.AssertErrorContains(t, g.Save(ctx, 1), "no store configured")
	_, err := g.Load(ctx, 1)
	testutil.AssertErrorContains(t, err, "no store configured")
	testutil.AssertErrorContains(t, g.Erase(ctx, 1), "no store configured")
}
