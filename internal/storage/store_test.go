package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

func writeRecord(t *testing.T, dir, file string, rec Record) {
	t.Helper()
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("failed to marshal test record: %v", err)
	}
	err = os.WriteFile(filepath.Join(dir, file), data, 0644)
	if err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func TestNewFileStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewFileStore(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "path", store.path, tmpDir)
	testutil.AssertEqual(t, "records length", len(store.records), 0)
}

func TestNewFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "saves", "nested")

	_, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("expected directory to exist: %v", err)
	}
	testutil.AssertEqual(t, "is dir", info.IsDir(), true)
}

func TestNewFileStore_WithExistingRecords(t *testing.T) {
	tmpDir := t.TempDir()

	writeRecord(t, tmpDir, "saveSlot1.json", Record{Version: 1, Key: "saveSlot1", Value: "first"})
	writeRecord(t, tmpDir, "saveSlot-1.json", Record{Version: 1, Key: "saveSlot-1", Value: "auto"})

	store, err := NewFileStore(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "record count", len(store.records), 2)

	val, ok, err := store.Get(context.Background(), "saveSlot1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "value", val, "first")
}

func TestNewFileStore_Errors(t *testing.T) {
	tests := map[string]struct {
		setup  func(t *testing.T, dir string)
		expErr string
	}{
		"invalid json": {
			setup: func(t *testing.T, dir string) {
				err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{invalid json`), 0644)
				if err != nil {
					t.Fatalf("failed to write test file: %v", err)
				}
			},
			expErr: "unmarshalling record",
		},
		"version not set": {
			setup: func(t *testing.T, dir string) {
				writeRecord(t, dir, "saveSlot1.json", Record{Version: 0, Key: "saveSlot1"})
			},
			expErr: "version must be set",
		},
		"file name does not match key": {
			setup: func(t *testing.T, dir string) {
				writeRecord(t, dir, "saveSlot1.json", Record{Version: 1, Key: "saveSlot2"})
			},
			expErr: `holds key "saveSlot2"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			tt.setup(t, tmpDir)

			_, err := NewFileStore(tmpDir)
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestNewFileStore_IgnoresOtherFiles(t *testing.T) {
	tmpDir := t.TempDir()

	writeRecord(t, tmpDir, "saveSlot1.json", Record{Version: 1, Key: "saveSlot1", Value: "v"})

	err := os.WriteFile(filepath.Join(tmpDir, "readme.txt"), []byte("ignore me"), 0644)
	if err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	err = os.WriteFile(filepath.Join(tmpDir, "saveSlot2.json.tmp"), []byte("partial"), 0644)
	if err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	err = os.Mkdir(filepath.Join(tmpDir, "subdir.json"), 0755)
	if err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}

	store, err := NewFileStore(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "record count", len(store.records), 1)
}

func TestFileStore_Set(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	store, err := NewFileStore(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	err = store.Set(ctx, "alice.saveSlot3", `{"undoStack":[]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Verify in-memory cache was updated
	cached, ok, _ := store.Get(ctx, "alice.saveSlot3")
	testutil.AssertEqual(t, "cached", ok, true)
	testutil.AssertEqual(t, "cached value", cached, `{"undoStack":[]}`)

	// Verify file was written
	data, err := os.ReadFile(filepath.Join(tmpDir, "alice.saveSlot3.json"))
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}

	var rec Record
	err = json.Unmarshal(data, &rec)
	if err != nil {
		t.Fatalf("failed to unmarshal saved data: %v", err)
	}

	testutil.AssertEqual(t, "record version", rec.Version, uint(1))
	testutil.AssertEqual(t, "record key", rec.Key, Key("alice.saveSlot3"))
	testutil.AssertEqual(t, "record value", rec.Value, `{"undoStack":[]}`)

	// A fresh store sees the same value
	reopened, err := NewFileStore(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, _, _ := reopened.Get(ctx, "alice.saveSlot3")
	testutil.AssertEqual(t, "reopened value", val, `{"undoStack":[]}`)
}

func TestFileStore_Set_OverwritesExisting(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	err = store.Set(ctx, "saveSlot1", "initial")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = store.Set(ctx, "saveSlot1", "updated")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	val, _, _ := store.Get(ctx, "saveSlot1")
	testutil.AssertEqual(t, "value", val, "updated")
}

func TestFileStore_Set_InvalidKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	err = store.Set(context.Background(), "../escape", "x")
	testutil.AssertErrorContains(t, err, "must be alphanumeric")
}

func TestFileStore_Delete(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	store, err := NewFileStore(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	err = store.Set(ctx, "saveSlot1", "v")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = store.Delete(ctx, "saveSlot1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, ok, _ := store.Get(ctx, "saveSlot1")
	testutil.AssertEqual(t, "cached", ok, false)

	_, err = os.Stat(filepath.Join(tmpDir, "saveSlot1.json"))
	testutil.AssertEqual(t, "file removed", os.IsNotExist(err), true)

	// Deleting a missing key is not an error
	err = store.Delete(ctx, "saveSlot1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFileStore_Keys(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	store.records = map[string]string{
		"alice.saveSlot2":  "",
		"alice.saveSlot-1": "",
		"bob.saveSlot1":    "",
	}

	tests := map[string]struct {
		prefix string
		exp    []string
	}{
		"prefix": {
			prefix: "alice.",
			exp:    []string{"alice.saveSlot-1", "alice.saveSlot2"},
		},
		"no match": {
			prefix: "carol.",
			exp:    nil,
		},
		"everything": {
			prefix: "",
			exp:    []string{"alice.saveSlot-1", "alice.saveSlot2", "bob.saveSlot1"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			keys, err := store.Keys(ctx, tt.prefix)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "keys", keys, tt.exp)
		})
	}
}

func TestFileStore_filePath(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewFileStore(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	result := store.filePath("saveSlot-1")

	expected := filepath.Join(tmpDir, "saveSlot-1.json")
	testutil.AssertEqual(t, "file path", result, expected)
}
