package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("FARM_TEST_DSN")
	if dsn == "" {
		t.Skip("FARM_TEST_DSN is required for integration test")
	}
	return dsn
}

func newTestGdataStore(t *testing.T) *GdataStore {
	t.Helper()
	appName := fmt.Sprintf("farm_store_test_%d", time.Now().UnixNano())
	store, err := NewGdataStore(appName)
	if err != nil {
		t.Skipf("cannot open app data directory: %v", err)
	}

	t.Cleanup(func() {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			_ = os.RemoveAll(filepath.Join(homeDir, ".local", "share", appName))
		}
	})
	return store
}

// backends returns every store that can run in this environment.
func backends() map[string]func(t *testing.T) Storer {
	return map[string]func(t *testing.T) Storer{
		"memory": func(t *testing.T) Storer {
			return NewMemoryStore()
		},
		"file": func(t *testing.T) Storer {
			s, err := NewFileStore(t.TempDir())
			require.NoError(t, err)
			return s
		},
		"namespaced": func(t *testing.T) Storer {
			s, err := NewNamespaced(NewMemoryStore(), "alice")
			require.NoError(t, err)
			return s
		},
		"gdata": func(t *testing.T) Storer {
			return newTestGdataStore(t)
		},
		"postgres": func(t *testing.T) Storer {
			db, err := OpenPostgres(requireDSN(t))
			require.NoError(t, err)
			s, err := NewSQLStore(db)
			require.NoError(t, err)

			prefix := fmt.Sprintf("it%d", time.Now().UnixNano())
			ns, err := NewNamespaced(s, prefix)
			require.NoError(t, err)
			t.Cleanup(func() {
				_ = db.Exec("DELETE FROM save_records WHERE key LIKE ?", prefix+".%").Error
			})
			return ns
		},
	}
}

func TestStoreContract(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)

			_, ok, err := store.Get(ctx, "saveSlot1")
			require.NoError(t, err)
			assert.False(t, ok, "missing key should not be found")

			require.NoError(t, store.Set(ctx, "saveSlot1", "one"))
			require.NoError(t, store.Set(ctx, "saveSlot-1", "auto"))
			require.NoError(t, store.Set(ctx, "saveSlot1", "uno"))

			val, ok, err := store.Get(ctx, "saveSlot1")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "uno", val)

			keys, err := store.Keys(ctx, "saveSlot")
			require.NoError(t, err)
			assert.Equal(t, []string{"saveSlot-1", "saveSlot1"}, keys)

			require.NoError(t, store.Delete(ctx, "saveSlot1"))
			_, ok, err = store.Get(ctx, "saveSlot1")
			require.NoError(t, err)
			assert.False(t, ok, "deleted key should not be found")

			require.NoError(t, store.Delete(ctx, "saveSlot1"), "deleting twice")

			keys, err = store.Keys(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"saveSlot-1"}, keys)
		})
	}
}

func TestNamespacedIsolation(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryStore()

	alice, err := NewNamespaced(shared, "alice")
	require.NoError(t, err)
	bob, err := NewNamespaced(shared, "bob")
	require.NoError(t, err)

	require.NoError(t, alice.Set(ctx, "saveSlot1", "a"))
	require.NoError(t, bob.Set(ctx, "saveSlot1", "b"))

	val, _, err := alice.Get(ctx, "saveSlot1")
	require.NoError(t, err)
	assert.Equal(t, "a", val)

	require.NoError(t, bob.Delete(ctx, "saveSlot1"))
	_, ok, err := alice.Get(ctx, "saveSlot1")
	require.NoError(t, err)
	assert.True(t, ok, "deleting bob's slot must not touch alice's")

	raw, err := shared.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice.saveSlot1"}, raw)
}

func TestNewNamespacedRejectsBadNames(t *testing.T) {
	tests := map[string]string{
		"empty":     "",
		"separator": "a.b",
		"slash":     "a/b",
	}

	for name, ns := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewNamespaced(NewMemoryStore(), ns)
			assert.Error(t, err)
		})
	}
}

func TestLikePrefix(t *testing.T) {
	assert.Equal(t, "alice.%", likePrefix("alice."))
	assert.Equal(t, `a\_b\%%`, likePrefix("a_b%"))
}
