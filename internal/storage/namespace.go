package storage

import (
	"context"
	"fmt"
	"strings"
)

const namespaceSeparator = "."

// Namespaced scopes every key of an underlying store to one owner, so many
// farmers can share a backend without seeing each other's slots.
type Namespaced struct {
	store Storer
	ns    string
}

func NewNamespaced(store Storer, ns string) (*Namespaced, error) {
	if err := Key(ns).Validate(); err != nil {
		return nil, fmt.Errorf("namespace: %w", err)
	}
	if strings.Contains(ns, namespaceSeparator) {
		return nil, fmt.Errorf("namespace %q must not contain %q", ns, namespaceSeparator)
	}
	return &Namespaced{store: store, ns: ns}, nil
}

func (n *Namespaced) key(k string) string {
	return n.ns + namespaceSeparator + k
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.store.Get(ctx, n.key(key))
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.store.Set(ctx, n.key(key), value)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.store.Delete(ctx, n.key(key))
}

// Keys returns matching keys with the namespace stripped.
func (n *Namespaced) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := n.store.Keys(ctx, n.key(prefix))
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, n.key(""))
	}
	return keys, nil
}
