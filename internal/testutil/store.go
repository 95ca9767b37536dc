// Package testutil holds helpers shared by the shelter package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/roach88/shelter/internal/store"
)

// NewStore opens a fresh file-backed store in t.TempDir and closes it when
// the test ends.
func NewStore(t testing.TB) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shelter.db")
	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("store.Open(%q) failed: %v", path, err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}
