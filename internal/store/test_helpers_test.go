package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/shelter/internal/model"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustResident inserts a resident and returns its id.
func mustResident(t *testing.T, s *Store, first, last, entry string) int64 {
	t.Helper()
	id, err := s.InsertResident(context.Background(), model.Resident{
		FirstName: first,
		LastName:  last,
		EntryDate: entry,
	})
	require.NoError(t, err)
	return id
}

// mustService inserts a service and returns its id.
func mustService(t *testing.T, s *Store, residentID int64, serviceType, date string) int64 {
	t.Helper()
	id, err := s.InsertService(context.Background(), model.Service{
		ResidentID:  residentID,
		ServiceType: serviceType,
		ServiceDate: date,
	})
	require.NoError(t, err)
	return id
}
