package store

import (
	"context"
	"fmt"

	"github.com/roach88/shelter/internal/model"
)

// InsertResident inserts a resident row and returns the assigned id.
// r.ID is ignored. Names and date are stored as given; validation and the
// duplicate check belong to the caller.
func (s *Store) InsertResident(ctx context.Context, r model.Resident) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO residents (first_name, last_name, entry_date)
		VALUES (?, ?, ?)
	`, r.FirstName, r.LastName, r.EntryDate)
	if err != nil {
		return 0, fmt.Errorf("insert resident: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert resident: last insert id: %w", err)
	}
	return id, nil
}

// InsertService inserts a service row and returns the assigned id.
// sv.ID is ignored. The resident reference is not checked here.
func (s *Store) InsertService(ctx context.Context, sv model.Service) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO services (resident_id, service_type, service_date)
		VALUES (?, ?, ?)
	`, sv.ResidentID, sv.ServiceType, sv.ServiceDate)
	if err != nil {
		return 0, fmt.Errorf("insert service: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert service: last insert id: %w", err)
	}
	return id, nil
}
