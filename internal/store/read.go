package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/shelter/internal/model"
)

// ResidentOrder selects the ordering of ListResidents.
type ResidentOrder int

const (
	// OrderByID lists residents by ascending id.
	OrderByID ResidentOrder = iota

	// OrderByEntryDateDesc lists the most recent entries first, ties by
	// descending id.
	OrderByEntryDateDesc
)

func (o ResidentOrder) clause() string {
	if o == OrderByEntryDateDesc {
		return "ORDER BY entry_date DESC, id DESC"
	}
	return "ORDER BY id ASC"
}

// String returns the flag spelling of the order.
func (o ResidentOrder) String() string {
	if o == OrderByEntryDateDesc {
		return "entry"
	}
	return "id"
}

// residentColumns selects a resident row. Names and entry date are NULL-able
// in databases created before the NOT NULL constraints.
const residentColumns = `id, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(entry_date, '')`

// GetResident retrieves a single resident by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) GetResident(ctx context.Context, id int64) (model.Resident, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT ` + residentColumns + `
		FROM residents
		WHERE id = ?
	`, id)

	var r model.Resident
	if err := row.Scan(&r.ID, &r.FirstName, &r.LastName, &r.EntryDate); err != nil {
		return model.Resident{}, err
	}
	return r, nil
}

// ResidentExists reports whether a resident with id is stored.
func (s *Store) ResidentExists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM residents WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("resident exists: %w", err)
	}
	return true, nil
}

// FindResidentByName returns the first resident (lowest id) whose folded
// first and last names equal the given folded keys. Callers pass
// model.FoldName output.
func (s *Store) FindResidentByName(ctx context.Context, firstKey, lastKey string) (model.Resident, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT ` + residentColumns + `
		FROM residents
		WHERE name_fold(first_name) = ? AND name_fold(last_name) = ?
		ORDER BY id ASC
		LIMIT 1
	`, firstKey, lastKey)

	var r model.Resident
	err := row.Scan(&r.ID, &r.FirstName, &r.LastName, &r.EntryDate)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Resident{}, false, nil
	}
	if err != nil {
		return model.Resident{}, false, fmt.Errorf("find resident by name: %w", err)
	}
	return r, true, nil
}

// ListResidents returns residents in the requested order. limit <= 0 returns
// every row.
//
// Returns empty slice (not nil) if no residents exist.
func (s *Store) ListResidents(ctx context.Context, order ResidentOrder, limit int) ([]model.Resident, error) {
	query := `SELECT ` + residentColumns + ` FROM residents ` + order.clause()
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query residents: %w", err)
	}
	defer rows.Close()

	return scanResidents(rows)
}

// SearchResidents returns residents whose folded first name, last name or
// "first last" contains term, ordered by last name. term must already be
// folded with model.FoldName.
func (s *Store) SearchResidents(ctx context.Context, term string) ([]model.Resident, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ` + residentColumns + `
		FROM residents
		WHERE instr(name_fold(first_name), ?1) > 0
		   OR instr(name_fold(last_name), ?1) > 0
		   OR instr(name_fold(first_name || ' ' || last_name), ?1) > 0
		ORDER BY last_name COLLATE NOCASE ASC, id ASC
	`, term)
	if err != nil {
		return nil, fmt.Errorf("search residents: %w", err)
	}
	defer rows.Close()

	return scanResidents(rows)
}

// CountResidents returns the all-time number of residents.
func (s *Store) CountResidents(ctx context.Context) (int, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM residents`)
	if err != nil {
		return 0, fmt.Errorf("count residents: %w", err)
	}
	return n, nil
}

// ListServices returns services joined with their resident's name, most
// recent first (ties by descending id). Services whose resident row is
// missing are omitted. limit <= 0 returns every row.
func (s *Store) ListServices(ctx context.Context, limit int) ([]model.ServiceEntry, error) {
	query := `
		SELECT s.id, s.resident_id, s.service_type, s.service_date, COALESCE(r.first_name, ''), COALESCE(r.last_name, '')
		FROM services s
		JOIN residents r ON s.resident_id = r.id
		ORDER BY s.service_date DESC, s.id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	defer rows.Close()

	entries := []model.ServiceEntry{}
	for rows.Next() {
		var e model.ServiceEntry
		if err := rows.Scan(&e.ID, &e.ResidentID, &e.ServiceType, &e.ServiceDate, &e.FirstName, &e.LastName); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}
	return entries, nil
}

// ListServicesForResident returns one resident's services, most recent first.
func (s *Store) ListServicesForResident(ctx context.Context, residentID int64) ([]model.Service, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, resident_id, service_type, service_date
		FROM services
		WHERE resident_id = ?
		ORDER BY service_date DESC, id DESC
	`, residentID)
	if err != nil {
		return nil, fmt.Errorf("query resident services: %w", err)
	}
	defer rows.Close()

	services := []model.Service{}
	for rows.Next() {
		var sv model.Service
		if err := rows.Scan(&sv.ID, &sv.ResidentID, &sv.ServiceType, &sv.ServiceDate); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resident services: %w", err)
	}
	return services, nil
}

// CountServices returns the all-time number of services.
func (s *Store) CountServices(ctx context.Context) (int, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM services`)
	if err != nil {
		return 0, fmt.Errorf("count services: %w", err)
	}
	return n, nil
}

func scanResidents(rows *sql.Rows) ([]model.Resident, error) {
	residents := []model.Resident{}
	for rows.Next() {
		var r model.Resident
		if err := rows.Scan(&r.ID, &r.FirstName, &r.LastName, &r.EntryDate); err != nil {
			return nil, fmt.Errorf("scan resident: %w", err)
		}
		residents = append(residents, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate residents: %w", err)
	}
	return residents, nil
}
