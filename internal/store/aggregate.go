package store

import (
	"context"
	"fmt"

	"github.com/roach88/shelter/internal/model"
)

// Aggregate queries backing the reports. month is YYYY-MM and matches the
// first seven characters of a stored date. since is a YYYY-MM-DD floor,
// compared as a string and inclusive.

// CountResidentsInMonth counts residents whose entry_date falls in month.
func (s *Store) CountResidentsInMonth(ctx context.Context, month string) (int, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM residents WHERE substr(entry_date, 1, 7) = ?`, month)
	if err != nil {
		return 0, fmt.Errorf("count residents in month: %w", err)
	}
	return n, nil
}

// CountResidentsSince counts residents with entry_date >= since.
func (s *Store) CountResidentsSince(ctx context.Context, since string) (int, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM residents WHERE entry_date >= ?`, since)
	if err != nil {
		return 0, fmt.Errorf("count recent residents: %w", err)
	}
	return n, nil
}

// CountServicesInMonth counts services whose service_date falls in month.
func (s *Store) CountServicesInMonth(ctx context.Context, month string) (int, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM services WHERE substr(service_date, 1, 7) = ?`, month)
	if err != nil {
		return 0, fmt.Errorf("count services in month: %w", err)
	}
	return n, nil
}

// CountServicesSince counts services with service_date >= since.
func (s *Store) CountServicesSince(ctx context.Context, since string) (int, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM services WHERE service_date >= ?`, since)
	if err != nil {
		return 0, fmt.Errorf("count recent services: %w", err)
	}
	return n, nil
}

// CountServiceTypes counts distinct service types.
func (s *Store) CountServiceTypes(ctx context.Context) (int, error) {
	n, err := s.count(ctx, `SELECT COUNT(DISTINCT service_type) FROM services`)
	if err != nil {
		return 0, fmt.Errorf("count service types: %w", err)
	}
	return n, nil
}

// CountActiveMonths counts distinct months holding at least one service.
func (s *Store) CountActiveMonths(ctx context.Context) (int, error) {
	n, err := s.count(ctx, `SELECT COUNT(DISTINCT substr(service_date, 1, 7)) FROM services`)
	if err != nil {
		return 0, fmt.Errorf("count active months: %w", err)
	}
	return n, nil
}

// ServiceTypeCounts returns per-type service counts for month, largest
// first. Ties are ordered by type name.
func (s *Store) ServiceTypeCounts(ctx context.Context, month string) ([]model.TypeCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT service_type, COUNT(*) AS count
		FROM services
		WHERE substr(service_date, 1, 7) = ?
		GROUP BY service_type
		ORDER BY count DESC, service_type ASC
	`, month)
	if err != nil {
		return nil, fmt.Errorf("query service type counts: %w", err)
	}
	defer rows.Close()

	counts := []model.TypeCount{}
	for rows.Next() {
		var tc model.TypeCount
		if err := rows.Scan(&tc.ServiceType, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan service type count: %w", err)
		}
		counts = append(counts, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service type counts: %w", err)
	}
	return counts, nil
}

// TopResidents returns the limit residents with the most services in month.
//
// Residents are LEFT JOINed, so residents without services in month take
// part with a count of zero and can occupy slots in the window. Ties are
// ordered by id.
func (s *Store) TopResidents(ctx context.Context, month string, limit int) ([]model.ResidentActivity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, COALESCE(r.first_name, ''), COALESCE(r.last_name, ''), COUNT(s.id) AS service_count
		FROM residents r
		LEFT JOIN services s
		       ON s.resident_id = r.id AND substr(s.service_date, 1, 7) = ?
		GROUP BY r.id
		ORDER BY service_count DESC, r.id ASC
		LIMIT ?
	`, month, limit)
	if err != nil {
		return nil, fmt.Errorf("query top residents: %w", err)
	}
	defer rows.Close()

	top := []model.ResidentActivity{}
	for rows.Next() {
		var a model.ResidentActivity
		if err := rows.Scan(&a.ResidentID, &a.FirstName, &a.LastName, &a.Services); err != nil {
			return nil, fmt.Errorf("scan top resident: %w", err)
		}
		top = append(top, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top residents: %w", err)
	}
	return top, nil
}

// ServiceTypeStats returns all-time sessions and distinct residents per
// service type, most sessions first. Ties are ordered by type name.
func (s *Store) ServiceTypeStats(ctx context.Context) ([]model.TypeStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT service_type, COUNT(*) AS count, COUNT(DISTINCT resident_id) AS unique_residents
		FROM services
		GROUP BY service_type
		ORDER BY count DESC, service_type ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query service type stats: %w", err)
	}
	defer rows.Close()

	stats := []model.TypeStats{}
	for rows.Next() {
		var ts model.TypeStats
		if err := rows.Scan(&ts.ServiceType, &ts.Sessions, &ts.Residents); err != nil {
			return nil, fmt.Errorf("scan service type stats: %w", err)
		}
		stats = append(stats, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service type stats: %w", err)
	}
	return stats, nil
}
