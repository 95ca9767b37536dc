// Package seed loads resident and service fixtures from YAML and applies
// them through the directory and the ledger.
//
// A fixture looks like:
//
//	residents:
//	  - first_name: Maria
//	    last_name: Garcia
//	    entry_date: "2025-11-20"
//	    services:
//	      - type: Counseling
//	        date: "2025-11-21"
//
// Residents that already exist are skipped together with their services, so
// applying the same fixture twice adds nothing the second time.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/shelter/internal/model"
)

// Fixture is the root of a seed file.
type Fixture struct {
	Residents []ResidentFixture `yaml:"residents"`
}

// ResidentFixture is one resident and the services logged for them.
type ResidentFixture struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`

	// EntryDate is optional; empty means the day the fixture is applied.
	EntryDate string `yaml:"entry_date,omitempty"`

	Services []ServiceFixture `yaml:"services,omitempty"`
}

// ServiceFixture is one service event.
type ServiceFixture struct {
	Type string `yaml:"type"`
	Date string `yaml:"date,omitempty"`
}

// Directory is the resident side of the seed target.
type Directory interface {
	Add(ctx context.Context, firstName, lastName, entryDate string) (model.Resident, error)
}

// Ledger is the service side of the seed target.
type Ledger interface {
	LogService(ctx context.Context, residentID int64, serviceType, serviceDate string) (model.Service, error)
}

// Summary counts what Apply did.
type Summary struct {
	ResidentsAdded    int `json:"residents_added"`
	DuplicatesSkipped int `json:"duplicates_skipped"`
	ServicesLogged    int `json:"services_logged"`
}

// Load reads and parses a fixture file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields, or is missing required fields.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a fixture from r.
func Parse(r io.Reader) (*Fixture, error) {
	var fx Fixture
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&fx); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("invalid seed file: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validate(&fx); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return &fx, nil
}

// validate checks the fields the directory and ledger would reject anyway,
// so a bad fixture fails before anything is written.
func validate(fx *Fixture) error {
	if len(fx.Residents) == 0 {
		return fmt.Errorf("residents list is required and must be non-empty")
	}

	for i, r := range fx.Residents {
		if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
			return fmt.Errorf("residents[%d]: first_name and last_name are required", i)
		}
		if r.EntryDate != "" {
			if _, err := model.ParseDate("entry_date", r.EntryDate); err != nil {
				return fmt.Errorf("residents[%d]: %w", i, err)
			}
		}
		for j, s := range r.Services {
			if strings.TrimSpace(s.Type) == "" {
				return fmt.Errorf("residents[%d].services[%d]: type is required", i, j)
			}
			if s.Date != "" {
				if _, err := model.ParseDate("date", s.Date); err != nil {
					return fmt.Errorf("residents[%d].services[%d]: %w", i, j, err)
				}
			}
		}
	}
	return nil
}

// Apply adds every resident in fx and logs their services. Duplicates are
// counted and skipped. Any other failure stops Apply; the returned Summary
// covers what was written before it.
func Apply(ctx context.Context, dir Directory, led Ledger, fx *Fixture, logger *slog.Logger) (Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var sum Summary
	for _, rf := range fx.Residents {
		resident, err := dir.Add(ctx, rf.FirstName, rf.LastName, rf.EntryDate)
		if model.IsDuplicate(err) {
			sum.DuplicatesSkipped++
			logger.DebugContext(ctx, "seed resident skipped",
				"first_name", rf.FirstName,
				"last_name", rf.LastName,
			)
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("add %s %s: %w", rf.FirstName, rf.LastName, err)
		}
		sum.ResidentsAdded++

		for _, sf := range rf.Services {
			if _, err := led.LogService(ctx, resident.ID, sf.Type, sf.Date); err != nil {
				return sum, fmt.Errorf("log %s for %s: %w", sf.Type, resident.FullName(), err)
			}
			sum.ServicesLogged++
		}
	}

	logger.InfoContext(ctx, "seed applied",
		"residents_added", sum.ResidentsAdded,
		"duplicates_skipped", sum.DuplicatesSkipped,
		"services_logged", sum.ServicesLogged,
	)
	return sum, nil
}
