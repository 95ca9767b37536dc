// Package directory owns resident identity: adding residents under the
// duplicate rule, and listing and searching them.
//
// # Duplicate rule
//
// No two residents may share a first and last name under case-insensitive
// comparison. Add is the only insert path and always checks IsDuplicate
// first. The check and the insert are separate statements, so two Add calls
// racing on the same name can both pass the check. The application has a
// single operator and a single writer connection; the race is accepted, not
// guarded against.
package directory

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/roach88/shelter/internal/clock"
	"github.com/roach88/shelter/internal/metrics"
	"github.com/roach88/shelter/internal/model"
	"github.com/roach88/shelter/internal/store"
)

// Store is the persistence the directory needs. *store.Store satisfies it.
type Store interface {
	InsertResident(ctx context.Context, r model.Resident) (int64, error)
	GetResident(ctx context.Context, id int64) (model.Resident, error)
	FindResidentByName(ctx context.Context, firstKey, lastKey string) (model.Resident, bool, error)
	ListResidents(ctx context.Context, order store.ResidentOrder, limit int) ([]model.Resident, error)
	SearchResidents(ctx context.Context, term string) ([]model.Resident, error)
	CountResidents(ctx context.Context) (int, error)
}

// Order selects how ListAll sorts residents.
type Order = store.ResidentOrder

const (
	OrderByID            = store.OrderByID
	OrderByEntryDateDesc = store.OrderByEntryDateDesc
)

// ParseOrder maps "id" (or "") and "entry" to an Order.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "id":
		return OrderByID, nil
	case "entry", "entry_date", "recent":
		return OrderByEntryDateDesc, nil
	default:
		return OrderByID, model.NewValidationError("order", `must be "id" or "entry"`)
	}
}

// ListOptions controls ListAll. A zero Limit lists every resident.
type ListOptions struct {
	Order Order
	Limit int
}

// Directory is the resident directory.
type Directory struct {
	store   Store
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a Directory over st. clk defaults entry dates; nil means the
// system clock. logger and m may be nil.
func New(st Store, clk clock.Clock, logger *slog.Logger, m *metrics.Metrics) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{
		store:   st,
		clock:   clock.Or(clk),
		logger:  logger,
		metrics: m,
	}
}

// Add records a new resident. Names are trimmed; entryDate is YYYY-MM-DD or
// empty for today.
//
// Returns a validation error for an empty name or malformed date and a
// duplicate error if the name is already on record. Nothing is written in
// either case.
func (d *Directory) Add(ctx context.Context, firstName, lastName, entryDate string) (model.Resident, error) {
	first, last, err := cleanNames(firstName, lastName)
	if err != nil {
		return model.Resident{}, err
	}

	date, err := model.DateOrToday("entry_date", entryDate, d.clock.Now())
	if err != nil {
		return model.Resident{}, err
	}

	dup, err := d.IsDuplicate(ctx, first, last)
	if err != nil {
		return model.Resident{}, err
	}
	if dup {
		d.metrics.IncDuplicatesRejected()
		d.logger.InfoContext(ctx, "duplicate resident rejected",
			"first_name", first,
			"last_name", last,
		)
		return model.Resident{}, model.NewDuplicateError(first, last)
	}

	r := model.Resident{FirstName: first, LastName: last, EntryDate: date}
	id, err := d.store.InsertResident(ctx, r)
	if err != nil {
		return model.Resident{}, model.WrapStoreError("add resident", err)
	}
	r.ID = id

	d.metrics.IncResidentsAdded()
	d.logger.InfoContext(ctx, "resident added",
		"resident_id", r.ID,
		"entry_date", r.EntryDate,
	)
	return r, nil
}

// IsDuplicate reports whether a stored resident matches first and last
// case-insensitively. Surrounding whitespace in the input is ignored.
// Empty names never match.
func (d *Directory) IsDuplicate(ctx context.Context, firstName, lastName string) (bool, error) {
	firstKey, lastKey := model.FoldName(firstName), model.FoldName(lastName)
	if firstKey == "" || lastKey == "" {
		return false, nil
	}

	_, found, err := d.store.FindResidentByName(ctx, firstKey, lastKey)
	if err != nil {
		return false, model.WrapStoreError("check duplicate resident", err)
	}
	return found, nil
}

// ListAll returns residents in the requested order.
func (d *Directory) ListAll(ctx context.Context, opts ListOptions) ([]model.Resident, error) {
	residents, err := d.store.ListResidents(ctx, opts.Order, opts.Limit)
	if err != nil {
		return nil, model.WrapStoreError("list residents", err)
	}
	return residents, nil
}

// Search returns residents whose first name, last name or "first last"
// contains term, case-insensitively, ordered by last name. An empty or
// whitespace-only term is a validation error.
func (d *Directory) Search(ctx context.Context, term string) ([]model.Resident, error) {
	key := model.FoldName(term)
	if key == "" {
		return nil, model.NewValidationError("term", "is required")
	}

	residents, err := d.store.SearchResidents(ctx, key)
	if err != nil {
		return nil, model.WrapStoreError("search residents", err)
	}
	return residents, nil
}

// Get returns the resident with id, or a not-found error.
func (d *Directory) Get(ctx context.Context, id int64) (model.Resident, error) {
	r, err := d.store.GetResident(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Resident{}, model.NewNotFoundError("resident", id)
	}
	if err != nil {
		return model.Resident{}, model.WrapStoreError("get resident", err)
	}
	return r, nil
}

// Count returns the all-time number of residents.
func (d *Directory) Count(ctx context.Context) (int, error) {
	n, err := d.store.CountResidents(ctx)
	if err != nil {
		return 0, model.WrapStoreError("count residents", err)
	}
	return n, nil
}

func cleanNames(firstName, lastName string) (string, string, error) {
	first := model.CleanName(firstName)
	if first == "" {
		return "", "", model.NewValidationError("first_name", "is required")
	}
	last := model.CleanName(lastName)
	if last == "" {
		return "", "", model.NewValidationError("last_name", "is required")
	}
	return first, last, nil
}
