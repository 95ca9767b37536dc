// Package ledger records the services given to residents and lists them.
package ledger

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/shelter/internal/clock"
	"github.com/roach88/shelter/internal/metrics"
	"github.com/roach88/shelter/internal/model"
)

// Store is the persistence the ledger needs. *store.Store satisfies it.
type Store interface {
	InsertService(ctx context.Context, sv model.Service) (int64, error)
	ResidentExists(ctx context.Context, id int64) (bool, error)
	ListServices(ctx context.Context, limit int) ([]model.ServiceEntry, error)
	ListServicesForResident(ctx context.Context, residentID int64) ([]model.Service, error)
	CountServices(ctx context.Context) (int, error)
}

// Ledger is the activity ledger.
type Ledger struct {
	store   Store
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a Ledger over st. clk defaults service dates; nil means the
// system clock. logger and m may be nil.
func New(st Store, clk clock.Clock, logger *slog.Logger, m *metrics.Metrics) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		store:   st,
		clock:   clock.Or(clk),
		logger:  logger,
		metrics: m,
	}
}

// ParseResidentID converts raw form input to a resident id.
func ParseResidentID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, model.NewValidationError("resident_id", "is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError("resident_id", "must be a positive whole number")
	}
	return id, nil
}

// LogService records that residentID received serviceType on serviceDate
// (YYYY-MM-DD, or empty for today).
//
// The resident must exist; an unknown id is a not-found error and nothing
// is written.
func (l *Ledger) LogService(ctx context.Context, residentID int64, serviceType, serviceDate string) (model.Service, error) {
	if residentID <= 0 {
		return model.Service{}, model.NewValidationError("resident_id", "must be a positive whole number")
	}
	serviceType = strings.TrimSpace(serviceType)
	if serviceType == "" {
		return model.Service{}, model.NewValidationError("service_type", "is required")
	}
	date, err := model.DateOrToday("service_date", serviceDate, l.clock.Now())
	if err != nil {
		return model.Service{}, err
	}

	exists, err := l.store.ResidentExists(ctx, residentID)
	if err != nil {
		return model.Service{}, model.WrapStoreError("log service", err)
	}
	if !exists {
		return model.Service{}, model.NewNotFoundError("resident", residentID)
	}

	sv := model.Service{ResidentID: residentID, ServiceType: serviceType, ServiceDate: date}
	id, err := l.store.InsertService(ctx, sv)
	if err != nil {
		return model.Service{}, model.WrapStoreError("log service", err)
	}
	sv.ID = id

	l.metrics.IncServicesLogged()
	l.logger.InfoContext(ctx, "service logged",
		"service_id", sv.ID,
		"resident_id", sv.ResidentID,
		"service_type", sv.ServiceType,
		"service_date", sv.ServiceDate,
	)
	return sv, nil
}

// ListAll returns services with their resident's name, most recent first.
// limit <= 0 lists every service.
func (l *Ledger) ListAll(ctx context.Context, limit int) ([]model.ServiceEntry, error) {
	entries, err := l.store.ListServices(ctx, limit)
	if err != nil {
		return nil, model.WrapStoreError("list services", err)
	}
	return entries, nil
}

// ListForResident returns one resident's services, most recent first.
// An unknown resident is a not-found error.
func (l *Ledger) ListForResident(ctx context.Context, residentID int64) ([]model.Service, error) {
	exists, err := l.store.ResidentExists(ctx, residentID)
	if err != nil {
		return nil, model.WrapStoreError("list resident services", err)
	}
	if !exists {
		return nil, model.NewNotFoundError("resident", residentID)
	}

	services, err := l.store.ListServicesForResident(ctx, residentID)
	if err != nil {
		return nil, model.WrapStoreError("list resident services", err)
	}
	return services, nil
}

// Count returns the all-time number of services.
func (l *Ledger) Count(ctx context.Context) (int, error) {
	n, err := l.store.CountServices(ctx)
	if err != nil {
		return 0, model.WrapStoreError("count services", err)
	}
	return n, nil
}
