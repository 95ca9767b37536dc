// Package report computes the monthly and system-wide statistics over the
// current store contents and renders them for the console, CSV, XLSX and
// plain-text report files.
//
// Aggregation never writes and never caches: each call reads the store
// snapshot it runs against.
package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/shelter/internal/clock"
	"github.com/roach88/shelter/internal/metrics"
	"github.com/roach88/shelter/internal/model"
)

const (
	// TopResidentsWindow is the number of residents ranked for the monthly
	// top list before zero-count entries are dropped.
	TopResidentsWindow = 5

	// RecentWindowDays is the look-back of the system report's recent
	// activity section. The floor day itself is included.
	RecentWindowDays = 30
)

// Store is the read-side persistence the aggregator needs.
// *store.Store satisfies it.
type Store interface {
	CountResidents(ctx context.Context) (int, error)
	CountServices(ctx context.Context) (int, error)
	CountResidentsInMonth(ctx context.Context, month string) (int, error)
	CountResidentsSince(ctx context.Context, since string) (int, error)
	CountServicesInMonth(ctx context.Context, month string) (int, error)
	CountServicesSince(ctx context.Context, since string) (int, error)
	CountServiceTypes(ctx context.Context) (int, error)
	CountActiveMonths(ctx context.Context) (int, error)
	ServiceTypeCounts(ctx context.Context, month string) ([]model.TypeCount, error)
	TopResidents(ctx context.Context, month string, limit int) ([]model.ResidentActivity, error)
	ServiceTypeStats(ctx context.Context) ([]model.TypeStats, error)
}

// MonthlyReport is the activity summary of one calendar month.
type MonthlyReport struct {
	Month          string            `json:"month"`
	NewResidents   int               `json:"new_residents"`
	TotalResidents int               `json:"total_residents"`
	Services       []model.TypeCount `json:"services"`
	TotalServices  int               `json:"total_services"`

	// TopResidents is the top-5 window by in-month service count with
	// zero-count entries removed, so it can hold fewer than five residents
	// even when more residents were active.
	TopResidents []model.ResidentActivity `json:"top_residents"`
}

// SystemReport is the all-time summary of the shelter's records.
type SystemReport struct {
	GeneratedAt time.Time `json:"generated_at"`

	TotalResidents int `json:"total_residents"`
	TotalServices  int `json:"total_services"`
	ServiceTypes   int `json:"service_types"`
	ActiveMonths   int `json:"active_months"`

	RecentSince     string `json:"recent_since"`
	RecentResidents int    `json:"recent_residents"`
	RecentServices  int    `json:"recent_services"`

	Breakdown []model.TypeStats `json:"breakdown"`

	CurrentMonth   string `json:"current_month"`
	MonthResidents int    `json:"month_residents"`
	MonthServices  int    `json:"month_services"`
}

// Aggregator computes reports.
type Aggregator struct {
	store   Store
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates an Aggregator over st. clk anchors "current month" and the
// recent-activity window; nil means the system clock. logger and m may be nil.
func New(st Store, clk clock.Clock, logger *slog.Logger, m *metrics.Metrics) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		store:   st,
		clock:   clock.Or(clk),
		logger:  logger,
		metrics: m,
	}
}

// Monthly computes the report for yearMonth (YYYY-MM). An empty yearMonth
// means the current month.
func (a *Aggregator) Monthly(ctx context.Context, yearMonth string) (MonthlyReport, error) {
	month := model.FormatMonth(a.clock.Now())
	if yearMonth != "" {
		var err error
		if month, err = model.ParseMonth(yearMonth); err != nil {
			return MonthlyReport{}, err
		}
	}

	r := MonthlyReport{Month: month}
	var err error

	if r.NewResidents, err = a.store.CountResidentsInMonth(ctx, month); err != nil {
		return MonthlyReport{}, model.WrapStoreError("monthly report", err)
	}
	if r.TotalResidents, err = a.store.CountResidents(ctx); err != nil {
		return MonthlyReport{}, model.WrapStoreError("monthly report", err)
	}
	if r.Services, err = a.store.ServiceTypeCounts(ctx, month); err != nil {
		return MonthlyReport{}, model.WrapStoreError("monthly report", err)
	}
	for _, tc := range r.Services {
		r.TotalServices += tc.Count
	}

	window, err := a.store.TopResidents(ctx, month, TopResidentsWindow)
	if err != nil {
		return MonthlyReport{}, model.WrapStoreError("monthly report", err)
	}
	r.TopResidents = activeOnly(window)

	a.metrics.IncReportsGenerated("monthly")
	a.logger.InfoContext(ctx, "monthly report computed",
		"month", r.Month,
		"new_residents", r.NewResidents,
		"total_services", r.TotalServices,
	)
	return r, nil
}

// System computes the all-time report as of now.
func (a *Aggregator) System(ctx context.Context) (SystemReport, error) {
	now := a.clock.Now()
	r := SystemReport{
		GeneratedAt:  now,
		RecentSince:  model.FormatDate(now.AddDate(0, 0, -RecentWindowDays)),
		CurrentMonth: model.FormatMonth(now),
	}

	counts := []struct {
		dst  *int
		read func(context.Context) (int, error)
	}{
		{&r.TotalResidents, a.store.CountResidents},
		{&r.TotalServices, a.store.CountServices},
		{&r.ServiceTypes, a.store.CountServiceTypes},
		{&r.ActiveMonths, a.store.CountActiveMonths},
		{&r.RecentResidents, func(ctx context.Context) (int, error) {
			return a.store.CountResidentsSince(ctx, r.RecentSince)
		}},
		{&r.RecentServices, func(ctx context.Context) (int, error) {
			return a.store.CountServicesSince(ctx, r.RecentSince)
		}},
		{&r.MonthResidents, func(ctx context.Context) (int, error) {
			return a.store.CountResidentsInMonth(ctx, r.CurrentMonth)
		}},
		{&r.MonthServices, func(ctx context.Context) (int, error) {
			return a.store.CountServicesInMonth(ctx, r.CurrentMonth)
		}},
	}
	for _, c := range counts {
		n, err := c.read(ctx)
		if err != nil {
			return SystemReport{}, model.WrapStoreError("system report", err)
		}
		*c.dst = n
	}

	breakdown, err := a.store.ServiceTypeStats(ctx)
	if err != nil {
		return SystemReport{}, model.WrapStoreError("system report", err)
	}
	r.Breakdown = breakdown

	a.metrics.IncReportsGenerated("system")
	a.logger.InfoContext(ctx, "system report computed",
		"total_residents", r.TotalResidents,
		"total_services", r.TotalServices,
	)
	return r, nil
}

// activeOnly drops residents without services from a ranked window.
func activeOnly(window []model.ResidentActivity) []model.ResidentActivity {
	active := []model.ResidentActivity{}
	for _, a := range window {
		if a.Services > 0 {
			active = append(active, a)
		}
	}
	return active
}
