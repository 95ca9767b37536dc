package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shelter/internal/metrics"
	"github.com/roach88/shelter/internal/model"
	"github.com/roach88/shelter/internal/store"
	shelterutil "github.com/roach88/shelter/internal/testutil"
)

type fixture struct {
	store   *store.Store
	ledger  *Ledger
	metrics *metrics.Metrics
	clock   *shelterutil.FixedClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	st := shelterutil.NewStore(t)
	clk := shelterutil.ClockOn("2025-12-03")
	m := metrics.New()
	return fixture{store: st, ledger: New(st, clk, nil, m), metrics: m, clock: clk}
}

func (f fixture) resident(t *testing.T, first, last string) int64 {
	t.Helper()
	id, err := f.store.InsertResident(context.Background(), model.Resident{
		FirstName: first, LastName: last, EntryDate: "2025-11-01",
	})
	require.NoError(t, err)
	return id
}

func TestLogService_DefaultsDate(t *testing.T) {
	f := newFixture(t)
	maria := f.resident(t, "Maria", "Garcia")

	sv, err := f.ledger.LogService(context.Background(), maria, " Counseling ", "")
	require.NoError(t, err)

	assert.Equal(t, int64(1), sv.ID)
	assert.Equal(t, maria, sv.ResidentID)
	assert.Equal(t, "Counseling", sv.ServiceType)
	assert.Equal(t, "2025-12-03", sv.ServiceDate)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ServicesLogged))
}

func TestLogService_ExplicitDate(t *testing.T) {
	f := newFixture(t)
	maria := f.resident(t, "Maria", "Garcia")

	sv, err := f.ledger.LogService(context.Background(), maria, "Housing", "2025-10-31")
	require.NoError(t, err)
	assert.Equal(t, "2025-10-31", sv.ServiceDate)
}

func TestLogService_Validation(t *testing.T) {
	f := newFixture(t)
	maria := f.resident(t, "Maria", "Garcia")
	ctx := context.Background()

	tests := []struct {
		name       string
		residentID int64
		kind       string
		date       string
		field      string
	}{
		{"zero resident", 0, "Counseling", "", "resident_id"},
		{"negative resident", -3, "Counseling", "", "resident_id"},
		{"empty type", maria, "", "", "service_type"},
		{"blank type", maria, "   ", "", "service_type"},
		{"bad date", maria, "Counseling", "2025-13-01", "service_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.LogService(ctx, tt.residentID, tt.kind, tt.date)
			var e *model.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, model.ErrCodeValidation, e.Code)
			assert.Equal(t, tt.field, e.Field)
		})
	}

	n, err := f.ledger.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLogService_UnknownResident(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.LogService(context.Background(), 42, "Counseling", "")
	assert.True(t, model.IsNotFound(err))

	n, err := f.ledger.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "nothing is written for an unknown resident")
}

func TestListAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	maria := f.resident(t, "Maria", "Garcia")
	ana := f.resident(t, "Ana", "Lopez")

	_, err := f.ledger.LogService(ctx, maria, "Counseling", "2025-12-01")
	require.NoError(t, err)
	_, err = f.ledger.LogService(ctx, ana, "Legal Aid", "2025-12-02")
	require.NoError(t, err)
	_, err = f.ledger.LogService(ctx, maria, "Housing", "2025-11-15")
	require.NoError(t, err)

	all, err := f.ledger.ListAll(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Legal Aid", all[0].ServiceType)
	assert.Equal(t, "Ana Lopez", all[0].ResidentName())
	assert.Equal(t, "Counseling", all[1].ServiceType)
	assert.Equal(t, "Housing", all[2].ServiceType)

	recent, err := f.ledger.ListAll(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestListForResident(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	maria := f.resident(t, "Maria", "Garcia")
	ana := f.resident(t, "Ana", "Lopez")

	_, err := f.ledger.LogService(ctx, maria, "Counseling", "2025-12-01")
	require.NoError(t, err)
	_, err = f.ledger.LogService(ctx, ana, "Legal Aid", "2025-12-02")
	require.NoError(t, err)

	services, err := f.ledger.ListForResident(ctx, maria)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "Counseling", services[0].ServiceType)

	none, err := f.ledger.ListForResident(ctx, f.resident(t, "Rosa", "Diaz"))
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.ledger.ListForResident(ctx, 99)
	assert.True(t, model.IsNotFound(err))
}

func TestParseResidentID(t *testing.T) {
	id, err := ParseResidentID(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, bad := range []string{"", "  ", "abc", "1.5", "0", "-4"} {
		_, err := ParseResidentID(bad)
		assert.True(t, model.IsValidation(err), "%q", bad)
	}
}

type brokenStore struct{ err error }

func (b brokenStore) InsertService(context.Context, model.Service) (int64, error) { return 0, b.err }
func (b brokenStore) ResidentExists(context.Context, int64) (bool, error)        { return true, nil }
func (b brokenStore) ListServices(context.Context, int) ([]model.ServiceEntry, error) {
	return nil, b.err
}
func (b brokenStore) ListServicesForResident(context.Context, int64) ([]model.Service, error) {
	return nil, b.err
}
func (b brokenStore) CountServices(context.Context) (int, error) { return 0, b.err }

func TestStoreFailuresAreStoreErrors(t *testing.T) {
	cause := errors.New("database is locked")
	l := New(brokenStore{err: cause}, nil, nil, nil)
	ctx := context.Background()

	_, err := l.LogService(ctx, 1, "Counseling", "")
	assert.True(t, model.IsStore(err))
	assert.ErrorIs(t, err, cause)

	_, err = l.ListAll(ctx, 0)
	assert.True(t, model.IsStore(err))

	_, err = l.ListForResident(ctx, 1)
	assert.True(t, model.IsStore(err))

	_, err = l.Count(ctx)
	assert.True(t, model.IsStore(err))
}
