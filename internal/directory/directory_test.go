package directory

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shelter/internal/metrics"
	"github.com/roach88/shelter/internal/model"
	"github.com/roach88/shelter/internal/store"
	shelterutil "github.com/roach88/shelter/internal/testutil"
)

func newTestDirectory(t *testing.T) (*Directory, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := New(shelterutil.NewStore(t), shelterutil.ClockOn("2025-12-03"), logger, m)
	return d, m
}

func TestAdd_AssignsIDAndDefaultsEntryDate(t *testing.T) {
	d, m := newTestDirectory(t)
	ctx := context.Background()

	r, err := d.Add(ctx, "Maria", "Garcia", "")
	require.NoError(t, err)

	assert.Equal(t, int64(1), r.ID)
	assert.Equal(t, "Maria", r.FirstName)
	assert.Equal(t, "Garcia", r.LastName)
	assert.Equal(t, "2025-12-03", r.EntryDate)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResidentsAdded))
}

func TestAdd_LegacyRowWithNullName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelter.db")
	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = raw.Exec(`
		CREATE TABLE residents (id INTEGER PRIMARY KEY, first_name TEXT, last_name TEXT, entry_date TEXT);
		CREATE TABLE services (id INTEGER PRIMARY KEY, resident_id INTEGER, service_type TEXT, service_date TEXT);
		INSERT INTO residents (first_name, last_name, entry_date) VALUES (NULL, 'Smith', '2024-01-01');
	`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	st, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := New(st, shelterutil.ClockOn("2025-12-03"), logger, nil)
	ctx := context.Background()

	r, err := d.Add(ctx, "Maria", "Garcia", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), r.ID)

	_, err = d.Add(ctx, "MARIA", "garcia", "")
	assert.True(t, model.IsDuplicate(err))

	found, err := d.Search(ctx, "maria")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, r.ID, found[0].ID)
}

func TestAdd_ExplicitEntryDateRoundTrips(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	_, err := d.Add(ctx, "Maria", "Garcia", "2024-03-15")
	require.NoError(t, err)

	all, err := d.ListAll(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2024-03-15", all[0].EntryDate)
}

func TestAdd_TrimsNames(t *testing.T) {
	d, _ := newTestDirectory(t)

	r, err := d.Add(context.Background(), "  Maria ", "\tGarcia\n", "")
	require.NoError(t, err)
	assert.Equal(t, "Maria", r.FirstName)
	assert.Equal(t, "Garcia", r.LastName)
}

func TestAdd_RejectsDuplicates(t *testing.T) {
	d, m := newTestDirectory(t)
	ctx := context.Background()

	_, err := d.Add(ctx, "Maria", "Garcia", "")
	require.NoError(t, err)

	for _, name := range [][2]string{
		{"Maria", "Garcia"},
		{"maria", "garcia"},
		{"MARIA", "GARCIA"},
		{"  maria", "Garcia  "},
	} {
		_, err := d.Add(ctx, name[0], name[1], "")
		require.Error(t, err, "%q %q", name[0], name[1])
		assert.True(t, model.IsDuplicate(err))
	}

	n, err := d.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "a duplicate must never increase the resident count")
	assert.Equal(t, 4.0, testutil.ToFloat64(m.DuplicatesRejected))
}

func TestAdd_Validation(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		first, last string
		date        string
		field       string
	}{
		{"empty first", "", "Garcia", "", "first_name"},
		{"blank first", "   ", "Garcia", "", "first_name"},
		{"empty last", "Maria", "", "", "last_name"},
		{"blank last", "Maria", " \t", "", "last_name"},
		{"bad date", "Maria", "Garcia", "15/03/2024", "entry_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Add(ctx, tt.first, tt.last, tt.date)
			require.Error(t, err)

			var e *model.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, model.ErrCodeValidation, e.Code)
			assert.Equal(t, tt.field, e.Field)
		})
	}

	n, err := d.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIsDuplicate(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	dup, err := d.IsDuplicate(ctx, "John", "Doe")
	require.NoError(t, err)
	assert.False(t, dup, "empty store has no duplicates")

	_, err = d.Add(ctx, "Maria", "Garcia", "2024-03-15")
	require.NoError(t, err)

	for _, tt := range []struct {
		first, last string
		want        bool
	}{
		{"Maria", "Garcia", true},
		{"maria", "garcia", true},
		{" MARIA ", " GARCIA ", true},
		{"John", "Doe", false},
		{"Maria", "Lopez", false},
		{"Garcia", "Maria", false},
		{"", "", false},
	} {
		dup, err := d.IsDuplicate(ctx, tt.first, tt.last)
		require.NoError(t, err)
		assert.Equal(t, tt.want, dup, "%q %q", tt.first, tt.last)
	}
}

func TestIsDuplicate_UnicodeCase(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	_, err := d.Add(ctx, "Inés", "Peña", "")
	require.NoError(t, err)

	dup, err := d.IsDuplicate(ctx, "INÉS", "PEÑA")
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestListAll_Orders(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	_, err := d.Add(ctx, "Maria", "Garcia", "2024-03-15")
	require.NoError(t, err)
	_, err = d.Add(ctx, "Ana", "Lopez", "2024-06-01")
	require.NoError(t, err)
	_, err = d.Add(ctx, "Rosa", "Diaz", "2024-01-10")
	require.NoError(t, err)

	byID, err := d.ListAll(ctx, ListOptions{Order: OrderByID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Maria", "Ana", "Rosa"}, firstNames(byID))

	recent, err := d.ListAll(ctx, ListOptions{Order: OrderByEntryDateDesc})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Maria", "Rosa"}, firstNames(recent))

	top, err := d.ListAll(ctx, ListOptions{Order: OrderByEntryDateDesc, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana"}, firstNames(top))
}

func TestSearch(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	for _, n := range [][2]string{{"Maria", "Garcia"}, {"Ana", "Marquez"}, {"Rosa", "Diaz"}} {
		_, err := d.Add(ctx, n[0], n[1], "")
		require.NoError(t, err)
	}

	lower, err := d.Search(ctx, "maria")
	require.NoError(t, err)
	upper, err := d.Search(ctx, "MARIA")
	require.NoError(t, err)
	assert.Equal(t, lower, upper)
	assert.Equal(t, []string{"Maria"}, firstNames(lower))

	byLast, err := d.Search(ctx, "mar")
	require.NoError(t, err)
	assert.Equal(t, []string{"Maria", "Ana"}, firstNames(byLast), "ordered by last name")

	full, err := d.Search(ctx, "  rosa diaz ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rosa"}, firstNames(full))

	none, err := d.Search(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearch_RejectsEmptyTerm(t *testing.T) {
	d, _ := newTestDirectory(t)

	_, err := d.Search(context.Background(), "   ")
	assert.True(t, model.IsValidation(err))
}

func TestGet(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	added, err := d.Add(ctx, "Maria", "Garcia", "2024-03-15")
	require.NoError(t, err)

	got, err := d.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)

	_, err = d.Get(ctx, 404)
	assert.True(t, model.IsNotFound(err))
}

func TestParseOrder(t *testing.T) {
	for in, want := range map[string]Order{"": OrderByID, "id": OrderByID, "ENTRY": OrderByEntryDateDesc, "recent": OrderByEntryDateDesc} {
		got, err := ParseOrder(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOrder("name")
	assert.True(t, model.IsValidation(err))
}

// failingStore fails every call.
type failingStore struct{ err error }

func (f failingStore) InsertResident(context.Context, model.Resident) (int64, error) {
	return 0, f.err
}
func (f failingStore) GetResident(context.Context, int64) (model.Resident, error) {
	return model.Resident{}, f.err
}
func (f failingStore) FindResidentByName(context.Context, string, string) (model.Resident, bool, error) {
	return model.Resident{}, false, f.err
}
func (f failingStore) ListResidents(context.Context, store.ResidentOrder, int) ([]model.Resident, error) {
	return nil, f.err
}
func (f failingStore) SearchResidents(context.Context, string) ([]model.Resident, error) {
	return nil, f.err
}
func (f failingStore) CountResidents(context.Context) (int, error) {
	return 0, f.err
}

func TestStoreFailuresAreStoreErrors(t *testing.T) {
	cause := errors.New("disk I/O error")
	d := New(failingStore{err: cause}, nil, nil, nil)
	ctx := context.Background()

	_, err := d.Add(ctx, "Maria", "Garcia", "")
	assert.True(t, model.IsStore(err))
	assert.ErrorIs(t, err, cause)

	_, err = d.IsDuplicate(ctx, "Maria", "Garcia")
	assert.True(t, model.IsStore(err))

	_, err = d.ListAll(ctx, ListOptions{})
	assert.True(t, model.IsStore(err))

	_, err = d.Search(ctx, "maria")
	assert.True(t, model.IsStore(err))

	_, err = d.Get(ctx, 1)
	assert.True(t, model.IsStore(err))

	_, err = d.Count(ctx)
	assert.True(t, model.IsStore(err))
}

func firstNames(residents []model.Resident) []string {
	names := make([]string, len(residents))
	for i, r := range residents {
		names[i] = r.FirstName
	}
	return names
}
