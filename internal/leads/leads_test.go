package leads

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/mouldquote/internal/db"
	"github.com/Simplici0/mouldquote/internal/estimate"
	"github.com/Simplici0/mouldquote/internal/migrations"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "leads-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	_, err = migrations.Up(ctx, database)
	require.NoError(t, err)

	return NewStore(database)
}

func priced(minutes float64) (estimate.InspectionCostInput, estimate.CostBreakdown) {
	input := estimate.InspectionCostInput{
		Areas: []estimate.InspectionArea{{AreaName: "Bathroom", JobTime: minutes}},
	}
	return input, estimate.Calculate(input)
}

func TestCreateAndGetKeepsSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	input, breakdown := priced(120)
	created, err := store.Create(ctx, NewEstimate{
		Contact:   Contact{CustomerName: "J. Citizen", Phone: "0400 000 000", Suburb: "Carlton", Notes: "Ceiling stain"},
		Input:     input,
		Breakdown: breakdown,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Len(t, created.Reference, 36)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.Reference, got.Reference)
	assert.Equal(t, "J. Citizen", got.Contact.CustomerName)
	assert.Equal(t, "Carlton", got.Contact.Suburb)
	assert.Equal(t, breakdown.WorkType, got.Breakdown.WorkType)
	assert.InDelta(t, 673.20, got.Breakdown.TotalCost, 1e-9)
	assert.Equal(t, input.Areas, got.Input.Areas)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt), "created %v, got %v", created.CreatedAt, got.CreatedAt)
}

func TestGetReadsStoredBreakdownWithoutRecalculation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	input, breakdown := priced(120)
	breakdown.TotalCost = 999.99

	created, err := store.Create(ctx, NewEstimate{Contact: Contact{CustomerName: "Snapshot"}, Input: input, Breakdown: breakdown})
	require.NoError(t, err)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.InDelta(t, 999.99, got.Breakdown.TotalCost, 1e-9)
}

func TestCreateRequiresCustomerName(t *testing.T) {
	store := newTestStore(t)
	input, breakdown := priced(60)

	_, err := store.Create(context.Background(), NewEstimate{Input: input, Breakdown: breakdown})
	require.Error(t, err)
}

func TestListOrdersNewestFirstAndFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, c := range []Contact{
		{CustomerName: "Primera", Suburb: "Fitzroy"},
		{CustomerName: "Tercera", Notes: "subfloor smell in fitzroy terrace"},
		{CustomerName: "Segunda", Suburb: "Richmond"},
	} {
		at := base.Add(time.Duration([]int{0, 48, 24}[i]) * time.Hour)
		store.now = func() time.Time { return at }

		input, breakdown := priced(float64(60 * (i + 1)))
		_, err := store.Create(ctx, NewEstimate{Contact: c, Input: input, Breakdown: breakdown})
		require.NoError(t, err)
	}

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Tercera", all[0].CustomerName)
	assert.Equal(t, "Segunda", all[1].CustomerName)
	assert.Equal(t, "Primera", all[2].CustomerName)
	assert.Equal(t, estimate.WorkTypeSurface, all[0].WorkType)

	bySuburb, err := store.List(ctx, "Richmond")
	require.NoError(t, err)
	require.Len(t, bySuburb, 1)
	assert.Equal(t, "Segunda", bySuburb[0].CustomerName)

	byNotes, err := store.List(ctx, "fitzroy")
	require.NoError(t, err)
	assert.Len(t, byNotes, 2)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	input, breakdown := priced(60)
	created, err := store.Create(ctx, NewEstimate{Contact: Contact{CustomerName: "Gone"}, Input: input, Breakdown: breakdown})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, created.ID))

	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, created.ID), ErrNotFound)
}
