package repository

import (
	"context"
	"testing"
	"time"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/apperror"
	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pacific, _ = time.LoadLocation("America/Los_Angeles")

func newOrder(name string, total string) models.NewOrder {
	return models.NewOrder{
		CustomerName:  name,
		CustomerPhone: "555-1111",
		Items:         "2x Señorita Bread",
		Total:         decimal.RequireFromString(total),
	}
}

func TestOrderRepository_CreateAssignsIncreasingIDs(t *testing.T) {
	repo := NewOrderRepository(testLogger(), newTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 8, 30, 0, 0, pacific)

	var last uint
	for i := 0; i < 5; i++ {
		order, err := repo.Create(ctx, newOrder("Jane", "15.00"), now)
		require.NoError(t, err)
		assert.Greater(t, order.ID, last)
		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.Equal(t, "2026-10-19", order.CreatedOn)
		last = order.ID
	}

	got, err := repo.Get(ctx, last)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.CustomerName)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(15)))
	assert.True(t, got.CreatedAt.Equal(now))
}

func TestOrderRepository_GetNotFound(t *testing.T) {
	repo := NewOrderRepository(testLogger(), newTestDB(t))

	_, err := repo.Get(context.Background(), 42)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestOrderRepository_List(t *testing.T) {
	repo := NewOrderRepository(testLogger(), newTestDB(t))
	ctx := context.Background()
	now := time.Now().In(pacific)

	for _, name := range []string{"a", "b", "c"} {
		_, err := repo.Create(ctx, newOrder(name, "5"), now)
		require.NoError(t, err)
	}
	confirmed := models.OrderStatusConfirmed
	_, err := repo.UpdateStatus(ctx, 2, models.OrderUpdate{Status: &confirmed}, now)
	require.NoError(t, err)

	all, err := repo.List(ctx, "", 50)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{3, 2, 1}, []uint{all[0].ID, all[1].ID, all[2].ID})

	limited, err := repo.List(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, uint(3), limited[0].ID)

	filtered, err := repo.List(ctx, models.OrderStatusConfirmed, 50)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "b", filtered[0].CustomerName)

	empty, err := repo.List(ctx, models.OrderStatusCancelled, 50)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	repo := NewOrderRepository(testLogger(), newTestDB(t))
	ctx := context.Background()
	created := time.Date(2026, 10, 19, 7, 0, 0, 0, pacific)

	order, err := repo.Create(ctx, newOrder("Jane", "15"), created)
	require.NoError(t, err)

	later := created.Add(time.Hour)
	completed := models.OrderStatusCompleted
	notes := "picked up"
	updated, err := repo.UpdateStatus(ctx, order.ID, models.OrderUpdate{Status: &completed, Notes: &notes}, later)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
	assert.Equal(t, "picked up", updated.Notes)
	assert.True(t, updated.UpdatedAt.Equal(later))
	assert.True(t, updated.CreatedAt.Equal(created))
	assert.True(t, updated.Total.Equal(order.Total))

	onlyNotes := "call first"
	updated, err = repo.UpdateStatus(ctx, order.ID, models.OrderUpdate{Notes: &onlyNotes}, later)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
	assert.Equal(t, "call first", updated.Notes)
}

func TestOrderRepository_UpdateStatusRejects(t *testing.T) {
	repo := NewOrderRepository(testLogger(), newTestDB(t))
	ctx := context.Background()
	now := time.Now().In(pacific)

	order, err := repo.Create(ctx, newOrder("Jane", "15"), now)
	require.NoError(t, err)

	bogus := models.OrderStatus("bogus")
	_, err = repo.UpdateStatus(ctx, order.ID, models.OrderUpdate{Status: &bogus}, now)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = repo.UpdateStatus(ctx, order.ID, models.OrderUpdate{}, now)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	confirmed := models.OrderStatusConfirmed
	_, err = repo.UpdateStatus(ctx, order.ID+100, models.OrderUpdate{Status: &confirmed}, now)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	got, err := repo.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, got.Status)
}

func TestOrderRepository_Delete(t *testing.T) {
	repo := NewOrderRepository(testLogger(), newTestDB(t))
	ctx := context.Background()
	now := time.Now().In(pacific)

	order, err := repo.Create(ctx, newOrder("Jane", "15"), now)
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	orders, err := repo.List(ctx, "", 50)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepository_Aggregate(t *testing.T) {
	repo := NewOrderRepository(testLogger(), newTestDB(t))
	ctx := context.Background()

	yesterday := time.Date(2026, 10, 18, 23, 30, 0, 0, pacific)
	today := time.Date(2026, 10, 19, 0, 15, 0, 0, pacific)

	agg, err := repo.Aggregate(ctx, "2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, int64(0), agg.TotalOrders)
	assert.True(t, agg.Revenue.IsZero())

	_, err = repo.Create(ctx, newOrder("a", "10.25"), yesterday)
	require.NoError(t, err)
	second, err := repo.Create(ctx, newOrder("b", "15.00"), today)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder("c", "4.75"), today)
	require.NoError(t, err)

	cancelled := models.OrderStatusCancelled
	_, err = repo.UpdateStatus(ctx, second.ID, models.OrderUpdate{Status: &cancelled}, today)
	require.NoError(t, err)

	agg, err = repo.Aggregate(ctx, "2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, int64(3), agg.TotalOrders)
	assert.True(t, agg.Revenue.Equal(decimal.RequireFromString("30")), agg.Revenue.String())
	assert.Equal(t, int64(2), agg.Pending)
	assert.Equal(t, int64(0), agg.Confirmed)
	assert.Equal(t, int64(0), agg.Completed)
	assert.Equal(t, int64(1), agg.Cancelled)
	assert.Equal(t, int64(2), agg.TodayOrders)
	assert.True(t, agg.TodayRevenue.Equal(decimal.RequireFromString("19.75")), agg.TodayRevenue.String())
}
