package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/channelpulse/backend-go/internal/domain"
	"github.com/channelpulse/backend-go/internal/storage"
)

func TestDashboardRepositoryEmptyBucket(t *testing.T) {
	repo := NewDashboardRepository(storage.NewMemoryStorage())

	doc, err := repo.Load(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, doc.WeeklyData)
	assert.Empty(t, doc.CurrentSnapshot)
	assert.Equal(t, "N/A", doc.ReferenceWeek)
}

func TestDashboardRepositoryRoundTrip(t *testing.T) {
	store := storage.NewMemoryStorage()
	repo := NewDashboardRepository(store)
	ctx := context.Background()

	doc := domain.EmptyDashboardDocument()
	doc.WeeklyData = []domain.WeeklyRecord{{ID: "a", ModelName: "RTX4070", Qty: 3}}
	doc.ReferenceWeek = "2024-W02"
	require.NoError(t, repo.Save(ctx, doc))

	// A second repository over the same store sees the saved document.
	fresh := NewDashboardRepository(store)
	got, err := fresh.Load(ctx, false)
	require.NoError(t, err)
	require.Len(t, got.WeeklyData, 1)
	assert.Equal(t, "RTX4070", got.WeeklyData[0].ModelName)
	assert.Equal(t, "2024-W02", got.ReferenceWeek)
}

func TestDashboardRepositoryCachesReads(t *testing.T) {
	store := storage.NewMemoryStorage()
	repo := NewDashboardRepository(store)
	ctx := context.Background()

	first, err := repo.Load(ctx, false)
	require.NoError(t, err)

	second, err := repo.Load(ctx, false)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestMarketRepositoryRoundTrip(t *testing.T) {
	store := storage.NewMemoryStorage()
	repo := NewMarketRepository(store)
	ctx := context.Background()

	empty, err := repo.Load(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, empty)

	history := []domain.MarketHistory{{
		Date:  "2024-05-13",
		Items: []domain.MarketItem{{Model: "RTX 4070", Price: 850000, Category: "VGA"}},
	}}
	require.NoError(t, repo.Save(ctx, history))

	fresh := NewMarketRepository(store)
	got, err := fresh.Load(ctx, true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-05-13", got[0].Date)
	assert.Equal(t, 850000.0, got[0].Items[0].Price)
}
