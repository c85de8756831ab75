package service

import (
	"context"
	"testing"

	"dealspot/internal/domain"
	"dealspot/internal/repository"
	"dealspot/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalogService(t *testing.T) CatalogService {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo, err := repository.NewCatalogRepository(context.Background(), storage.NewStore(client))
	require.NoError(t, err)

	return NewCatalogService(repo)
}

func validInput() ItemInput {
	return ItemInput{
		Title:           "Wireless Earbuds",
		Description:     "Short blurb",
		LongDescription: "The full write-up",
		Category:        domain.CategoryAmazon,
		Offer:           &domain.Offer{SellPrice: 199, ListPrice: 299},
	}
}

func TestCatalogService_CreateAssignsIDAndPrepends(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	items, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
}

func TestCatalogService_RapidCreatesKeepIDsUnique(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		item, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
		require.False(t, seen[item.ID], "duplicate id %s on iteration %d", item.ID, i)
		seen[item.ID] = true
	}
}

func TestCatalogService_CreateRejectsMissingContent(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		patch func(*ItemInput)
		field string
	}{
		{"empty title", func(in *ItemInput) { in.Title = "" }, "title"},
		{"blank title", func(in *ItemInput) { in.Title = "   " }, "title"},
		{"empty content", func(in *ItemInput) { in.LongDescription = "" }, "long_description"},
		{"unknown category", func(in *ItemInput) { in.Category = "ebay" }, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.patch(&input)

			_, err := svc.Create(ctx, input)

			ve, ok := AsValidationError(err)
			require.True(t, ok, "expected validation error, got: %v", err)
			require.Len(t, ve.Fields, 1)
			assert.Equal(t, tt.field, ve.Fields[0].Field)

			items, listErr := svc.List(ctx, "")
			require.NoError(t, listErr)
			assert.Empty(t, items, "rejected input must not change the catalog")
		})
	}
}

func TestCatalogService_UpdatePreservesIdentityAndCounters(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.RecordView(ctx, created.ID)
	require.NoError(t, err)

	input := validInput()
	input.Title = "Renamed"
	updated, err := svc.Update(ctx, created.ID, input)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())
	assert.Equal(t, int64(1), updated.ViewCount)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestCatalogService_UpdateAbsentID(t *testing.T) {
	svc := newTestCatalogService(t)

	_, err := svc.Update(context.Background(), "ghost", validInput())
	require.ErrorIs(t, err, repository.ErrItemNotFound)
}

func TestCatalogService_ListFiltersByCategory(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()

	amazon := validInput()
	_, err := svc.Create(ctx, amazon)
	require.NoError(t, err)

	temu := validInput()
	temu.Category = domain.CategoryTemu
	_, err = svc.Create(ctx, temu)
	require.NoError(t, err)

	items, err := svc.List(ctx, domain.CategoryTemu)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.CategoryTemu, items[0].Category)
}

func TestCatalogService_FeaturedReturnsFirstFlagged(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()

	_, err := svc.Featured(ctx)
	require.ErrorIs(t, err, repository.ErrItemNotFound)

	plain := validInput()
	_, err = svc.Create(ctx, plain)
	require.NoError(t, err)

	hero := validInput()
	hero.Featured = true
	created, err := svc.Create(ctx, hero)
	require.NoError(t, err)

	featured, err := svc.Featured(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, featured.ID)
}

func TestCatalogService_DeleteIsIdempotent(t *testing.T) {
	svc := newTestCatalogService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.NoError(t, svc.Delete(ctx, created.ID))
	require.NoError(t, svc.Delete(ctx, "never-existed"))
}
