package storage

import (
	"context"
	"testing"
	"time"

	"dealspot/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStore(client), mr
}

func TestStore_LoadAbsentKey(t *testing.T) {
	store, _ := newTestStore(t)

	var out []domain.CatalogItem
	found, err := store.Load(context.Background(), KeyCatalog, &out)

	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, out)
}

func TestStore_RoundTripCatalog(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	items := []domain.CatalogItem{
		{
			ID:              "a1",
			Title:           "Wireless Earbuds",
			Description:     "Short blurb",
			LongDescription: "Long form content",
			Category:        domain.CategoryAmazon,
			CreatedAt:       time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
			ViewCount:       7,
			Featured:        true,
			AffiliateURL:    "https://example.com/earbuds",
			CouponCode:      "SAVE10",
			Offer:           &domain.Offer{SellPrice: 500, ListPrice: 750},
		},
		{
			ID:              "a2",
			Title:           "Coupon roundup",
			LongDescription: "Article body",
			Category:        domain.CategoryCoupons,
			CreatedAt:       time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC),
		},
	}

	require.NoError(t, store.Save(ctx, KeyCatalog, items))

	var restored []domain.CatalogItem
	found, err := store.Load(ctx, KeyCatalog, &restored)

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, items, restored)
}

func TestStore_RoundTripCart(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	cart := domain.Cart{
		SessionID: "sess-1",
		Lines: []domain.CartLine{
			{ItemID: "a1", Quantity: 2},
			{ItemID: "a2", Quantity: 1},
		},
		UpdatedAt: time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC),
	}

	require.NoError(t, store.Save(ctx, CartKey(cart.SessionID), cart))

	var restored domain.Cart
	found, err := store.Load(ctx, CartKey("sess-1"), &restored)

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, cart, restored)
}

func TestStore_CorruptValueFailsClosed(t *testing.T) {
	store, mr := newTestStore(t)

	mr.Set(KeySettings, "{not json")

	var out domain.SiteSettings
	_, err := store.Load(context.Background(), KeySettings, &out)

	require.ErrorIs(t, err, ErrCorruptState)
}

func TestStore_UnavailableBackendSurfaced(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	err := store.Save(context.Background(), KeySettings, domain.SiteSettings{SiteName: "x"})
	require.ErrorIs(t, err, ErrStoreUnavailable)

	var out domain.SiteSettings
	_, err = store.Load(context.Background(), KeySettings, &out)
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestStore_DeleteIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Delete(ctx, CartKey("nope")))

	require.NoError(t, store.Save(ctx, CartKey("sess"), domain.Cart{SessionID: "sess"}))
	require.NoError(t, store.Delete(ctx, CartKey("sess")))
	require.NoError(t, store.Delete(ctx, CartKey("sess")))
}

// Serialization round-trip law: saving then loading yields a value
// deep-equal to the pre-save value
func TestProperty_SettingsRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("site settings survive a save/load cycle unchanged", prop.ForAll(
		func(siteName string, whatsapp string, visits int64, earnings float64) bool {
			settings := domain.SiteSettings{
				SiteName:          siteName,
				Contact:           domain.ContactLinks{WhatsApp: whatsapp},
				AdCodes:           domain.AdCodes{Header: "<script></script>"},
				AdminPasswordHash: "$2a$10$placeholderplaceholderplace",
				VisitCount:        visits,
				EarningsTotal:     earnings,
			}

			if err := store.Save(ctx, KeySettings, settings); err != nil {
				t.Logf("FAIL: save: %v", err)
				return false
			}

			var restored domain.SiteSettings
			found, err := store.Load(ctx, KeySettings, &restored)
			if err != nil || !found {
				t.Logf("FAIL: load: found=%v err=%v", found, err)
				return false
			}

			if restored != settings {
				t.Logf("FAIL: round trip mismatch: %+v != %+v", restored, settings)
				return false
			}

			return true
		},
		gen.AlphaString(),
		gen.NumString(),
		gen.Int64Range(0, 1_000_000),
		gen.Float64Range(0, 1_000_000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
