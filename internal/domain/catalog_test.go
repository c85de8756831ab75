package domain

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogItem_DiscountPercent(t *testing.T) {
	tests := []struct {
		name  string
		offer *Offer
		want  int
	}{
		{name: "no offer", offer: nil, want: 0},
		{name: "no list price", offer: &Offer{SellPrice: 100}, want: 0},
		{name: "list below sell", offer: &Offer{SellPrice: 100, ListPrice: 80}, want: 0},
		{name: "quarter off", offer: &Offer{SellPrice: 750, ListPrice: 1000}, want: 25},
		{name: "rounds down", offer: &Offer{SellPrice: 200, ListPrice: 300}, want: 33},
		{name: "equal prices", offer: &Offer{SellPrice: 100, ListPrice: 100}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := CatalogItem{Offer: tt.offer}
			assert.Equal(t, tt.want, item.DiscountPercent())
		})
	}
}

func TestCatalogItem_PriceAndKind(t *testing.T) {
	article := CatalogItem{Title: "Coupon roundup"}
	assert.False(t, article.IsProduct())
	assert.Zero(t, article.Price())

	product := CatalogItem{Title: "Phone", Offer: &Offer{SellPrice: 500}}
	assert.True(t, product.IsProduct())
	assert.Equal(t, 500.0, product.Price())
}

func TestCatalogItem_PayloadCarriesDerivedFields(t *testing.T) {
	data, err := json.Marshal(CatalogItem{
		ID:    "a1",
		Title: "Phone",
		Offer: &Offer{SellPrice: 750, ListPrice: 1000},
	})
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, true, payload["is_product"])
	assert.Equal(t, 25.0, payload["discount_percent"])

	data, err = json.Marshal(CatalogItem{ID: "a2", Title: "Coupon roundup"})
	require.NoError(t, err)

	payload = nil
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, false, payload["is_product"])
	assert.NotContains(t, payload, "discount_percent")
}

// Display rule: a discount is shown only when the list price genuinely
// exceeds the sell price, and it never reaches 100%
func TestProperty_DiscountPercentBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("discount stays within [0,100) and only for real markdowns", prop.ForAll(
		func(sell, list float64) bool {
			item := CatalogItem{Offer: &Offer{SellPrice: sell, ListPrice: list}}
			d := item.DiscountPercent()

			if d < 0 || d >= 100 {
				t.Logf("FAIL: discount %d out of range for sell=%f list=%f", d, sell, list)
				return false
			}
			if list < sell && d != 0 {
				t.Logf("FAIL: discount %d shown though list %f < sell %f", d, list, sell)
				return false
			}

			return true
		},
		gen.Float64Range(0.01, 10000),
		gen.Float64Range(0.01, 10000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
