package notify

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"dealspot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() *domain.OrderRequest {
	return &domain.OrderRequest{
		CustomerName: "Sam",
		City:         "Casablanca",
		Phone:        "0612345678",
		Lines: []domain.OrderLine{
			{ItemID: "1", Title: "Phone", Quantity: 2, UnitPrice: 500, Subtotal: 1000},
			{ItemID: "2", Title: "Charger", Quantity: 1, UnitPrice: 250, Subtotal: 250},
		},
		Total:       1250,
		SubmittedAt: time.Now(),
	}
}

func TestOrderMessageCarriesCustomerAndLines(t *testing.T) {
	c := NewComposer("15551234567")
	msg := c.OrderMessage(sampleOrder())

	assert.Contains(t, msg, "Name: Sam")
	assert.Contains(t, msg, "City: Casablanca")
	assert.Contains(t, msg, "Phone: 0612345678")
	assert.Contains(t, msg, "2x Phone — 1000.00")
	assert.Contains(t, msg, "1x Charger — 250.00")
	assert.Contains(t, msg, "Total: 1250.00")
}

func TestOrderMessageMarksUnavailableLines(t *testing.T) {
	c := NewComposer("15551234567")

	order := sampleOrder()
	order.Lines = append(order.Lines, domain.OrderLine{ItemID: "3", Quantity: 1, Unavailable: true})

	msg := c.OrderMessage(order)
	assert.Contains(t, msg, "(item unavailable)")
}

func TestOrderRedirectURL(t *testing.T) {
	c := NewComposer("+15551234567")
	raw := c.OrderRedirectURL(sampleOrder())

	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/15551234567", u.Path, "leading + must be stripped")

	text := u.Query().Get("text")
	assert.True(t, strings.Contains(text, "Sam"))
	assert.True(t, strings.Contains(text, "Total: 1250.00"))
}

func TestRevealOffer(t *testing.T) {
	item := &domain.CatalogItem{
		ID:           "1",
		Title:        "Earbuds",
		AffiliateURL: "https://example.com/earbuds?ref=abc",
		CouponCode:   "SAVE10",
	}

	redirect, err := RevealOffer(item)
	require.NoError(t, err)
	assert.Equal(t, item.AffiliateURL, redirect.URL)
	assert.Equal(t, "SAVE10", redirect.CouponCode)
}

func TestRevealOfferWithoutAffiliateURL(t *testing.T) {
	_, err := RevealOffer(&domain.CatalogItem{ID: "1", Title: "Plain article"})
	require.ErrorIs(t, err, ErrNoAffiliateURL)
}
