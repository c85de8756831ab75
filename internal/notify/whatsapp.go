package notify

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"dealspot/internal/domain"
)

var ErrNoAffiliateURL = errors.New("item has no affiliate url")

// Composer builds the outbound redirect URLs for checkout and offer
// reveal. Delivery is fire-and-forget: the client follows the URL and
// no confirmation comes back.
type Composer struct {
	whatsAppNumber string
}

// NewComposer creates a Composer targeting the given WhatsApp number
// (international format, digits only)
func NewComposer(whatsAppNumber string) *Composer {
	return &Composer{whatsAppNumber: strings.TrimPrefix(whatsAppNumber, "+")}
}

// OrderMessage renders the pre-filled order text for an order request
func (c *Composer) OrderMessage(order *domain.OrderRequest) string {
	var b strings.Builder

	b.WriteString("New order\n")
	fmt.Fprintf(&b, "Name: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "City: %s\n", order.City)
	fmt.Fprintf(&b, "Phone: %s\n\n", order.Phone)

	for _, line := range order.Lines {
		title := line.Title
		if line.Unavailable {
			title = "(item unavailable)"
		}
		fmt.Fprintf(&b, "%dx %s — %.2f\n", line.Quantity, title, line.Subtotal)
	}

	fmt.Fprintf(&b, "\nTotal: %.2f", order.Total)
	return b.String()
}

// OrderRedirectURL builds the wa.me deep link carrying the order message
func (c *Composer) OrderRedirectURL(order *domain.OrderRequest) string {
	u := url.URL{
		Scheme: "https",
		Host:   "wa.me",
		Path:   "/" + c.whatsAppNumber,
	}

	q := url.Values{}
	q.Set("text", c.OrderMessage(order))
	u.RawQuery = q.Encode()

	return u.String()
}

// OfferRedirect is the payload of a "reveal offer" action: where to
// send the visitor and the coupon to show them on the way out
type OfferRedirect struct {
	URL        string `json:"url"`
	CouponCode string `json:"coupon_code,omitempty"`
}

// RevealOffer returns the item's outbound affiliate redirect
func RevealOffer(item *domain.CatalogItem) (*OfferRedirect, error) {
	if item.AffiliateURL == "" {
		return nil, ErrNoAffiliateURL
	}

	return &OfferRedirect{
		URL:        item.AffiliateURL,
		CouponCode: item.CouponCode,
	}, nil
}
