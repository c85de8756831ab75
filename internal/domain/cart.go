package domain

import "time"

// CartLine is one entry in a shopping cart. It references the catalog
// item by id only; prices are resolved through the catalog at read time
// so edits to an item are never shadowed by a stale copy.
type CartLine struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Cart holds the selected items for one visitor session
type Cart struct {
	SessionID string     `json:"session_id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Line returns the cart line referencing itemID, or nil
func (c *Cart) Line(itemID string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			return &c.Lines[i]
		}
	}
	return nil
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// OrderLine is a cart line resolved against the catalog at checkout
// time. Unavailable marks lines whose item was deleted from the catalog
// after being added to the cart; they contribute 0 to the total.
type OrderLine struct {
	ItemID      string  `json:"item_id"`
	Title       string  `json:"title"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
	Unavailable bool    `json:"unavailable,omitempty"`
}

// OrderRequest is the payload produced by a successful checkout. It is
// handed to the outbound redirect composer and then discarded, never
// persisted.
type OrderRequest struct {
	CustomerName string      `json:"customer_name"`
	City         string      `json:"city"`
	Phone        string      `json:"phone"`
	Lines        []OrderLine `json:"lines"`
	Total        float64     `json:"total"`
	SubmittedAt  time.Time   `json:"submitted_at"`
}
