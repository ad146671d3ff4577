package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartsvc "github.com/petparadise/petparadise-api/internal/cart"
)

// CartResponse is the full cart view with derived totals.
type CartResponse struct {
	UserID    uuid.UUID          `json:"user_id"`
	Items     []cartsvc.LineItem `json:"items"`
	ItemCount int                `json:"item_count"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	Version   int64              `json:"version"`
	UpdatedAt *time.Time         `json:"updated_at,omitempty"`
}

type QuantityResponse struct {
	PetID    string `json:"pet_id"`
	Quantity int    `json:"quantity"`
}

type ClearResponse struct {
	Cleared bool `json:"cleared"`
}

func newCartResponse(c *cartsvc.Cart) CartResponse {
	items := c.Items
	if items == nil {
		items = []cartsvc.LineItem{}
	}
	resp := CartResponse{
		UserID:    c.UserID,
		Items:     items,
		ItemCount: c.ItemCount(),
		Subtotal:  c.Subtotal(),
		Version:   c.Version,
	}
	if !c.UpdatedAt.IsZero() {
		updated := c.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
