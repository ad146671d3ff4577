package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is a user's ordered collection of line items. Version increases by one
// on every persisted mutation and is zero for a cart that has never been saved.
type Cart struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Items     []LineItem `json:"items"`
	Version   int64      `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// LineItem snapshots the pet's display data at the time it was first added.
// PetID is the only key used to address a line.
type LineItem struct {
	ID       uuid.UUID       `json:"id"`
	PetID    string          `json:"pet_id"`
	PetName  string          `json:"pet_name"`
	PetPrice decimal.Decimal `json:"pet_price"`
	PetImage string          `json:"pet_image,omitempty"`
	Quantity int             `json:"quantity"`
	AddedAt  time.Time       `json:"added_at"`
}

// Summary is the lightweight view polled by the cart badge.
type Summary struct {
	ItemCount int             `json:"item_count"`
	LineCount int             `json:"line_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func emptyCart(userID uuid.UUID) *Cart {
	return &Cart{UserID: userID, Items: []LineItem{}}
}

func (c *Cart) indexOf(petID string) int {
	for i := range c.Items {
		if c.Items[i].PetID == petID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// ItemCount is the sum of quantities across all lines.
func (c *Cart) ItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal is the sum of price times quantity across all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.PetPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Summary derives the badge view from the cart.
func (c *Cart) Summary() Summary {
	return Summary{
		ItemCount: c.ItemCount(),
		LineCount: len(c.Items),
		Subtotal:  c.Subtotal(),
	}
}

func (c *Cart) clone() *Cart {
	out := *c
	out.Items = make([]LineItem, len(c.Items))
	copy(out.Items, c.Items)
	return &out
}
