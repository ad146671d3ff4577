package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart is the single per-user cart document. Line items are stored inline so
// a cart is read and written as one row, guarded by Version.
type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:carts_user_id_key"`
	Items     []CartLine `gorm:"column:items;serializer:json;not null"`
	Version   int64      `gorm:"column:version;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Cart) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Items == nil {
		c.Items = []CartLine{}
	}
	return nil
}

// CartLine is a denormalized snapshot of a pet at the time it was added.
type CartLine struct {
	ID       uuid.UUID       `json:"id"`
	PetID    string          `json:"pet_id"`
	PetName  string          `json:"pet_name"`
	PetPrice decimal.Decimal `json:"pet_price"`
	PetImage string          `json:"pet_image,omitempty"`
	Quantity int             `json:"quantity"`
	AddedAt  time.Time       `json:"added_at"`
}
