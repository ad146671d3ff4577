package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petparadise/petparadise-api/pkg/db"
	"github.com/petparadise/petparadise-api/pkg/db/models"
)

// GormRepository stores carts as single rows with inline JSON items.
type GormRepository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(conn *gorm.DB) *GormRepository {
	return &GormRepository{db: conn}
}

func (r *GormRepository) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	var row models.Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).Error
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return fromModel(row), nil
}

func (r *GormRepository) Create(ctx context.Context, cart *Cart) error {
	row := toModel(cart)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return ErrVersionConflict
		}
		return err
	}
	cart.ID = row.ID
	cart.CreatedAt = row.CreatedAt
	return nil
}

func (r *GormRepository) Save(ctx context.Context, cart *Cart, expectedVersion int64) error {
	items, err := json.Marshal(toModelLines(cart.Items))
	if err != nil {
		return fmt.Errorf("encoding cart items: %w", err)
	}

	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("user_id = ? AND version = ?", cart.UserID, expectedVersion).
		Updates(map[string]any{
			"items":      string(items),
			"version":    cart.Version,
			"updated_at": cart.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func toModel(c *Cart) models.Cart {
	return models.Cart{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     toModelLines(c.Items),
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toModelLines(items []LineItem) []models.CartLine {
	out := make([]models.CartLine, 0, len(items))
	for _, item := range items {
		out = append(out, models.CartLine{
			ID:       item.ID,
			PetID:    item.PetID,
			PetName:  item.PetName,
			PetPrice: item.PetPrice,
			PetImage: item.PetImage,
			Quantity: item.Quantity,
			AddedAt:  item.AddedAt,
		})
	}
	return out
}

func fromModel(row models.Cart) *Cart {
	items := make([]LineItem, 0, len(row.Items))
	for _, line := range row.Items {
		items = append(items, LineItem{
			ID:       line.ID,
			PetID:    line.PetID,
			PetName:  line.PetName,
			PetPrice: line.PetPrice,
			PetImage: line.PetImage,
			Quantity: line.Quantity,
			AddedAt:  line.AddedAt,
		})
	}
	return &Cart{
		ID:        row.ID,
		UserID:    row.UserID,
		Items:     items,
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
