package pets

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petparadise/petparadise-api/pkg/db"
	"github.com/petparadise/petparadise-api/pkg/db/models"
)

var ErrPetNotFound = errors.New("pet not found")

// Repository persists catalog listings.
type Repository interface {
	List(ctx context.Context, q ListQuery) ([]models.Pet, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Pet, error)
	Create(ctx context.Context, pet *models.Pet) error
	Update(ctx context.Context, pet *models.Pet) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

// GormRepository reads and writes the pets table.
type GormRepository struct {
	db *gorm.DB
}

func NewRepository(conn *gorm.DB) *GormRepository {
	return &GormRepository{db: conn}
}

const searchClause = `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(breed) LIKE ? ESCAPE '\' OR LOWER(animal) LIKE ? ESCAPE '\' OR LOWER(city) LIKE ? ESCAPE '\' OR LOWER(state) LIKE ? ESCAPE '\')`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func filters(q ListQuery) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(q.Search); s != "" {
			pattern := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
			tx = tx.Where(searchClause, pattern, pattern, pattern, pattern, pattern)
		}
		if q.Animal != nil {
			tx = tx.Where("animal = ?", *q.Animal)
		}
		if q.Available != nil {
			tx = tx.Where("is_available = ?", *q.Available)
		}
		return tx
	}
}

func (r *GormRepository) List(ctx context.Context, q ListQuery) ([]models.Pet, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Pet{}).Scopes(filters(q)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Pet
	if err := r.db.WithContext(ctx).
		Scopes(filters(q)).
		Order("created_at DESC").
		Order("id DESC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *GormRepository) Get(ctx context.Context, id uuid.UUID) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.WithContext(ctx).First(&pet, "id = ?", id).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, ErrPetNotFound
		}
		return nil, err
	}
	return &pet, nil
}

func (r *GormRepository) Create(ctx context.Context, pet *models.Pet) error {
	return r.db.WithContext(ctx).Create(pet).Error
}

func (r *GormRepository) Update(ctx context.Context, pet *models.Pet) error {
	res := r.db.WithContext(ctx).Model(pet).Select("*").Omit("id", "created_at", "views").Updates(pet)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPetNotFound
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Pet{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPetNotFound
	}
	return nil
}

// IncrementViews bumps the counter in place so concurrent viewers do not
// overwrite each other.
func (r *GormRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Pet{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPetNotFound
	}
	return nil
}
