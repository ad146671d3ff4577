package cart

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/petparadise/petparadise-api/pkg/db"
	"github.com/petparadise/petparadise-api/pkg/db/models"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())))
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func sampleCart(userID uuid.UUID) *Cart {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &Cart{
		UserID:    userID,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
		Items: []LineItem{
			{ID: uuid.New(), PetID: "pet-1", PetName: "Rex", PetPrice: decimal.RequireFromString("120.50"), Quantity: 1, AddedAt: now},
		},
	}
}

func TestGormRepository_CreateAndGet(t *testing.T) {
	repo := NewRepository(newSQLiteDB(t))
	ctx := context.Background()
	userID := uuid.New()

	_, err := repo.Get(ctx, userID)
	assert.ErrorIs(t, err, ErrCartNotFound)

	cart := sampleCart(userID)
	require.NoError(t, repo.Create(ctx, cart))
	assert.NotEqual(t, uuid.Nil, cart.ID)

	got, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "pet-1", got.Items[0].PetID)
	assert.True(t, got.Items[0].PetPrice.Equal(decimal.RequireFromString("120.50")))
}

func TestGormRepository_SecondCreateConflicts(t *testing.T) {
	repo := NewRepository(newSQLiteDB(t))
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Create(ctx, sampleCart(userID)))
	err := repo.Create(ctx, sampleCart(userID))
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestGormRepository_SaveChecksVersion(t *testing.T) {
	repo := NewRepository(newSQLiteDB(t))
	ctx := context.Background()
	userID := uuid.New()

	cart := sampleCart(userID)
	require.NoError(t, repo.Create(ctx, cart))

	cart.Items[0].Quantity = 3
	cart.Version = 2
	require.NoError(t, repo.Save(ctx, cart, 1))

	stale := sampleCart(userID)
	stale.Version = 2
	assert.ErrorIs(t, repo.Save(ctx, stale, 1), ErrVersionConflict)

	got, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, 3, got.Items[0].Quantity)
}

func TestGormRepository_SaveEmptyItems(t *testing.T) {
	repo := NewRepository(newSQLiteDB(t))
	ctx := context.Background()
	userID := uuid.New()

	cart := sampleCart(userID)
	require.NoError(t, repo.Create(ctx, cart))

	cart.Items = []LineItem{}
	cart.Version = 2
	require.NoError(t, repo.Save(ctx, cart, 1))

	got, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestLedgerAgainstGormRepository(t *testing.T) {
	svc := newTestService(t, NewRepository(newSQLiteDB(t)), nil)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.AddItem(ctx, userID, addInput("pet-1", intPtr(2)))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID, addInput("pet-1", intPtr(1)))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID, addInput("pet-2", nil))
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity(ctx, userID, "pet-2", 0)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, int64(4), cart.Version)

	require.NoError(t, svc.Clear(ctx, userID))
	cart, err = svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
