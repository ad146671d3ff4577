package pets

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

	"github.com/petparadise/petparadise-api/pkg/db"
	"github.com/petparadise/petparadise-api/pkg/db/models"
	"github.com/petparadise/petparadise-api/pkg/enums"
	pkgerrors "github.com/petparadise/petparadise-api/pkg/errors"
	"github.com/petparadise/petparadise-api/pkg/mongo/mongotest"
	"github.com/petparadise/petparadise-api/pkg/pagination"
)

func newGormRepo(t *testing.T) Repository {
	t.Helper()
	conn, err := db.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())))
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Pet{}))
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewRepository(conn)
}

func repoBackends() map[string]func(t *testing.T) Repository {
	return map[string]func(t *testing.T) Repository{
		"gorm":  newGormRepo,
		"mongo": func(t *testing.T) Repository { return NewMongoRepository(mongotest.Connect(t)) },
	}
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seedPet(t *testing.T, repo Repository, name string, animal enums.Animal, available bool, age time.Duration) *models.Pet {
	t.Helper()
	pet := &models.Pet{
		Name:        name,
		Animal:      animal,
		Breed:       "Mixed",
		City:        "Austin",
		State:       "TX",
		Description: "Friendly",
		Images:      []string{"https://img.example.com/" + name + ".jpg"},
		Price:       decimal.RequireFromString("100.00"),
		Age:         enums.PetAgeAdult,
		Gender:      enums.PetGenderMale,
		Size:        enums.PetSizeMedium,
		EnergyLevel: enums.EnergyLevelModerate,
		IsAvailable: available,
		CreatedAt:   base.Add(-age),
		UpdatedAt:   base.Add(-age),
	}
	require.NoError(t, repo.Create(context.Background(), pet))
	return pet
}

func validCreateInput() CreatePetInput {
	price := decimal.RequireFromString("249.999")
	return CreatePetInput{
		Name:        " Biscuit ",
		Animal:      "Dog",
		Breed:       "Beagle",
		City:        "Denver",
		State:       "co",
		Description: "Loves walks",
		Images:      []string{"https://img.example.com/biscuit.jpg"},
		Price:       &price,
		Contact:     ContactInput{Organization: "Happy Tails"},
	}
}

func TestServiceListFiltersAndPaging(t *testing.T) {
	for name, build := range repoBackends() {
		t.Run(name, func(t *testing.T) {
			repo := build(t)
			svc, err := NewService(repo)
			require.NoError(t, err)
			ctx := context.Background()

			seedPet(t, repo, "Rex", enums.AnimalDog, true, 3*time.Hour)
			seedPet(t, repo, "Whiskers", enums.AnimalCat, true, 2*time.Hour)
			seedPet(t, repo, "Tweety", enums.AnimalBird, false, time.Hour)

			all, err := svc.List(ctx, ListInput{})
			require.NoError(t, err)
			assert.Equal(t, int64(3), all.Total)
			assert.Equal(t, 1, all.TotalPages)
			assert.Equal(t, 1, all.CurrentPage)
			require.Len(t, all.Pets, 3)
			assert.Equal(t, "Tweety", all.Pets[0].Name, "newest first")
			assert.Equal(t, enums.PetStatusAdopted, all.Pets[0].Status)

			dogs, err := svc.List(ctx, ListInput{Animal: "DOG"})
			require.NoError(t, err)
			require.Len(t, dogs.Pets, 1)
			assert.Equal(t, "Rex", dogs.Pets[0].Name)

			available, err := svc.List(ctx, ListInput{Status: "available"})
			require.NoError(t, err)
			assert.Equal(t, int64(2), available.Total)

			adopted, err := svc.List(ctx, ListInput{Status: "adopted", Animal: "all"})
			require.NoError(t, err)
			assert.Equal(t, int64(1), adopted.Total)

			search, err := svc.List(ctx, ListInput{Search: "whisk"})
			require.NoError(t, err)
			require.Len(t, search.Pets, 1)
			assert.Equal(t, "Whiskers", search.Pets[0].Name)

			byState, err := svc.List(ctx, ListInput{Search: "tx"})
			require.NoError(t, err)
			assert.Equal(t, int64(3), byState.Total)

			page2, err := svc.List(ctx, ListInput{Pagination: pagination.Params{Page: 2, Limit: 2}})
			require.NoError(t, err)
			assert.Equal(t, int64(3), page2.Total)
			assert.Equal(t, 2, page2.TotalPages)
			assert.Equal(t, 2, page2.CurrentPage)
			require.Len(t, page2.Pets, 1)
			assert.Equal(t, "Rex", page2.Pets[0].Name)
		})
	}
}

func TestServiceListSearchTreatsWildcardsLiterally(t *testing.T) {
	repo := newGormRepo(t)
	svc, err := NewService(repo)
	require.NoError(t, err)
	seedPet(t, repo, "Rex", enums.AnimalDog, true, time.Hour)

	res, err := svc.List(context.Background(), ListInput{Search: "%"})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestServiceListRejectsUnknownFilters(t *testing.T) {
	svc, err := NewService(newGormRepo(t))
	require.NoError(t, err)

	_, err = svc.List(context.Background(), ListInput{Animal: "dragon"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.AdminList(context.Background(), ListInput{Status: "lost"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestServiceViewIncrementsViews(t *testing.T) {
	for name, build := range repoBackends() {
		t.Run(name, func(t *testing.T) {
			repo := build(t)
			svc, err := NewService(repo)
			require.NoError(t, err)
			ctx := context.Background()
			adminID := uuid.New()

			created, err := svc.Create(ctx, adminID, validCreateInput())
			require.NoError(t, err)

			first, err := svc.View(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), first.Views)
			assert.Nil(t, first.AddedBy, "public view hides admin fields")

			second, err := svc.View(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), second.Views)

			adminView, err := svc.Get(ctx, created.ID)
			require.NoError(t, err)
			require.NotNil(t, adminView.AddedBy)
			assert.Equal(t, adminID, *adminView.AddedBy)

			_, err = svc.View(ctx, uuid.New())
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
		})
	}
}

func TestServiceCreateNormalizesAndDefaults(t *testing.T) {
	svc, err := NewService(newGormRepo(t))
	require.NoError(t, err)

	pet, err := svc.Create(context.Background(), uuid.New(), validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, "Biscuit", pet.Name)
	assert.Equal(t, enums.AnimalDog, pet.Animal)
	assert.Equal(t, "CO", pet.State)
	assert.Equal(t, enums.PetAgeAdult, pet.Age)
	assert.Equal(t, enums.PetGenderMale, pet.Gender)
	assert.Equal(t, enums.PetSizeMedium, pet.Size)
	assert.Equal(t, enums.EnergyLevelModerate, pet.EnergyLevel)
	assert.True(t, pet.IsAvailable)
	assert.Equal(t, enums.PetStatusAvailable, pet.Status)
	assert.True(t, pet.Price.Equal(decimal.RequireFromString("250.00")))
	assert.Equal(t, "Happy Tails", pet.Contact.Organization)
}

func TestServiceCreateValidation(t *testing.T) {
	svc, err := NewService(newGormRepo(t))
	require.NoError(t, err)

	input := validCreateInput()
	negative := decimal.RequireFromString("-1")
	input.Price = &negative
	input.Animal = "dragon"
	input.State = "Colorado"
	input.Name = "  "

	_, err = svc.Create(context.Background(), uuid.New(), input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	for _, field := range []string{"price", "animal", "state", "name"} {
		assert.Contains(t, details, field)
	}
}

func TestServiceUpdate(t *testing.T) {
	for name, build := range repoBackends() {
		t.Run(name, func(t *testing.T) {
			repo := build(t)
			svc, err := NewService(repo)
			require.NoError(t, err)
			ctx := context.Background()

			created, err := svc.Create(ctx, uuid.New(), validCreateInput())
			require.NoError(t, err)
			_, err = svc.View(ctx, created.ID)
			require.NoError(t, err)

			newName := "Biscuit II"
			adopted := false
			vaccinated := true
			updated, err := svc.Update(ctx, created.ID, UpdatePetInput{
				Name:        &newName,
				IsAvailable: &adopted,
				Vaccinated:  &vaccinated,
			})
			require.NoError(t, err)
			assert.Equal(t, "Biscuit II", updated.Name)
			assert.Equal(t, enums.PetStatusAdopted, updated.Status)
			assert.NotNil(t, updated.AdoptedAt)
			assert.True(t, updated.Vaccinated)

			reloaded, err := svc.Get(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "Biscuit II", reloaded.Name)
			assert.False(t, reloaded.IsAvailable)
			assert.Equal(t, "Beagle", reloaded.Breed)
			assert.Equal(t, int64(1), reloaded.Views, "updates must not reset views")

			bad := "xx-large"
			_, err = svc.Update(ctx, created.ID, UpdatePetInput{Size: &bad})
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

			_, err = svc.Update(ctx, uuid.New(), UpdatePetInput{Name: &newName})
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
		})
	}
}

func TestServiceDelete(t *testing.T) {
	for name, build := range repoBackends() {
		t.Run(name, func(t *testing.T) {
			repo := build(t)
			svc, err := NewService(repo)
			require.NoError(t, err)
			ctx := context.Background()

			created, err := svc.Create(ctx, uuid.New(), validCreateInput())
			require.NoError(t, err)

			require.NoError(t, svc.Delete(ctx, created.ID))
			err = svc.Delete(ctx, created.ID)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

			_, err = svc.Get(ctx, created.ID)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
		})
	}
}
