package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/petparadise/petparadise-api/pkg/db/models"
	"github.com/petparadise/petparadise-api/pkg/enums"
	pkgerrors "github.com/petparadise/petparadise-api/pkg/errors"
	"github.com/petparadise/petparadise-api/pkg/pagination"
)

// Service is the catalog surface used by the public and admin controllers.
type Service interface {
	List(ctx context.Context, input ListInput) (*ListResult[PetSummaryDTO], error)
	AdminList(ctx context.Context, input ListInput) (*ListResult[PetDTO], error)
	View(ctx context.Context, id uuid.UUID) (*PetDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*PetDTO, error)
	Create(ctx context.Context, adminID uuid.UUID, input CreatePetInput) (*PetDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePetInput) (*PetDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pets repository is required")
	}
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult[PetSummaryDTO], error) {
	rows, total, page, err := s.query(ctx, input)
	if err != nil {
		return nil, err
	}
	out := make([]PetSummaryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, SummaryFromModel(row))
	}
	return &ListResult[PetSummaryDTO]{
		Pets:        out,
		Total:       total,
		TotalPages:  pagination.TotalPages(total, page.Limit),
		CurrentPage: page.Page,
	}, nil
}

func (s *service) AdminList(ctx context.Context, input ListInput) (*ListResult[PetDTO], error) {
	rows, total, page, err := s.query(ctx, input)
	if err != nil {
		return nil, err
	}
	out := make([]PetDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return &ListResult[PetDTO]{
		Pets:        out,
		Total:       total,
		TotalPages:  pagination.TotalPages(total, page.Limit),
		CurrentPage: page.Page,
	}, nil
}

func (s *service) query(ctx context.Context, input ListInput) ([]models.Pet, int64, pagination.Params, error) {
	page := input.Pagination.Normalize()
	q := ListQuery{
		Search: strings.TrimSpace(input.Search),
		Offset: page.Offset(),
		Limit:  page.Limit,
	}

	if raw := strings.TrimSpace(input.Animal); raw != "" && !strings.EqualFold(raw, "all") {
		animal, err := enums.ParseAnimal(raw)
		if err != nil {
			return nil, 0, page, pkgerrors.New(pkgerrors.CodeValidation, "invalid animal filter")
		}
		q.Animal = &animal
	}

	if raw := strings.TrimSpace(input.Status); raw != "" {
		status, err := enums.ParsePetStatus(raw)
		if err != nil {
			return nil, 0, page, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		if status != enums.PetStatusAll {
			available := status == enums.PetStatusAvailable
			q.Available = &available
		}
	}

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, page, pkgerrors.Wrap(pkgerrors.CodeStore, err, "list pets")
	}
	return rows, total, page, nil
}

// View is the public detail read; it counts the visit before loading.
func (s *service) View(ctx context.Context, id uuid.UUID) (*PetDTO, error) {
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return nil, translate(err, "increment views")
	}
	dto, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.Public(), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*PetDTO, error) {
	pet, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err, "load pet")
	}
	return FromModel(pet), nil
}

func (s *service) Create(ctx context.Context, adminID uuid.UUID, input CreatePetInput) (*PetDTO, error) {
	pet := &models.Pet{
		Name:           strings.TrimSpace(input.Name),
		Breed:          strings.TrimSpace(input.Breed),
		City:           strings.TrimSpace(input.City),
		State:          strings.ToUpper(strings.TrimSpace(input.State)),
		Description:    strings.TrimSpace(input.Description),
		Images:         imagesOf(input.Images),
		Vaccinated:     input.Vaccinated,
		SpayedNeutered: input.SpayedNeutered,
		HouseTrained:   input.HouseTrained,
		GoodWithKids:   input.GoodWithKids,
		GoodWithPets:   input.GoodWithPets,
		IsAvailable:    true,
		Featured:       input.Featured,
		SpecialNeeds:   strings.TrimSpace(input.SpecialNeeds),
		Contact:        contactModel(input.Contact),
	}
	if adminID != uuid.Nil {
		pet.AddedBy = &adminID
	}
	if input.IsAvailable != nil {
		pet.IsAvailable = *input.IsAvailable
	}

	details := map[string]string{}
	requireText(details, "name", pet.Name)
	requireText(details, "breed", pet.Breed)
	requireText(details, "city", pet.City)
	requireText(details, "description", pet.Description)
	if len(pet.State) != 2 {
		details["state"] = "must be a 2-letter code"
	}
	if input.Price == nil {
		details["price"] = "is required"
	} else if input.Price.IsNegative() {
		details["price"] = "must not be negative"
	} else {
		pet.Price = input.Price.Round(2)
	}
	parseInto(details, "animal", input.Animal, "", enums.ParseAnimal, &pet.Animal)
	parseInto(details, "age", input.Age, enums.PetAgeAdult, enums.ParsePetAge, &pet.Age)
	parseInto(details, "gender", input.Gender, enums.PetGenderMale, enums.ParsePetGender, &pet.Gender)
	parseInto(details, "size", input.Size, enums.PetSizeMedium, enums.ParsePetSize, &pet.Size)
	parseInto(details, "energy_level", input.EnergyLevel, enums.EnergyLevelModerate, enums.ParseEnergyLevel, &pet.EnergyLevel)
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid pet").WithDetails(details)
	}

	if err := s.repo.Create(ctx, pet); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "create pet")
	}
	return FromModel(pet), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdatePetInput) (*PetDTO, error) {
	pet, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err, "load pet")
	}

	details := map[string]string{}
	applyText(details, "name", input.Name, &pet.Name)
	applyText(details, "breed", input.Breed, &pet.Breed)
	applyText(details, "city", input.City, &pet.City)
	applyText(details, "description", input.Description, &pet.Description)
	if input.State != nil {
		state := strings.ToUpper(strings.TrimSpace(*input.State))
		if len(state) != 2 {
			details["state"] = "must be a 2-letter code"
		}
		pet.State = state
	}
	if input.Images != nil {
		pet.Images = imagesOf(*input.Images)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			details["price"] = "must not be negative"
		}
		pet.Price = input.Price.Round(2)
	}
	if input.Animal != nil {
		parseInto(details, "animal", *input.Animal, "", enums.ParseAnimal, &pet.Animal)
	}
	if input.Age != nil {
		parseInto(details, "age", *input.Age, "", enums.ParsePetAge, &pet.Age)
	}
	if input.Gender != nil {
		parseInto(details, "gender", *input.Gender, "", enums.ParsePetGender, &pet.Gender)
	}
	if input.Size != nil {
		parseInto(details, "size", *input.Size, "", enums.ParsePetSize, &pet.Size)
	}
	if input.EnergyLevel != nil {
		parseInto(details, "energy_level", *input.EnergyLevel, "", enums.ParseEnergyLevel, &pet.EnergyLevel)
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid pet").WithDetails(details)
	}

	setBool(input.Vaccinated, &pet.Vaccinated)
	setBool(input.SpayedNeutered, &pet.SpayedNeutered)
	setBool(input.HouseTrained, &pet.HouseTrained)
	setBool(input.GoodWithKids, &pet.GoodWithKids)
	setBool(input.GoodWithPets, &pet.GoodWithPets)
	setBool(input.Featured, &pet.Featured)
	if input.SpecialNeeds != nil {
		pet.SpecialNeeds = strings.TrimSpace(*input.SpecialNeeds)
	}
	if input.Contact != nil {
		pet.Contact = contactModel(*input.Contact)
	}
	if input.IsAvailable != nil && *input.IsAvailable != pet.IsAvailable {
		pet.IsAvailable = *input.IsAvailable
		if pet.IsAvailable {
			pet.AdoptedAt = nil
			pet.AdoptedBy = nil
		} else {
			now := s.now()
			pet.AdoptedAt = &now
		}
	}

	if err := s.repo.Update(ctx, pet); err != nil {
		return nil, translate(err, "update pet")
	}
	return FromModel(pet), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err, "delete pet")
	}
	return nil
}

func translate(err error, op string) error {
	if errors.Is(err, ErrPetNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeStore, err, op)
}

func requireText(details map[string]string, field, value string) {
	if value == "" {
		details[field] = "is required"
	}
}

func applyText(details map[string]string, field string, in *string, dst *string) {
	if in == nil {
		return
	}
	value := strings.TrimSpace(*in)
	requireText(details, field, value)
	*dst = value
}

func setBool(in *bool, dst *bool) {
	if in != nil {
		*dst = *in
	}
}

// parseInto fills dst from raw, falling back to def when raw is blank. A blank
// value with no default is reported as missing.
func parseInto[T ~string](details map[string]string, field, raw string, def T, parse func(string) (T, error), dst *T) {
	if strings.TrimSpace(raw) == "" {
		if def == "" {
			details[field] = "is required"
			return
		}
		*dst = def
		return
	}
	value, err := parse(raw)
	if err != nil {
		details[field] = "is not a supported value"
		return
	}
	*dst = value
}

func contactModel(in ContactInput) models.PetContact {
	return models.PetContact{
		Organization: strings.TrimSpace(in.Organization),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        strings.TrimSpace(in.Email),
		Website:      strings.TrimSpace(in.Website),
	}
}
