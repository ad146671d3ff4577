package pets

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petparadise/petparadise-api/pkg/db/models"
	"github.com/petparadise/petparadise-api/pkg/enums"
)

// ContactDTO is the shelter or owner contact block shown on a listing.
type ContactDTO struct {
	Organization string `json:"organization,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Website      string `json:"website,omitempty"`
}

// PetDTO is the full listing. Admin-only fields are cleared by Public.
type PetDTO struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Animal         enums.Animal      `json:"animal"`
	Breed          string            `json:"breed"`
	City           string            `json:"city"`
	State          string            `json:"state"`
	Description    string            `json:"description"`
	Images         []string          `json:"images"`
	Price          decimal.Decimal   `json:"price"`
	Age            enums.PetAge      `json:"age"`
	Gender         enums.PetGender   `json:"gender"`
	Size           enums.PetSize     `json:"size"`
	Vaccinated     bool              `json:"vaccinated"`
	SpayedNeutered bool              `json:"spayed_neutered"`
	HouseTrained   bool              `json:"house_trained"`
	GoodWithKids   bool              `json:"good_with_kids"`
	GoodWithPets   bool              `json:"good_with_pets"`
	EnergyLevel    enums.EnergyLevel `json:"energy_level"`
	Status         enums.PetStatus   `json:"status"`
	IsAvailable    bool              `json:"is_available"`
	Featured       bool              `json:"featured"`
	Views          int64             `json:"views"`
	SpecialNeeds   string            `json:"special_needs,omitempty"`
	Contact        ContactDTO        `json:"contact_info"`
	AddedBy        *uuid.UUID        `json:"added_by,omitempty"`
	AdoptedBy      *uuid.UUID        `json:"adopted_by,omitempty"`
	AdoptedAt      *time.Time        `json:"adopted_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// PetSummaryDTO is the compact row used by catalog listings.
type PetSummaryDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Animal    enums.Animal    `json:"animal"`
	Breed     string          `json:"breed"`
	City      string          `json:"city"`
	State     string          `json:"state"`
	Price     decimal.Decimal `json:"price"`
	Age       enums.PetAge    `json:"age"`
	Gender    enums.PetGender `json:"gender"`
	Size      enums.PetSize   `json:"size"`
	Status    enums.PetStatus `json:"status"`
	Images    []string        `json:"images"`
	Featured  bool            `json:"featured"`
	Views     int64           `json:"views"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListResult is one page of a catalog query.
type ListResult[T any] struct {
	Pets        []T   `json:"pets"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
}

func statusOf(available bool) enums.PetStatus {
	if available {
		return enums.PetStatusAvailable
	}
	return enums.PetStatusAdopted
}

func imagesOf(images []string) []string {
	if images == nil {
		return []string{}
	}
	return append([]string(nil), images...)
}

func FromModel(p *models.Pet) *PetDTO {
	if p == nil {
		return nil
	}
	return &PetDTO{
		ID:             p.ID,
		Name:           p.Name,
		Animal:         p.Animal,
		Breed:          p.Breed,
		City:           p.City,
		State:          p.State,
		Description:    p.Description,
		Images:         imagesOf(p.Images),
		Price:          p.Price,
		Age:            p.Age,
		Gender:         p.Gender,
		Size:           p.Size,
		Vaccinated:     p.Vaccinated,
		SpayedNeutered: p.SpayedNeutered,
		HouseTrained:   p.HouseTrained,
		GoodWithKids:   p.GoodWithKids,
		GoodWithPets:   p.GoodWithPets,
		EnergyLevel:    p.EnergyLevel,
		Status:         statusOf(p.IsAvailable),
		IsAvailable:    p.IsAvailable,
		Featured:       p.Featured,
		Views:          p.Views,
		SpecialNeeds:   p.SpecialNeeds,
		Contact: ContactDTO{
			Organization: p.Contact.Organization,
			Phone:        p.Contact.Phone,
			Email:        p.Contact.Email,
			Website:      p.Contact.Website,
		},
		AddedBy:   p.AddedBy,
		AdoptedBy: p.AdoptedBy,
		AdoptedAt: p.AdoptedAt,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// Public strips the fields only admins should see.
func (d *PetDTO) Public() *PetDTO {
	if d == nil {
		return nil
	}
	out := *d
	out.AddedBy = nil
	out.AdoptedBy = nil
	return &out
}

func SummaryFromModel(p models.Pet) PetSummaryDTO {
	return PetSummaryDTO{
		ID:        p.ID,
		Name:      p.Name,
		Animal:    p.Animal,
		Breed:     p.Breed,
		City:      p.City,
		State:     p.State,
		Price:     p.Price,
		Age:       p.Age,
		Gender:    p.Gender,
		Size:      p.Size,
		Status:    statusOf(p.IsAvailable),
		Images:    imagesOf(p.Images),
		Featured:  p.Featured,
		Views:     p.Views,
		CreatedAt: p.CreatedAt,
	}
}
