package pets

import (
	"github.com/shopspring/decimal"

	"github.com/petparadise/petparadise-api/pkg/enums"
	"github.com/petparadise/petparadise-api/pkg/pagination"
)

// ListInput carries the catalog query string after parsing.
type ListInput struct {
	Search     string
	Animal     string
	Status     string
	Pagination pagination.Params
}

// ListQuery is the storage-level form of ListInput.
type ListQuery struct {
	Search    string
	Animal    *enums.Animal
	Available *bool
	Offset    int
	Limit     int
}

// ContactInput mirrors ContactDTO on the write path.
type ContactInput struct {
	Organization string `json:"organization" validate:"omitempty,max=200"`
	Phone        string `json:"phone" validate:"omitempty,max=40"`
	Email        string `json:"email" validate:"omitempty,email"`
	Website      string `json:"website" validate:"omitempty,url"`
}

// CreatePetInput is the admin payload for a new listing.
type CreatePetInput struct {
	Name           string           `json:"name" validate:"required,max=120"`
	Animal         string           `json:"animal" validate:"required"`
	Breed          string           `json:"breed" validate:"required,max=120"`
	City           string           `json:"city" validate:"required,max=120"`
	State          string           `json:"state" validate:"required,len=2"`
	Description    string           `json:"description" validate:"required"`
	Images         []string         `json:"images" validate:"omitempty,dive,url"`
	Price          *decimal.Decimal `json:"price" validate:"required"`
	Age            string           `json:"age"`
	Gender         string           `json:"gender"`
	Size           string           `json:"size"`
	Vaccinated     bool             `json:"vaccinated"`
	SpayedNeutered bool             `json:"spayed_neutered"`
	HouseTrained   bool             `json:"house_trained"`
	GoodWithKids   bool             `json:"good_with_kids"`
	GoodWithPets   bool             `json:"good_with_pets"`
	EnergyLevel    string           `json:"energy_level"`
	IsAvailable    *bool            `json:"is_available"`
	Featured       bool             `json:"featured"`
	SpecialNeeds   string           `json:"special_needs" validate:"omitempty,max=1000"`
	Contact        ContactInput     `json:"contact_info"`
}

// UpdatePetInput applies only the fields that are present.
type UpdatePetInput struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=120"`
	Animal         *string          `json:"animal"`
	Breed          *string          `json:"breed" validate:"omitempty,min=1,max=120"`
	City           *string          `json:"city" validate:"omitempty,min=1,max=120"`
	State          *string          `json:"state" validate:"omitempty,len=2"`
	Description    *string          `json:"description" validate:"omitempty,min=1"`
	Images         *[]string        `json:"images" validate:"omitempty,dive,url"`
	Price          *decimal.Decimal `json:"price"`
	Age            *string          `json:"age"`
	Gender         *string          `json:"gender"`
	Size           *string          `json:"size"`
	Vaccinated     *bool            `json:"vaccinated"`
	SpayedNeutered *bool            `json:"spayed_neutered"`
	HouseTrained   *bool            `json:"house_trained"`
	GoodWithKids   *bool            `json:"good_with_kids"`
	GoodWithPets   *bool            `json:"good_with_pets"`
	EnergyLevel    *string          `json:"energy_level"`
	IsAvailable    *bool            `json:"is_available"`
	Featured       *bool            `json:"featured"`
	SpecialNeeds   *string          `json:"special_needs" validate:"omitempty,max=1000"`
	Contact        *ContactInput    `json:"contact_info"`
}
