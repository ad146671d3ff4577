package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petparadise/petparadise-api/pkg/enums"
)

// Pet is a catalog listing managed by admins.
type Pet struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Name           string            `gorm:"column:name;not null"`
	Animal         enums.Animal      `gorm:"column:animal;type:text;not null;index"`
	Breed          string            `gorm:"column:breed;not null"`
	City           string            `gorm:"column:city;not null"`
	State          string            `gorm:"column:state;type:varchar(2);not null"`
	Description    string            `gorm:"column:description;not null"`
	Images         []string          `gorm:"column:images;serializer:json;not null"`
	Price          decimal.Decimal   `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	Age            enums.PetAge      `gorm:"column:age;type:text;not null;default:'adult'"`
	Gender         enums.PetGender   `gorm:"column:gender;type:text;not null;default:'male'"`
	Size           enums.PetSize     `gorm:"column:size;type:text;not null;default:'medium'"`
	Vaccinated     bool              `gorm:"column:vaccinated;not null;default:false"`
	SpayedNeutered bool              `gorm:"column:spayed_neutered;not null;default:false"`
	HouseTrained   bool              `gorm:"column:house_trained;not null;default:false"`
	GoodWithKids   bool              `gorm:"column:good_with_kids;not null;default:false"`
	GoodWithPets   bool              `gorm:"column:good_with_pets;not null;default:false"`
	EnergyLevel    enums.EnergyLevel `gorm:"column:energy_level;type:text;not null;default:'moderate'"`
	IsAvailable    bool              `gorm:"column:is_available;not null;index"`
	AdoptedBy      *uuid.UUID        `gorm:"column:adopted_by;type:uuid"`
	AdoptedAt      *time.Time        `gorm:"column:adopted_at"`
	AddedBy        *uuid.UUID        `gorm:"column:added_by;type:uuid"`
	Featured       bool              `gorm:"column:featured;not null;default:false"`
	Views          int64             `gorm:"column:views;not null;default:0"`
	SpecialNeeds   string            `gorm:"column:special_needs"`
	Contact        PetContact        `gorm:"column:contact_info;serializer:json"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

type PetContact struct {
	Organization string `json:"organization,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Website      string `json:"website,omitempty"`
}

func (p *Pet) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return nil
}

// All lists every model managed by AutoMigrate.
func All() []any {
	return []any{&User{}, &Cart{}, &Pet{}}
}
