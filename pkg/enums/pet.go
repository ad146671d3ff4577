package enums

import (
	"fmt"
	"slices"
	"strings"
)

// Animal is the species of a listed pet.
type Animal string

const (
	AnimalDog     Animal = "dog"
	AnimalCat     Animal = "cat"
	AnimalBird    Animal = "bird"
	AnimalRabbit  Animal = "rabbit"
	AnimalReptile Animal = "reptile"
)

var validAnimals = []Animal{AnimalDog, AnimalCat, AnimalBird, AnimalRabbit, AnimalReptile}

func (a Animal) String() string { return string(a) }

func (a Animal) IsValid() bool { return slices.Contains(validAnimals, a) }

func ParseAnimal(value string) (Animal, error) {
	return parseEnum(validAnimals, value, "animal")
}

// PetAge is the coarse age group shown on listings.
type PetAge string

const (
	PetAgeBaby   PetAge = "baby"
	PetAgeYoung  PetAge = "young"
	PetAgeAdult  PetAge = "adult"
	PetAgeSenior PetAge = "senior"
)

var validPetAges = []PetAge{PetAgeBaby, PetAgeYoung, PetAgeAdult, PetAgeSenior}

func (a PetAge) String() string { return string(a) }

func (a PetAge) IsValid() bool { return slices.Contains(validPetAges, a) }

func ParsePetAge(value string) (PetAge, error) {
	return parseEnum(validPetAges, value, "pet age")
}

type PetGender string

const (
	PetGenderMale   PetGender = "male"
	PetGenderFemale PetGender = "female"
)

var validPetGenders = []PetGender{PetGenderMale, PetGenderFemale}

func (g PetGender) String() string { return string(g) }

func (g PetGender) IsValid() bool { return slices.Contains(validPetGenders, g) }

func ParsePetGender(value string) (PetGender, error) {
	return parseEnum(validPetGenders, value, "pet gender")
}

type PetSize string

const (
	PetSizeSmall      PetSize = "small"
	PetSizeMedium     PetSize = "medium"
	PetSizeLarge      PetSize = "large"
	PetSizeExtraLarge PetSize = "extra-large"
)

var validPetSizes = []PetSize{PetSizeSmall, PetSizeMedium, PetSizeLarge, PetSizeExtraLarge}

func (s PetSize) String() string { return string(s) }

func (s PetSize) IsValid() bool { return slices.Contains(validPetSizes, s) }

func ParsePetSize(value string) (PetSize, error) {
	return parseEnum(validPetSizes, value, "pet size")
}

type EnergyLevel string

const (
	EnergyLevelLow      EnergyLevel = "low"
	EnergyLevelModerate EnergyLevel = "moderate"
	EnergyLevelHigh     EnergyLevel = "high"
	EnergyLevelVeryHigh EnergyLevel = "very-high"
)

var validEnergyLevels = []EnergyLevel{EnergyLevelLow, EnergyLevelModerate, EnergyLevelHigh, EnergyLevelVeryHigh}

func (e EnergyLevel) String() string { return string(e) }

func (e EnergyLevel) IsValid() bool { return slices.Contains(validEnergyLevels, e) }

func ParseEnergyLevel(value string) (EnergyLevel, error) {
	return parseEnum(validEnergyLevels, value, "energy level")
}

// PetStatus filters catalog listings by adoption state.
type PetStatus string

const (
	PetStatusAll       PetStatus = "all"
	PetStatusAvailable PetStatus = "available"
	PetStatusAdopted   PetStatus = "adopted"
)

var validPetStatuses = []PetStatus{PetStatusAll, PetStatusAvailable, PetStatusAdopted}

func (s PetStatus) String() string { return string(s) }

func (s PetStatus) IsValid() bool { return slices.Contains(validPetStatuses, s) }

func ParsePetStatus(value string) (PetStatus, error) {
	return parseEnum(validPetStatuses, value, "pet status")
}

func parseEnum[T ~string](valid []T, value, label string) (T, error) {
	normalized := T(strings.ToLower(strings.TrimSpace(value)))
	if slices.Contains(valid, normalized) {
		return normalized, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q", label, value)
}
