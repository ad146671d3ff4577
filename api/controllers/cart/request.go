package cart

import (
	"github.com/shopspring/decimal"

	cartsvc "github.com/petparadise/petparadise-api/internal/cart"
)

// AddItemRequest is the pet snapshot posted by the "add to cart" button.
// Field-level checks live in the ledger so every entry point shares them.
type AddItemRequest struct {
	PetID    string           `json:"petId"`
	PetName  string           `json:"petName"`
	PetPrice *decimal.Decimal `json:"petPrice"`
	PetImage string           `json:"petImage"`
	Quantity *int             `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// UpdateItemRequest addresses the line through the body instead of the path.
type UpdateItemRequest struct {
	PetID    string `json:"petId" validate:"required"`
	Quantity *int   `json:"quantity" validate:"required"`
}

func toAddItemInput(payload AddItemRequest) cartsvc.AddItemInput {
	return cartsvc.AddItemInput{
		PetID:    payload.PetID,
		PetName:  payload.PetName,
		PetPrice: payload.PetPrice,
		PetImage: payload.PetImage,
		Quantity: payload.Quantity,
	}
}
