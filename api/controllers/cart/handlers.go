package cart

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/petparadise/petparadise-api/api/middleware"
	"github.com/petparadise/petparadise-api/api/responses"
	"github.com/petparadise/petparadise-api/api/validators"
	cartsvc "github.com/petparadise/petparadise-api/internal/cart"
	pkgerrors "github.com/petparadise/petparadise-api/pkg/errors"
	"github.com/petparadise/petparadise-api/pkg/logger"
)

// PetIDParam is the chi path parameter that addresses a cart line.
const PetIDParam = "petId"

// CartFetch returns the caller's cart; a user without one gets an empty cart.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := begin(w, r, svc, logg)
		if !ok {
			return
		}

		record, err := svc.GetCart(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(record))
	}
}

// CartSummary backs the polled cart badge.
func CartSummary(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := begin(w, r, svc, logg)
		if !ok {
			return
		}

		summary, err := svc.Summary(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// CartItemQuantity reports how many of one pet are in the cart, zero if none.
func CartItemQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := begin(w, r, svc, logg)
		if !ok {
			return
		}

		petID := chi.URLParam(r, PetIDParam)
		ctx := petScope(r, logg, petID)
		quantity, err := svc.Quantity(ctx, userID, petID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, QuantityResponse{PetID: petID, Quantity: quantity})
	}
}

// CartAddItem adds a line or merges the quantity into an existing one.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := begin(w, r, svc, logg)
		if !ok {
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := petScope(r, logg, payload.PetID)
		record, err := svc.AddItem(ctx, userID, toAddItemInput(payload))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(record))
	}
}

// CartUpdateItem sets the quantity of the line named in the path.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := begin(w, r, svc, logg)
		if !ok {
			return
		}

		var payload UpdateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		petID := chi.URLParam(r, PetIDParam)
		ctx := petScope(r, logg, petID)
		record, err := svc.UpdateQuantity(ctx, userID, petID, *payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(record))
	}
}

// CartUpdateByBody is the body-addressed variant of CartUpdateItem.
func CartUpdateByBody(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := begin(w, r, svc, logg)
		if !ok {
			return
		}

		var payload UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := petScope(r, logg, payload.PetID)
		record, err := svc.UpdateQuantity(ctx, userID, payload.PetID, *payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(record))
	}
}

func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := begin(w, r, svc, logg)
		if !ok {
			return
		}

		petID := chi.URLParam(r, PetIDParam)
		ctx := petScope(r, logg, petID)
		record, err := svc.RemoveItem(ctx, userID, petID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(record))
	}
}

// CartClear empties the cart. Checkout is simulated by calling this.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := begin(w, r, svc, logg)
		if !ok {
			return
		}

		if err := svc.Clear(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ClearResponse{Cleared: true})
	}
}

// begin resolves the caller for a cart request and writes the error response
// when it cannot.
func begin(w http.ResponseWriter, r *http.Request, svc cartsvc.Service, logg *logger.Logger) (uuid.UUID, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
		return uuid.Nil, false
	}
	userID := middleware.UserUUIDFromContext(r.Context())
	if userID == uuid.Nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
		return uuid.Nil, false
	}
	return userID, true
}

// petScope tags the request logger with the addressed pet.
func petScope(r *http.Request, logg *logger.Logger, petID string) context.Context {
	if logg == nil {
		return r.Context()
	}
	return logg.WithPetID(r.Context(), petID)
}
