package controllers

import (
	"math"
	"net/http"

	"github.com/petparadise/petparadise-api/api/responses"
	"github.com/petparadise/petparadise-api/api/validators"
	"github.com/petparadise/petparadise-api/internal/pets"
	pkgerrors "github.com/petparadise/petparadise-api/pkg/errors"
	"github.com/petparadise/petparadise-api/pkg/logger"
	"github.com/petparadise/petparadise-api/pkg/pagination"
)

const maxSearchLength = 100

// PetsList serves the public catalog.
func PetsList(svc pets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pet service unavailable"))
			return
		}

		input, err := parseListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PetsDetail serves the public pet view and counts the visit.
func PetsDetail(svc pets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pet service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "petId", "pet not found")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pet, err := svc.View(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pet)
	}
}

func parseListInput(r *http.Request) (pets.ListInput, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, math.MaxInt32)
	if err != nil {
		return pets.ListInput{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pets.ListInput{}, err
	}
	q := r.URL.Query()
	return pets.ListInput{
		Search:     validators.SanitizeString(q.Get("search"), maxSearchLength),
		Animal:     validators.SanitizeString(q.Get("animal"), 32),
		Status:     validators.SanitizeString(q.Get("status"), 32),
		Pagination: pagination.Params{Page: page, Limit: limit},
	}, nil
}
