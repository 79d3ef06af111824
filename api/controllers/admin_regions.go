package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gprf24/pickUpLivery/api/responses"
	"github.com/gprf24/pickUpLivery/api/validators"
	"github.com/gprf24/pickUpLivery/internal/regions"
	pkgerrors "github.com/gprf24/pickUpLivery/pkg/errors"
	"github.com/gprf24/pickUpLivery/pkg/logger"
)

type createRegionPayload struct {
	Name string  `json:"name" validate:"required"`
	Code *string `json:"code"`
}

type updateRegionPayload struct {
	Name     *string `json:"name"`
	Code     *string `json:"code"`
	IsActive *bool   `json:"is_active"`
}

// AdminCreateRegion creates a region.
func AdminCreateRegion(svc regions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createRegionPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		created, err := svc.Create(ctx, regions.CreateInput{Name: payload.Name, Code: payload.Code})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminListRegions lists regions.
func AdminListRegions(svc regions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rows, err := svc.List(ctx, r.URL.Query().Get("active") == "true")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"regions": rows})
	}
}

// AdminUpdateRegion applies partial region changes.
func AdminUpdateRegion(svc regions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := uuid.Parse(chi.URLParam(r, "regionID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "region id must be a valid uuid"))
			return
		}

		var payload updateRegionPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := svc.Update(ctx, id, regions.UpdateInput{
			Name:     payload.Name,
			Code:     payload.Code,
			IsActive: payload.IsActive,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}
