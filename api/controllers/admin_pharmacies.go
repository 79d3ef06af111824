package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gprf24/pickUpLivery/api/responses"
	"github.com/gprf24/pickUpLivery/api/validators"
	"github.com/gprf24/pickUpLivery/internal/pharmacies"
	pkgerrors "github.com/gprf24/pickUpLivery/pkg/errors"
	"github.com/gprf24/pickUpLivery/pkg/logger"
)

type createPharmacyPayload struct {
	Name     string            `json:"name" validate:"required"`
	RegionID *uuid.UUID        `json:"region_id"`
	Address  *string           `json:"address"`
	Schedule map[string]string `json:"schedule"`
}

type updatePharmacyPayload struct {
	Name     *string    `json:"name"`
	RegionID *uuid.UUID `json:"region_id"`
	Address  *string    `json:"address"`
	IsActive *bool      `json:"is_active"`
}

type schedulePayload struct {
	Schedule map[string]string `json:"schedule" validate:"required"`
}

type assignDriverPayload struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// AdminCreatePharmacy creates a pharmacy. Without an explicit schedule
// the weekday default cutoff applies Monday through Friday.
func AdminCreatePharmacy(svc pharmacies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createPharmacyPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		created, err := svc.Create(ctx, pharmacies.CreateInput{
			Name:     payload.Name,
			RegionID: payload.RegionID,
			Address:  payload.Address,
			Schedule: payload.Schedule,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminListPharmacies lists pharmacies, optionally by region.
func AdminListPharmacies(svc pharmacies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filters := pharmacies.ListFilters{ActiveOnly: r.URL.Query().Get("active") == "true"}
		if raw := r.URL.Query().Get("region_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "region_id must be a valid uuid"))
				return
			}
			filters.RegionID = &id
		}

		rows, err := svc.List(ctx, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"pharmacies": rows})
	}
}

// AdminGetPharmacy returns a single pharmacy including its schedule.
func AdminGetPharmacy(svc pharmacies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pharmacyIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pharmacy, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, pharmacy)
	}
}

// AdminUpdatePharmacy applies partial pharmacy changes.
func AdminUpdatePharmacy(svc pharmacies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pharmacyIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updatePharmacyPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := svc.Update(ctx, id, pharmacies.UpdateInput{
			Name:     payload.Name,
			RegionID: payload.RegionID,
			Address:  payload.Address,
			IsActive: payload.IsActive,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

// AdminSetPharmacySchedule replaces the weekly cutoff schedule. Already
// recorded pickups keep their frozen cutoff and classification.
func AdminSetPharmacySchedule(svc pharmacies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pharmacyIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload schedulePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := svc.SetSchedule(ctx, id, payload.Schedule)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

// AdminAssignDriver links a driver to a pharmacy.
func AdminAssignDriver(svc pharmacies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pharmacyIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload assignDriverPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.AssignDriver(ctx, payload.UserID, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "assigned"})
	}
}

// AdminUnassignDriver removes a driver's link to a pharmacy. Already
// recorded pickups are unaffected.
func AdminUnassignDriver(svc pharmacies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pharmacyIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user id must be a valid uuid"))
			return
		}

		if err := svc.UnassignDriver(ctx, userID, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "unassigned"})
	}
}

func pharmacyIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "pharmacyID"))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy id must be a valid uuid")
	}
	return id, nil
}
