package controllers

import (
	"net/http"

	"github.com/gprf24/pickUpLivery/api/responses"
	"github.com/gprf24/pickUpLivery/api/validators"
	"github.com/gprf24/pickUpLivery/internal/settings"
	"github.com/gprf24/pickUpLivery/pkg/logger"
)

type updateSettingsPayload struct {
	AllowedPickupsPerDay        *int    `json:"allowed_pickups_per_day"`
	RequirePickupLocationGlobal *bool   `json:"require_pickup_location_global"`
	MinRequiredPhotos           *int    `json:"min_required_photos"`
	PhotoSourceMode             *string `json:"photo_source_mode"`
}

// AdminGetSettings returns the singleton application settings.
func AdminGetSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		current, err := svc.Get(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, current)
	}
}

// AdminUpdateSettings applies partial settings changes. New values
// affect future submissions only; recorded pickups keep their frozen
// evaluation.
func AdminUpdateSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload updateSettingsPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := svc.Update(ctx, settings.UpdateInput{
			AllowedPickupsPerDay:        payload.AllowedPickupsPerDay,
			RequirePickupLocationGlobal: payload.RequirePickupLocationGlobal,
			MinRequiredPhotos:           payload.MinRequiredPhotos,
			PhotoSourceMode:             payload.PhotoSourceMode,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}
