package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gprf24/pickUpLivery/api/responses"
	"github.com/gprf24/pickUpLivery/api/validators"
	"github.com/gprf24/pickUpLivery/internal/users"
	"github.com/gprf24/pickUpLivery/pkg/enums"
	pkgerrors "github.com/gprf24/pickUpLivery/pkg/errors"
	"github.com/gprf24/pickUpLivery/pkg/logger"
)

type createUserPayload struct {
	Login                 string  `json:"login" validate:"required"`
	Password              string  `json:"password" validate:"required,min=8"`
	FullName              *string `json:"full_name"`
	Role                  string  `json:"role" validate:"required"`
	RequirePickupLocation *bool   `json:"require_pickup_location"`
}

type updateUserPayload struct {
	FullName              *string `json:"full_name"`
	Password              *string `json:"password"`
	IsActive              *bool   `json:"is_active"`
	RequirePickupLocation *bool   `json:"require_pickup_location"`
	ClearLocationOverride bool    `json:"clear_location_override"`
}

// AdminCreateUser creates a driver, admin or history account.
func AdminCreateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createUserPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		role, err := enums.ParseUserRole(payload.Role)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown role"))
			return
		}

		created, err := svc.Create(ctx, users.CreateInput{
			Login:                 payload.Login,
			Password:              payload.Password,
			FullName:              payload.FullName,
			Role:                  role,
			RequirePickupLocation: payload.RequirePickupLocation,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminListUsers lists accounts, optionally filtered by role.
func AdminListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filters := users.ListFilters{}
		if raw := r.URL.Query().Get("role"); raw != "" {
			role, err := enums.ParseUserRole(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown role"))
				return
			}
			filters.Role = &role
		}
		filters.ActiveOnly = r.URL.Query().Get("active") == "true"

		rows, err := svc.List(ctx, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"users": rows})
	}
}

// AdminGetUser returns a single account.
func AdminGetUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user id must be a valid uuid"))
			return
		}

		user, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// AdminUpdateUser applies partial account changes, including the
// per-user GPS requirement override.
func AdminUpdateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user id must be a valid uuid"))
			return
		}

		var payload updateUserPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := svc.Update(ctx, id, users.UpdateInput{
			FullName:              payload.FullName,
			Password:              payload.Password,
			IsActive:              payload.IsActive,
			RequirePickupLocation: payload.RequirePickupLocation,
			ClearLocationOverride: payload.ClearLocationOverride,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}
