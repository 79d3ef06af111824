package controllers

import (
	"net/http"

	"github.com/gprf24/pickUpLivery/api/responses"
	"github.com/gprf24/pickUpLivery/api/validators"
	"github.com/gprf24/pickUpLivery/internal/auth"
	"github.com/gprf24/pickUpLivery/pkg/logger"
)

// AuthLogin exchanges credentials for an access token.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp, err := svc.Login(ctx, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, resp)
	}
}
