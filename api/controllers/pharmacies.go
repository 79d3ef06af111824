package controllers

import (
	"net/http"

	"github.com/gprf24/pickUpLivery/api/middleware"
	"github.com/gprf24/pickUpLivery/api/responses"
	"github.com/gprf24/pickUpLivery/internal/pharmacies"
	pkgerrors "github.com/gprf24/pickUpLivery/pkg/errors"
	"github.com/gprf24/pickUpLivery/pkg/logger"
)

// MyPharmacies lists the pharmacies assigned to the calling driver.
func MyPharmacies(svc pharmacies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, _, ok := middleware.ActorFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		rows, err := svc.ListForDriver(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"pharmacies": rows})
	}
}
