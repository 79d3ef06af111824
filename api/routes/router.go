package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gprf24/pickUpLivery/api/controllers"
	"github.com/gprf24/pickUpLivery/api/middleware"
	authsvc "github.com/gprf24/pickUpLivery/internal/auth"
	"github.com/gprf24/pickUpLivery/internal/pharmacies"
	"github.com/gprf24/pickUpLivery/internal/pickups"
	"github.com/gprf24/pickUpLivery/internal/regions"
	"github.com/gprf24/pickUpLivery/internal/settings"
	"github.com/gprf24/pickUpLivery/internal/users"
	"github.com/gprf24/pickUpLivery/pkg/config"
	"github.com/gprf24/pickUpLivery/pkg/db"
	"github.com/gprf24/pickUpLivery/pkg/enums"
	"github.com/gprf24/pickUpLivery/pkg/logger"
	"github.com/gprf24/pickUpLivery/pkg/redis"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Auth       authsvc.Service
	Pickups    pickups.Service
	Pharmacies pharmacies.Service
	Regions    regions.Service
	Users      users.Service
	Settings   settings.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	accounts middleware.AccountChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUserLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, accounts, logg))

		r.Route("/pickups", func(r chi.Router) {
			r.With(middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleDriver)).
				Post("/", controllers.PickupSubmit(svcs.Pickups, cfg.Pickup, logg))
			r.Get("/history", controllers.PickupHistory(svcs.Pickups, logg))
			r.Get("/requirements", controllers.PickupRequirements(svcs.Pickups, logg))
			r.Get("/duplicates", controllers.PickupDuplicatePreview(svcs.Pickups, logg))
			r.Get("/{pickupID}", controllers.PickupGet(svcs.Pickups, logg))
			r.Get("/{pickupID}/photos/{slot}", controllers.PickupPhoto(svcs.Pickups, logg))
		})

		r.Get("/pharmacies/mine", controllers.MyPharmacies(svcs.Pharmacies, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))

			r.Route("/users", func(r chi.Router) {
				r.Post("/", controllers.AdminCreateUser(svcs.Users, logg))
				r.Get("/", controllers.AdminListUsers(svcs.Users, logg))
				r.Get("/{userID}", controllers.AdminGetUser(svcs.Users, logg))
				r.Patch("/{userID}", controllers.AdminUpdateUser(svcs.Users, logg))
			})

			r.Route("/regions", func(r chi.Router) {
				r.Post("/", controllers.AdminCreateRegion(svcs.Regions, logg))
				r.Get("/", controllers.AdminListRegions(svcs.Regions, logg))
				r.Patch("/{regionID}", controllers.AdminUpdateRegion(svcs.Regions, logg))
			})

			r.Route("/pharmacies", func(r chi.Router) {
				r.Post("/", controllers.AdminCreatePharmacy(svcs.Pharmacies, logg))
				r.Get("/", controllers.AdminListPharmacies(svcs.Pharmacies, logg))
				r.Get("/{pharmacyID}", controllers.AdminGetPharmacy(svcs.Pharmacies, logg))
				r.Patch("/{pharmacyID}", controllers.AdminUpdatePharmacy(svcs.Pharmacies, logg))
				r.Put("/{pharmacyID}/schedule", controllers.AdminSetPharmacySchedule(svcs.Pharmacies, logg))
				r.Post("/{pharmacyID}/drivers", controllers.AdminAssignDriver(svcs.Pharmacies, logg))
				r.Delete("/{pharmacyID}/drivers/{userID}", controllers.AdminUnassignDriver(svcs.Pharmacies, logg))
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", controllers.AdminGetSettings(svcs.Settings, logg))
				r.Patch("/", controllers.AdminUpdateSettings(svcs.Settings, logg))
			})

			r.Get("/pickups/duplicates", controllers.AdminPickupDuplicates(svcs.Pickups, logg))
		})
	})

	return r
}
