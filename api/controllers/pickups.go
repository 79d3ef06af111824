package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gprf24/pickUpLivery/api/middleware"
	"github.com/gprf24/pickUpLivery/api/responses"
	"github.com/gprf24/pickUpLivery/api/validators"
	"github.com/gprf24/pickUpLivery/internal/pickups"
	"github.com/gprf24/pickUpLivery/pkg/config"
	"github.com/gprf24/pickUpLivery/pkg/enums"
	pkgerrors "github.com/gprf24/pickUpLivery/pkg/errors"
	"github.com/gprf24/pickUpLivery/pkg/logger"
)

// photoFieldNames maps multipart field names onto photo slots.
var photoFieldNames = map[string]int{
	"photo1": 1,
	"photo2": 2,
	"photo3": 3,
	"photo4": 4,
}

type pickupResponse struct {
	ID           uuid.UUID          `json:"id"`
	PharmacyID   uuid.UUID          `json:"pharmacy_id"`
	TimingStatus enums.TimingStatus `json:"timing_status"`
	CutoffAtUTC  *time.Time         `json:"cutoff_at_utc,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	PhotosSaved  int                `json:"photos_saved"`
}

func actorFromRequest(r *http.Request) (pickups.Actor, error) {
	id, role, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return pickups.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return pickups.Actor{UserID: id, Role: role}, nil
}

// PickupSubmit records a pickup from a multipart form carrying the
// pharmacy id, optional GPS coordinates, an optional comment and up to
// four photos in fields photo1 through photo4.
func PickupSubmit(svc pickups.Service, cfg config.PickupConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		maxBytes := int64(cfg.MaxUploadMB) << 20
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		pharmacyID, err := uuid.Parse(r.FormValue("pharmacy_id"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy_id must be a valid uuid"))
			return
		}

		input := pickups.SubmitInput{
			Actor:      actor,
			PharmacyID: pharmacyID,
			Latitude:   validators.ParseOptionalFloat(r.FormValue("lat")),
			Longitude:  validators.ParseOptionalFloat(r.FormValue("lon")),
			Comment:    validators.ParseOptionalString(r.FormValue("comment")),
		}

		for field, slot := range photoFieldNames {
			file, header, err := r.FormFile(field)
			if err == http.ErrMissingFile {
				continue
			}
			if err != nil {
				continue
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err,
					fmt.Sprintf("reading %s", field)))
				return
			}
			contentType := header.Header.Get("Content-Type")
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			input.Photos = append(input.Photos, pickups.PhotoUpload{
				Slot:        slot,
				Bytes:       data,
				ContentType: contentType,
				FileName:    header.Filename,
			})
		}

		result, err := svc.Submit(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, pickupResponse{
			ID:           result.Pickup.ID,
			PharmacyID:   result.Pickup.PharmacyID,
			TimingStatus: result.TimingStatus,
			CutoffAtUTC:  result.CutoffAtUTC,
			CreatedAt:    result.Pickup.CreatedAt,
			PhotosSaved:  result.PhotosSaved,
		})
	}
}

// PickupGet returns a single pickup with photo metadata.
func PickupGet(svc pickups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "pickupID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "pickup id must be a valid uuid"))
			return
		}

		pickup, err := svc.GetPickup(ctx, actor, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, pickup)
	}
}

// PickupPhoto streams one stored proof photo.
func PickupPhoto(svc pickups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "pickupID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "pickup id must be a valid uuid"))
			return
		}
		slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slot must be a number"))
			return
		}

		photo, err := svc.GetPhoto(ctx, actor, id, slot)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		w.Header().Set("Content-Type", photo.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(photo.ImageBytes)))
		w.Header().Set("Cache-Control", "private, max-age=86400")
		w.WriteHeader(http.StatusOK)
		w.Write(photo.ImageBytes)
	}
}

// PickupHistory lists the caller's pickups grouped by day. Admin and
// history accounts can widen the query with filters; drivers are
// always scoped to themselves.
func PickupHistory(svc pickups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		filters, err := historyFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.History(ctx, actor, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// PickupDuplicatePreview lists the caller's recent pickups at a
// pharmacy so the client can warn before a repeated submission.
func PickupDuplicatePreview(svc pickups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pharmacyID, err := uuid.Parse(r.URL.Query().Get("pharmacy_id"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy_id must be a valid uuid"))
			return
		}

		candidates, err := svc.DuplicatePreview(ctx, actor, pharmacyID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"candidates": candidates})
	}
}

// AdminPickupDuplicates reports driver+pharmacy pairs that logged more
// than one pickup on the given UTC day (today when date is omitted).
func AdminPickupDuplicates(svc pickups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		day := time.Now().UTC()
		if raw := r.URL.Query().Get("date"); raw != "" {
			day, err = parseDateOrTime(raw, false)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}

		groups, err := svc.DuplicateReport(ctx, actor, day)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"day":    day.Format("2006-01-02"),
			"groups": groups,
		})
	}
}

// PickupRequirements tells the client whether GPS coordinates are
// mandatory for the calling driver.
func PickupRequirements(svc pickups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		required, err := svc.RequiresLocation(ctx, actor.UserID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"require_location": required})
	}
}

func historyFiltersFromQuery(r *http.Request) (pickups.HistoryFilters, error) {
	q := r.URL.Query()
	filters := pickups.HistoryFilters{}

	if raw := q.Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "user_id must be a valid uuid")
		}
		filters.UserID = &id
	}
	if raw := q.Get("pharmacy_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy_id must be a valid uuid")
		}
		filters.PharmacyID = &id
	}
	if raw := q.Get("region_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "region_id must be a valid uuid")
		}
		filters.RegionID = &id
	}
	if raw := q.Get("from"); raw != "" {
		ts, err := parseDateOrTime(raw, false)
		if err != nil {
			return filters, err
		}
		filters.From = &ts
	}
	if raw := q.Get("to"); raw != "" {
		ts, err := parseDateOrTime(raw, true)
		if err != nil {
			return filters, err
		}
		filters.To = &ts
	}
	if raw := q.Get("timing_status"); raw != "" {
		status, err := enums.ParseTimingStatus(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "unknown timing_status")
		}
		filters.TimingStatus = &status
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a non-negative number")
		}
		filters.Limit = limit
	}
	return filters, nil
}

// parseDateOrTime accepts RFC 3339 timestamps or bare dates. A bare
// "to" date is widened to the end of that UTC day.
func parseDateOrTime(raw string, endOfDay bool) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid date %q, expected YYYY-MM-DD or RFC 3339", raw))
	}
	if endOfDay {
		return day.Add(24*time.Hour - time.Nanosecond).UTC(), nil
	}
	return day.UTC(), nil
}
