package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gprf24/pickUpLivery/api/middleware"
	"github.com/gprf24/pickUpLivery/internal/pickups"
	"github.com/gprf24/pickUpLivery/pkg/config"
	"github.com/gprf24/pickUpLivery/pkg/db/models"
	"github.com/gprf24/pickUpLivery/pkg/enums"
	pkgerrors "github.com/gprf24/pickUpLivery/pkg/errors"
)

type stubPickupService struct {
	submitFn func(ctx context.Context, input pickups.SubmitInput) (*pickups.SubmitResult, error)
}

func (s stubPickupService) Submit(ctx context.Context, input pickups.SubmitInput) (*pickups.SubmitResult, error) {
	return s.submitFn(ctx, input)
}

func (s stubPickupService) RequiresLocation(ctx context.Context, userID uuid.UUID) (bool, error) {
	return false, nil
}

func (s stubPickupService) GetPickup(ctx context.Context, actor pickups.Actor, id uuid.UUID) (*models.Pickup, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pickup not found")
}

func (s stubPickupService) GetPhoto(ctx context.Context, actor pickups.Actor, pickupID uuid.UUID, slot int) (*models.PickupPhoto, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "photo not found")
}

func (s stubPickupService) History(ctx context.Context, actor pickups.Actor, filters pickups.HistoryFilters) (*pickups.HistoryResult, error) {
	return &pickups.HistoryResult{}, nil
}

func (s stubPickupService) DuplicatePreview(ctx context.Context, actor pickups.Actor, pharmacyID uuid.UUID) ([]pickups.DuplicateCandidate, error) {
	return nil, nil
}

func (s stubPickupService) DuplicateReport(ctx context.Context, actor pickups.Actor, dayUTC time.Time) ([]pickups.DuplicateGroup, error) {
	return nil, nil
}

func testPickupConfig() config.PickupConfig {
	return config.PickupConfig{MaxUploadMB: 20}
}

func authedContext(ctx context.Context, userID uuid.UUID, role enums.UserRole) context.Context {
	ctx = middleware.WithUserID(ctx, userID.String())
	return middleware.WithRole(ctx, string(role))
}

type multipartField struct {
	name  string
	value string
}

type multipartFile struct {
	field string
	name  string
	data  []byte
}

func buildMultipart(t *testing.T, fields []multipartField, files []multipartFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			t.Fatalf("write field %s: %v", f.name, err)
		}
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("create file %s: %v", f.field, err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("write file %s: %v", f.field, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestPickupSubmitSuccess(t *testing.T) {
	userID := uuid.New()
	pharmacyID := uuid.New()
	created := time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC)

	var captured pickups.SubmitInput
	svc := stubPickupService{submitFn: func(ctx context.Context, input pickups.SubmitInput) (*pickups.SubmitResult, error) {
		captured = input
		return &pickups.SubmitResult{
			Pickup: &models.Pickup{
				ID:         uuid.New(),
				PharmacyID: input.PharmacyID,
				CreatedAt:  created,
			},
			TimingStatus: enums.TimingStatusOnTime,
			PhotosSaved:  1,
		}, nil
	}}

	body, contentType := buildMultipart(t,
		[]multipartField{
			{name: "pharmacy_id", value: pharmacyID.String()},
			{name: "lat", value: "52.52"},
			{name: "lon", value: "13.405"},
			{name: "comment", value: "left at counter"},
		},
		[]multipartFile{{field: "photo1", name: "proof.jpg", data: []byte("jpegbytes")}},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pickups", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(authedContext(req.Context(), userID, enums.UserRoleDriver))
	rec := httptest.NewRecorder()

	PickupSubmit(svc, testPickupConfig(), nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Actor.UserID != userID {
		t.Fatalf("expected actor %s got %s", userID, captured.Actor.UserID)
	}
	if captured.PharmacyID != pharmacyID {
		t.Fatalf("expected pharmacy %s got %s", pharmacyID, captured.PharmacyID)
	}
	if captured.Latitude == nil || *captured.Latitude != 52.52 {
		t.Fatalf("expected latitude 52.52 got %v", captured.Latitude)
	}
	if captured.Longitude == nil || *captured.Longitude != 13.405 {
		t.Fatalf("expected longitude 13.405 got %v", captured.Longitude)
	}
	if captured.Comment == nil || *captured.Comment != "left at counter" {
		t.Fatalf("expected comment got %v", captured.Comment)
	}
	if len(captured.Photos) != 1 || captured.Photos[0].Slot != 1 {
		t.Fatalf("expected one photo in slot 1 got %+v", captured.Photos)
	}
	if string(captured.Photos[0].Bytes) != "jpegbytes" {
		t.Fatalf("unexpected photo bytes %q", captured.Photos[0].Bytes)
	}

	var envelope struct {
		Data struct {
			PharmacyID   uuid.UUID `json:"pharmacy_id"`
			TimingStatus string    `json:"timing_status"`
			PhotosSaved  int       `json:"photos_saved"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.PharmacyID != pharmacyID {
		t.Fatalf("expected pharmacy %s got %s", pharmacyID, envelope.Data.PharmacyID)
	}
	if envelope.Data.TimingStatus != string(enums.TimingStatusOnTime) {
		t.Fatalf("expected on_time got %s", envelope.Data.TimingStatus)
	}
	if envelope.Data.PhotosSaved != 1 {
		t.Fatalf("expected 1 photo saved got %d", envelope.Data.PhotosSaved)
	}
}

func TestPickupSubmitJunkCoordinatesBecomeNil(t *testing.T) {
	var captured pickups.SubmitInput
	svc := stubPickupService{submitFn: func(ctx context.Context, input pickups.SubmitInput) (*pickups.SubmitResult, error) {
		captured = input
		return &pickups.SubmitResult{
			Pickup:       &models.Pickup{ID: uuid.New(), PharmacyID: input.PharmacyID},
			TimingStatus: enums.TimingStatusNoCutoff,
			PhotosSaved:  1,
		}, nil
	}}

	body, contentType := buildMultipart(t,
		[]multipartField{
			{name: "pharmacy_id", value: uuid.NewString()},
			{name: "lat", value: "undefined"},
			{name: "lon", value: "not-a-number"},
		},
		[]multipartFile{{field: "photo1", name: "proof.jpg", data: []byte("jpegbytes")}},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pickups", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(authedContext(req.Context(), uuid.New(), enums.UserRoleDriver))
	rec := httptest.NewRecorder()

	PickupSubmit(svc, testPickupConfig(), nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Latitude != nil || captured.Longitude != nil {
		t.Fatalf("expected nil coordinates got %v %v", captured.Latitude, captured.Longitude)
	}
}

func TestPickupSubmitInvalidPharmacyID(t *testing.T) {
	svc := stubPickupService{submitFn: func(ctx context.Context, input pickups.SubmitInput) (*pickups.SubmitResult, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}

	body, contentType := buildMultipart(t,
		[]multipartField{{name: "pharmacy_id", value: "not-a-uuid"}},
		nil,
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pickups", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(authedContext(req.Context(), uuid.New(), enums.UserRoleDriver))
	rec := httptest.NewRecorder()

	PickupSubmit(svc, testPickupConfig(), nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	assertErrorCode(t, rec, pkgerrors.CodeValidation)
}

func TestPickupSubmitMissingCredentials(t *testing.T) {
	svc := stubPickupService{submitFn: func(ctx context.Context, input pickups.SubmitInput) (*pickups.SubmitResult, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}

	body, contentType := buildMultipart(t,
		[]multipartField{{name: "pharmacy_id", value: uuid.NewString()}},
		nil,
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pickups", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	PickupSubmit(svc, testPickupConfig(), nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestPickupSubmitErrorCodeMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   pkgerrors.Code
	}{
		{"forbidden", pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled"), http.StatusForbidden, pkgerrors.CodeForbidden},
		{"not found", pkgerrors.New(pkgerrors.CodeNotFound, "pharmacy not found"), http.StatusNotFound, pkgerrors.CodeNotFound},
		{"quota", pkgerrors.New(pkgerrors.CodeQuotaExceeded, "daily pickup quota reached"), http.StatusTooManyRequests, pkgerrors.CodeQuotaExceeded},
		{"validation", pkgerrors.New(pkgerrors.CodeValidation, "need at least 1 photo(s), got 0"), http.StatusBadRequest, pkgerrors.CodeValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := stubPickupService{submitFn: func(ctx context.Context, input pickups.SubmitInput) (*pickups.SubmitResult, error) {
				return nil, tc.err
			}}

			body, contentType := buildMultipart(t,
				[]multipartField{{name: "pharmacy_id", value: uuid.NewString()}},
				nil,
			)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/pickups", body)
			req.Header.Set("Content-Type", contentType)
			req = req.WithContext(authedContext(req.Context(), uuid.New(), enums.UserRoleDriver))
			rec := httptest.NewRecorder()

			PickupSubmit(svc, testPickupConfig(), nil).ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected %d got %d", tc.status, rec.Code)
			}
			assertErrorCode(t, rec, tc.code)
		})
	}
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, code pkgerrors.Code) {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if payload.Error.Code != string(code) {
		t.Fatalf("expected code %s got %s", code, payload.Error.Code)
	}
}
