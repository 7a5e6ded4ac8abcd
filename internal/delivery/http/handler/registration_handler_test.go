package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/usecase"
	"patient-portal/pkg/validator"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRegistrationUsecase struct {
	calls  int
	result *dto.RegistrationResponse
	err    error
}

func (s *stubRegistrationUsecase) Register(context.Context, *dto.RegistrationRequest) (*dto.RegistrationResponse, error) {
	s.calls++
	return s.result, s.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

const budiBody = `{"nik":"1234567890123456","name":"Budi","gender":"Laki-laki","birthDate":"1990-01-01","address":"Jl. A","phone":"0811","patientType":"baru","polyclinic":"anak","doctor":"dr-budi-h"}`

func postRegistration(h *RegistrationHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/registration", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Register(rec, req)
	return rec
}

func TestRegistrationHandler_Success(t *testing.T) {
	uc := &stubRegistrationUsecase{result: &dto.RegistrationResponse{
		Success:          true,
		QueueNumber:      "AK-001",
		VisitDate:        "2026-10-15",
		Message:          "Registration saved; hospital system sync pending, please confirm at the front desk",
		KhanzaSyncStatus: "failed",
		SyncMethod:       "none",
	}}
	h := NewRegistrationHandler(uc, validator.NewValidator(), quietLogger())

	rec := postRegistration(h, budiBody)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "AK-001", body["queueNumber"])
	assert.Equal(t, "failed", body["khanzaSyncStatus"])
	assert.Equal(t, "none", body["syncMethod"])
	assert.NotContains(t, body, "data")
}

func TestRegistrationHandler_ValidationRejectsBeforeUsecase(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing phone", strings.Replace(budiBody, `"phone":"0811",`, "", 1), "phone"},
		{"short nik", strings.Replace(budiBody, `"1234567890123456"`, `"12345"`, 1), "nik"},
		{"letters in nik", strings.Replace(budiBody, `"1234567890123456"`, `"12345678901234AB"`, 1), "nik"},
		{"unknown gender", strings.Replace(budiBody, `"Laki-laki"`, `"X"`, 1), "gender"},
		{"unknown patient type", strings.Replace(budiBody, `"baru"`, `"vip"`, 1), "patientType"},
		{"malformed birth date", strings.Replace(budiBody, `"1990-01-01"`, `"01/01/1990"`, 1), "birthDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubRegistrationUsecase{}
			h := NewRegistrationHandler(uc, validator.NewValidator(), quietLogger())

			rec := postRegistration(h, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, uc.calls)

			var body struct {
				Success bool              `json:"success"`
				Error   map[string]string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Contains(t, body.Error, tt.field)
		})
	}
}

func TestRegistrationHandler_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate", usecase.ErrDuplicateRegistration, http.StatusConflict},
		{"past visit date", usecase.ErrVisitDatePast, http.StatusBadRequest},
		{"store down", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRegistrationHandler(&stubRegistrationUsecase{err: tt.err}, validator.NewValidator(), quietLogger())
			rec := postRegistration(h, budiBody)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRegistrationHandler_MalformedJSON(t *testing.T) {
	uc := &stubRegistrationUsecase{}
	h := NewRegistrationHandler(uc, validator.NewValidator(), quietLogger())

	rec := postRegistration(h, `{"nik":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, uc.calls)
}
