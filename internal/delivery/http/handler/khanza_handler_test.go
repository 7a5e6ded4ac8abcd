package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/khanza"
	"patient-portal/internal/usecase"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

type stubKhanzaUsecase struct {
	err error
}

func (s stubKhanzaUsecase) DoctorSchedules(context.Context, string) (*dto.KhanzaRowsResponse, error) {
	return &dto.KhanzaRowsResponse{Rows: []map[string]any{}}, s.err
}

func (s stubKhanzaUsecase) PatientVisits(context.Context, string, int) (*dto.KhanzaRowsResponse, error) {
	return &dto.KhanzaRowsResponse{Rows: []map[string]any{}}, s.err
}

func (s stubKhanzaUsecase) Patient(context.Context, string) (map[string]any, error) {
	return map[string]any{"name": "Budi"}, s.err
}

func (s stubKhanzaUsecase) Inventory(context.Context, string, int) (*dto.KhanzaRowsResponse, error) {
	return &dto.KhanzaRowsResponse{Rows: []map[string]any{}}, s.err
}

func (s stubKhanzaUsecase) VisitSummary(_ context.Context, noRawat string) (*khanza.VisitSummary, error) {
	return &khanza.VisitSummary{RegistrationNumber: noRawat}, s.err
}

func TestKhanzaHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, http.StatusOK},
		{"not configured", usecase.ErrKhanzaNotConfigured, http.StatusServiceUnavailable},
		{"unreachable", fmt.Errorf("query: %w", khanza.ErrConnection), http.StatusServiceUnavailable},
		{"timeout", khanza.ErrTimeout, http.StatusServiceUnavailable},
		{"not found", usecase.ErrKhanzaPatientNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewKhanzaHandler(stubKhanzaUsecase{err: tt.err})

			req := httptest.NewRequest(http.MethodGet, "/khanza/patients/000042", nil)
			req = mux.SetURLVars(req, map[string]string{"mrn": "000042"})
			rec := httptest.NewRecorder()
			h.GetPatient(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestKhanzaHandler_VisitSummaryRequiresNoRawat(t *testing.T) {
	h := NewKhanzaHandler(stubKhanzaUsecase{})

	rec := httptest.NewRecorder()
	h.GetVisitSummary(rec, httptest.NewRequest(http.MethodGet, "/khanza/visits/summary", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.GetVisitSummary(rec, httptest.NewRequest(http.MethodGet, "/khanza/visits/summary?no_rawat=2026/10/16/000001", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2026/10/16/000001")
}
