package handler

import (
	"errors"
	"net/http"
	"strconv"

	"patient-portal/internal/khanza"
	"patient-portal/internal/usecase"
	"patient-portal/pkg/response"

	"github.com/gorilla/mux"
)

type KhanzaHandler struct {
	khanzaUsecase usecase.KhanzaUsecase
}

func NewKhanzaHandler(khanzaUsecase usecase.KhanzaUsecase) *KhanzaHandler {
	return &KhanzaHandler{
		khanzaUsecase: khanzaUsecase,
	}
}

func (h *KhanzaHandler) GetDoctorSchedules(w http.ResponseWriter, r *http.Request) {
	rows, err := h.khanzaUsecase.DoctorSchedules(r.Context(), r.URL.Query().Get("clinic"))
	if err != nil {
		writeKhanzaError(w, err, "Failed to get doctor schedules")
		return
	}

	response.Success(w, http.StatusOK, "Doctor schedules retrieved successfully", rows)
}

func (h *KhanzaHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	patient, err := h.khanzaUsecase.Patient(r.Context(), vars["mrn"])
	if err != nil {
		writeKhanzaError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *KhanzaHandler) GetPatientVisits(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, err := h.khanzaUsecase.PatientVisits(r.Context(), vars["mrn"], limit)
	if err != nil {
		writeKhanzaError(w, err, "Failed to get patient visits")
		return
	}

	response.Success(w, http.StatusOK, "Patient visits retrieved successfully", rows)
}

// GetVisitSummary takes no_rawat as a query parameter since it contains slashes
func (h *KhanzaHandler) GetVisitSummary(w http.ResponseWriter, r *http.Request) {
	registrationNumber := r.URL.Query().Get("no_rawat")
	if registrationNumber == "" {
		response.Error(w, http.StatusBadRequest, "no_rawat is required", nil)
		return
	}

	summary, err := h.khanzaUsecase.VisitSummary(r.Context(), registrationNumber)
	if err != nil {
		writeKhanzaError(w, err, "Failed to get visit summary")
		return
	}

	response.Success(w, http.StatusOK, "Visit summary retrieved successfully", summary)
}

func (h *KhanzaHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, err := h.khanzaUsecase.Inventory(r.Context(), r.URL.Query().Get("location"), limit)
	if err != nil {
		writeKhanzaError(w, err, "Failed to get inventory")
		return
	}

	response.Success(w, http.StatusOK, "Inventory retrieved successfully", rows)
}

func writeKhanzaError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrKhanzaNotConfigured):
		response.ServiceUnavailable(w, "Khanza database integration is not configured")
	case errors.Is(err, usecase.ErrKhanzaPatientNotFound):
		response.NotFound(w, "Patient not found in Khanza")
	case errors.Is(err, khanza.ErrConnection), errors.Is(err, khanza.ErrTimeout):
		response.ServiceUnavailable(w, "Khanza is unavailable")
	default:
		response.InternalServerError(w, fallback)
	}
}
