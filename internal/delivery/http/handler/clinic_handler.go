package handler

import (
	"net/http"

	"patient-portal/internal/khanza"
	"patient-portal/pkg/response"
)

// ClinicHandler exposes the static clinic table so the portal can build its
// polyclinic picker.
type ClinicHandler struct {
	clinics *khanza.ClinicTable
}

func NewClinicHandler(clinics *khanza.ClinicTable) *ClinicHandler {
	return &ClinicHandler{clinics: clinics}
}

func (h *ClinicHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Clinics retrieved successfully", h.clinics.All())
}
