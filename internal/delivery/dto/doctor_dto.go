package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	Slug           string `json:"slug" validate:"required,max=100"`
	Name           string `json:"name" validate:"required,min=2"`
	ClinicSlug     string `json:"clinic_slug" validate:"required,max=50"`
	Specialization string `json:"specialization" validate:"required"`
	KhanzaCode     string `json:"khanza_code" validate:"omitempty,max=20"`
	Biography      string `json:"biography" validate:"omitempty"`
}

type UpdateDoctorRequest struct {
	Slug           string `json:"slug" validate:"omitempty,max=100"`
	Name           string `json:"name" validate:"omitempty,min=2"`
	ClinicSlug     string `json:"clinic_slug" validate:"omitempty,max=50"`
	Specialization string `json:"specialization" validate:"omitempty"`
	KhanzaCode     string `json:"khanza_code" validate:"omitempty,max=20"`
	Biography      string `json:"biography" validate:"omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID             uuid.UUID `json:"id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	ClinicSlug     string    `json:"clinic_slug"`
	Specialization string    `json:"specialization"`
	KhanzaCode     string    `json:"khanza_code,omitempty"`
	Biography      string    `json:"biography,omitempty"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
