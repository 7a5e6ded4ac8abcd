package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed completed cancelled in-progress arrived"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                       uuid.UUID        `json:"id"`
	PatientID                uuid.UUID        `json:"patient_id"`
	Patient                  *PatientResponse `json:"patient,omitempty"`
	ClinicSlug               string           `json:"clinic_slug"`
	DoctorSlug               string           `json:"doctor_slug"`
	VisitDate                string           `json:"visit_date"`
	QueueNumber              string           `json:"queue_number"`
	Status                   string           `json:"status"`
	KhanzaSyncStatus         string           `json:"khanza_sync_status"`
	SyncMethod               string           `json:"sync_method"`
	KhanzaRegistrationNumber *string          `json:"khanza_registration_number,omitempty"`
	CreatedAt                time.Time        `json:"created_at"`
	UpdatedAt                time.Time        `json:"updated_at"`
}

type PatientAppointmentsResponse struct {
	Patient      PatientResponse       `json:"patient"`
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
