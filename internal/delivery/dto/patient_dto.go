package dto

import (
	"time"

	"github.com/google/uuid"
)

// PatientResponse represents a patient in admin responses
type PatientResponse struct {
	ID                  uuid.UUID `json:"id"`
	NIK                 string    `json:"nik"`
	Name                string    `json:"name"`
	Gender              string    `json:"gender"`
	BirthDate           string    `json:"birth_date"`
	Address             string    `json:"address,omitempty"`
	Phone               string    `json:"phone,omitempty"`
	MedicalRecordNumber *string   `json:"medical_record_number,omitempty"`
	PatientType         string    `json:"patient_type"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
