package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// RegistrationRequest is the portal registration form. Field names follow the
// frontend contract, hence camelCase.
type RegistrationRequest struct {
	NIK         string `json:"nik" validate:"required,nik"`
	Name        string `json:"name" validate:"required,max=255"`
	Gender      string `json:"gender" validate:"required,oneof=Laki-laki Perempuan L P"`
	BirthDate   string `json:"birthDate" validate:"required,datetime=2006-01-02"`
	Address     string `json:"address" validate:"required"`
	Phone       string `json:"phone" validate:"required,max=20"`
	PatientType string `json:"patientType" validate:"omitempty,oneof=baru lama"`
	Polyclinic  string `json:"polyclinic" validate:"required,max=50"`
	Doctor      string `json:"doctor" validate:"required,max=100"`
	VisitDate   string `json:"visitDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Response DTOs

type RegisteredPatient struct {
	ID                  uuid.UUID `json:"id"`
	NIK                 string    `json:"nik"`
	Name                string    `json:"name"`
	Gender              string    `json:"gender"`
	BirthDate           string    `json:"birthDate"`
	Address             string    `json:"address"`
	Phone               string    `json:"phone"`
	MedicalRecordNumber *string   `json:"medicalRecordNumber"`
	PatientType         string    `json:"patientType"`
}

type RegisteredAppointment struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patientId"`
	Polyclinic  string    `json:"polyclinic"`
	Doctor      string    `json:"doctor"`
	VisitDate   string    `json:"visitDate"`
	QueueNumber string    `json:"queueNumber"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type RegistrationResponse struct {
	Success          bool                  `json:"success"`
	Patient          RegisteredPatient     `json:"patient"`
	Appointment      RegisteredAppointment `json:"appointment"`
	QueueNumber      string                `json:"queueNumber"`
	VisitDate        string                `json:"visitDate"`
	Message          string                `json:"message"`
	KhanzaSyncStatus string                `json:"khanzaSyncStatus"`
	SyncMethod       string                `json:"syncMethod"`
}
