package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the status of an appointment. Staff overwrite
// it directly; there is no transition guard.
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusInProgress AppointmentStatus = "in-progress"
	AppointmentStatusArrived    AppointmentStatus = "arrived"
)

// SyncStatus records whether Khanza accepted the registration.
type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusFailed  SyncStatus = "failed"
)

// Appointment is a registered visit. QueueNumber comes from Khanza when it was
// reachable, otherwise from the local counter.
type Appointment struct {
	ID                       uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID                uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	ClinicSlug               string            `gorm:"type:varchar(50);not null;index" json:"clinic_slug"`
	DoctorSlug               string            `gorm:"type:varchar(100);not null" json:"doctor_slug"`
	VisitDate                time.Time         `gorm:"type:date;not null;index" json:"visit_date"`
	QueueNumber              string            `gorm:"type:varchar(20);not null" json:"queue_number"`
	Status                   AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	KhanzaSyncStatus         SyncStatus        `gorm:"type:varchar(10);not null" json:"khanza_sync_status"`
	SyncMethod               string            `gorm:"type:varchar(10);not null" json:"sync_method"`
	KhanzaRegistrationNumber *string           `gorm:"type:varchar(20)" json:"khanza_registration_number,omitempty"`
	CreatedAt                time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsSynced checks if Khanza issued the queue number
func (a *Appointment) IsSynced() bool {
	return a.KhanzaSyncStatus == SyncStatusSuccess
}

// ValidAppointmentStatus reports whether s is one of the known statuses.
func ValidAppointmentStatus(s string) bool {
	switch AppointmentStatus(s) {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusInProgress, AppointmentStatusArrived:
		return true
	}
	return false
}

// AppointmentFilter narrows admin appointment listings.
type AppointmentFilter struct {
	ClinicSlug string
	VisitDate  *time.Time
	Status     string
}
