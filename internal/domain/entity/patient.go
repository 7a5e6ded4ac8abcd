package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PatientType is the caller-declared registration type.
type PatientType string

const (
	PatientTypeNew       PatientType = "baru"
	PatientTypeReturning PatientType = "lama"
)

// Patient is a portal patient, matched by NIK. MedicalRecordNumber is filled in
// once Khanza has issued one. Patients are only ever soft-deleted.
type Patient struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	NIK                 string         `gorm:"type:char(16);not null;uniqueIndex:idx_patients_nik,where:deleted_at IS NULL" json:"nik"`
	Name                string         `gorm:"type:varchar(255);not null" json:"name"`
	Gender              string         `gorm:"type:varchar(20);not null" json:"gender"`
	BirthDate           time.Time      `gorm:"type:date;not null" json:"birth_date"`
	Address             string         `gorm:"type:text" json:"address"`
	Phone               string         `gorm:"type:varchar(20);index" json:"phone"`
	MedicalRecordNumber *string        `gorm:"type:varchar(15);index" json:"medical_record_number,omitempty"`
	PatientType         PatientType    `gorm:"type:varchar(10);not null" json:"patient_type"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// HasMedicalRecord reports whether Khanza has linked this patient.
func (p *Patient) HasMedicalRecord() bool {
	return p.MedicalRecordNumber != nil && *p.MedicalRecordNumber != ""
}
