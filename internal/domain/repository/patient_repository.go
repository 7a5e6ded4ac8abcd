package repository

import (
	"patient-portal/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	FindByNIK(db *gorm.DB, nik string) (*entity.Patient, error)
	AttachMedicalRecordNumber(db *gorm.DB, id uuid.UUID, medicalRecordNumber string) error
}
