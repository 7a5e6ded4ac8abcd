package repository

import (
	"errors"

	"patient-portal/internal/domain/entity"
	domainRepo "patient-portal/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

// Create inserts a patient. A concurrent insert of the same NIK surfaces as
// ErrDuplicateNationalID from the unique index; nothing is locked beforehand.
func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	if err := db.Create(patient).Error; err != nil {
		if isDuplicateKeyError(err, "nik") {
			return ErrDuplicateNationalID
		}
		return err
	}
	return nil
}

func (r *patientRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByNIK(db *gorm.DB, nik string) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("nik = ?", nik).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

// AttachMedicalRecordNumber links a patient to Khanza. An existing number is
// never overwritten.
func (r *patientRepository) AttachMedicalRecordNumber(db *gorm.DB, id uuid.UUID, medicalRecordNumber string) error {
	return db.Model(&entity.Patient{}).
		Where("id = ? AND (medical_record_number IS NULL OR medical_record_number = '')", id).
		Update("medical_record_number", medicalRecordNumber).Error
}
