package repository

import (
	"errors"

	"patient-portal/internal/domain/entity"
	domainRepo "patient-portal/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	if err := db.Create(doctor).Error; err != nil {
		if isDuplicateKeyError(err, "slug") {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (r *doctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindBySlug(db *gorm.DB, slug string) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Where("slug = ?", slug).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(db *gorm.DB, clinicSlug string) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	query := db.Order("name ASC")
	if clinicSlug != "" {
		query = query.Where("clinic_slug = ?", clinicSlug)
	}
	if err := query.Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	if err := db.Save(doctor).Error; err != nil {
		if isDuplicateKeyError(err, "slug") {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

// Delete soft-deletes the doctor; registrations keep referring to the slug.
func (r *doctorRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.Doctor{}).Error
}
