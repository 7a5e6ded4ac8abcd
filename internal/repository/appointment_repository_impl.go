package repository

import (
	"errors"
	"time"

	"patient-portal/internal/domain/entity"
	domainRepo "patient-portal/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Patient").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB, filter entity.AppointmentFilter, limit, offset int) ([]entity.Appointment, int64, error) {
	var appointments []entity.Appointment
	var total int64

	query := db.Model(&entity.Appointment{})
	if filter.ClinicSlug != "" {
		query = query.Where("clinic_slug = ?", filter.ClinicSlug)
	}
	if filter.VisitDate != nil {
		day := *filter.VisitDate
		query = query.Where("visit_date >= ? AND visit_date < ?", day, day.AddDate(0, 0, 1))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Patient").
		Order("visit_date DESC, created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&appointments).Error
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("patient_id = ?", patientID).
		Order("visit_date DESC, created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// UpdateStatus overwrites the status. Returns affected rows: 0 = not found.
func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}

// FindQueueNumbers lists every ticket issued for a clinic on one visit day,
// cancelled ones included, since their numbers stay taken.
func (r *appointmentRepository) FindQueueNumbers(db *gorm.DB, clinicSlug string, visitDate time.Time) ([]string, error) {
	var numbers []string
	err := db.Model(&entity.Appointment{}).
		Where("clinic_slug = ? AND visit_date >= ? AND visit_date < ?", clinicSlug, visitDate, visitDate.AddDate(0, 0, 1)).
		Pluck("queue_number", &numbers).Error
	if err != nil {
		return nil, err
	}
	return numbers, nil
}
