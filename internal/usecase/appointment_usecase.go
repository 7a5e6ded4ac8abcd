package usecase

import (
	"context"
	"errors"
	"time"

	"patient-portal/internal/converter"
	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/delivery/http/middleware"
	"patient-portal/internal/domain/entity"
	"patient-portal/internal/domain/repository"
	"patient-portal/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrInvalidStatus       = errors.New("invalid appointment status")
)

// AppointmentQuery carries the admin listing filters as received from the client
type AppointmentQuery struct {
	ClinicSlug string
	VisitDate  string
	Status     string
	Page       int
	Limit      int
}

type AppointmentUsecase interface {
	GetAll(ctx context.Context, query AppointmentQuery) ([]dto.AppointmentResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	GetByPatientNIK(ctx context.Context, nik string) (*dto.PatientAppointmentsResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

func (u *appointmentUsecase) GetAll(ctx context.Context, query AppointmentQuery) ([]dto.AppointmentResponse, int64, error) {
	filter := entity.AppointmentFilter{
		ClinicSlug: query.ClinicSlug,
		Status:     query.Status,
	}
	if query.VisitDate != "" {
		visitDate, err := time.Parse(dateLayout, query.VisitDate)
		if err != nil {
			return nil, 0, ErrInvalidVisitDate
		}
		filter.VisitDate = &visitDate
	}
	if query.Status != "" && !entity.ValidAppointmentStatus(query.Status) {
		return nil, 0, ErrInvalidStatus
	}

	_, limit, offset := paginate(query.Page, query.Limit)
	appointments, total, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), filter, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, 0, err
	}

	return converter.AppointmentsToResponses(appointments), total, nil
}

func (u *appointmentUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetByPatientNIK(ctx context.Context, nik string) (*dto.PatientAppointmentsResponse, error) {
	db := u.db.WithContext(ctx)

	patient, err := u.patientRepo.FindByNIK(db, nik)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	appointments, err := u.appointmentRepo.FindByPatientID(db, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to find patient appointments: %+v", err)
		return nil, err
	}

	return &dto.PatientAppointmentsResponse{
		Patient:      *converter.PatientToResponse(patient),
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// UpdateStatus overwrites the status; any known status may follow any other.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	if !entity.ValidAppointmentStatus(req.Status) {
		return nil, ErrInvalidStatus
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	oldStatus := appointment.Status
	newStatus := entity.AppointmentStatus(req.Status)

	rowsAffected, err := u.appointmentRepo.UpdateStatus(tx, id, newStatus)
	if err != nil {
		u.log.Warnf("Failed to update appointment status: %+v", err)
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrAppointmentNotFound
	}
	appointment.Status = newStatus

	actor, _ := middleware.GetActorFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionAppointmentStatus, "appointment", id.String(),
		map[string]string{"status": string(oldStatus)}, map[string]string{"status": string(newStatus)}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}
