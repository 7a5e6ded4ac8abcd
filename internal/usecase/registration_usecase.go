package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"patient-portal/internal/converter"
	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/domain/entity"
	"patient-portal/internal/domain/repository"
	"patient-portal/internal/khanza"
	repoImpl "patient-portal/internal/repository"
	"patient-portal/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDuplicateRegistration = errors.New("a patient with this NIK is already registered, use patient type lama")
	ErrInvalidBirthDate      = errors.New("birthDate must be a date in YYYY-MM-DD format")
	ErrInvalidVisitDate      = errors.New("visitDate must be a date in YYYY-MM-DD format")
	ErrVisitDatePast         = errors.New("visitDate cannot be in the past")
)

const dateLayout = "2006-01-02"

const (
	registrationSyncedMessage    = "Registration successful"
	registrationLocalOnlyMessage = "Registration saved; hospital system sync pending, please confirm at the front desk"
)

type RegistrationUsecase interface {
	Register(ctx context.Context, req *dto.RegistrationRequest) (*dto.RegistrationResponse, error)
}

type registrationUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	auditService    service.AuditService
	registrar       khanza.Registrar
	queue           service.QueueGenerator
	clinics         *khanza.ClinicTable
	location        *time.Location
	now             func() time.Time
}

func NewRegistrationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
	registrar khanza.Registrar,
	queue service.QueueGenerator,
	clinics *khanza.ClinicTable,
	location *time.Location,
) RegistrationUsecase {
	if location == nil {
		location = time.UTC
	}
	return &registrationUsecase{
		db:              db,
		log:             log,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		auditService:    auditService,
		registrar:       registrar,
		queue:           queue,
		clinics:         clinics,
		location:        location,
		now:             time.Now,
	}
}

// Register runs a single reconciliation pass: queue number, best-effort Khanza
// registration, then one local transaction for patient and appointment.
// Khanza failures never fail the request; any local failure leaves nothing
// behind, so the same request can simply be retried.
func (u *registrationUsecase) Register(ctx context.Context, req *dto.RegistrationRequest) (*dto.RegistrationResponse, error) {
	birthDate, err := time.Parse(dateLayout, req.BirthDate)
	if err != nil {
		return nil, ErrInvalidBirthDate
	}
	visitDate, err := u.resolveVisitDate(req.VisitDate)
	if err != nil {
		return nil, err
	}
	patientType := entity.PatientType(req.PatientType)
	if patientType == "" {
		patientType = entity.PatientTypeNew
	}

	existing, err := u.patientRepo.FindByNIK(u.db.WithContext(ctx), req.NIK)
	if err != nil {
		u.log.Errorf("Failed to find patient by NIK: %+v", err)
		return nil, err
	}
	if existing != nil && patientType == entity.PatientTypeNew {
		return nil, ErrDuplicateRegistration
	}

	// Drawn before Khanza is contacted, so a counter outage does not leave a
	// reg_periksa row behind there. The local counter always advances.
	localQueueNumber, err := u.queue.Next(ctx, req.Polyclinic, visitDate)
	if err != nil {
		u.log.Errorf("Failed to draw local queue number for %s: %+v", req.Polyclinic, err)
		return nil, fmt.Errorf("draw queue number: %w", err)
	}

	visit := khanza.VisitContext{
		ClinicSlug: req.Polyclinic,
		ClinicCode: u.clinics.KhanzaCode(req.Polyclinic),
		DoctorCode: u.resolveDoctorCode(ctx, req.Doctor),
		VisitDate:  visitDate,
	}
	result := u.registrar.Register(ctx, patientIdentity(existing, req, birthDate), visit)

	appointment := &entity.Appointment{
		ClinicSlug:       req.Polyclinic,
		DoctorSlug:       req.Doctor,
		VisitDate:        visitDate,
		QueueNumber:      localQueueNumber,
		Status:           entity.AppointmentStatusScheduled,
		KhanzaSyncStatus: entity.SyncStatusFailed,
		SyncMethod:       string(u.registrar.Method()),
	}

	var khanzaMedicalRecord string
	switch r := result.(type) {
	case khanza.Registered:
		appointment.QueueNumber = r.QueueNumber
		appointment.KhanzaSyncStatus = entity.SyncStatusSuccess
		if r.RegistrationNumber != "" {
			noRawat := r.RegistrationNumber
			appointment.KhanzaRegistrationNumber = &noRawat
		}
		khanzaMedicalRecord = r.MedicalRecordNumber
	case khanza.Unavailable:
		u.log.Warnf("Khanza sync failed via %s, using local queue number %s: %+v",
			u.registrar.Method(), localQueueNumber, r.Reason)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient := existing
	if patient == nil {
		patient, err = u.createPatient(ctx, tx, req, birthDate, patientType)
		if err != nil {
			return nil, err
		}
	}

	if khanzaMedicalRecord != "" && !patient.HasMedicalRecord() {
		if err := u.patientRepo.AttachMedicalRecordNumber(tx, patient.ID, khanzaMedicalRecord); err != nil {
			u.log.Errorf("Failed to attach medical record number: %+v", err)
			return nil, err
		}
		if err := u.auditService.LogUpdate(ctx, tx, "", entity.AuditActionPatientLinkKhanza, "patient", patient.ID.String(),
			nil, map[string]string{"medical_record_number": khanzaMedicalRecord}); err != nil {
			return nil, err
		}
		mrn := khanzaMedicalRecord
		patient.MedicalRecordNumber = &mrn
	}

	appointment.PatientID = patient.ID
	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		u.log.Errorf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, "", entity.AuditActionRegistrationCreate, "appointment", appointment.ID.String(),
		converter.AppointmentToResponse(appointment)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Errorf("Failed commit transaction: %+v", err)
		return nil, err
	}

	message := registrationSyncedMessage
	if !appointment.IsSynced() {
		message = registrationLocalOnlyMessage
	}

	return &dto.RegistrationResponse{
		Success:          true,
		Patient:          converter.PatientToRegistered(patient),
		Appointment:      converter.AppointmentToRegistered(appointment),
		QueueNumber:      appointment.QueueNumber,
		VisitDate:        visitDate.Format(dateLayout),
		Message:          message,
		KhanzaSyncStatus: string(appointment.KhanzaSyncStatus),
		SyncMethod:       appointment.SyncMethod,
	}, nil
}

// patientIdentity is what Khanza is told about the patient: the stored
// identity for a known patient, the submitted one otherwise.
func patientIdentity(existing *entity.Patient, req *dto.RegistrationRequest, birthDate time.Time) khanza.PatientIdentity {
	if existing == nil {
		return khanza.PatientIdentity{
			NIK:       req.NIK,
			Name:      req.Name,
			Gender:    req.Gender,
			BirthDate: birthDate,
			Address:   req.Address,
			Phone:     req.Phone,
		}
	}

	identity := khanza.PatientIdentity{
		NIK:       existing.NIK,
		Name:      existing.Name,
		Gender:    existing.Gender,
		BirthDate: existing.BirthDate,
		Address:   existing.Address,
		Phone:     existing.Phone,
	}
	if existing.HasMedicalRecord() {
		identity.MedicalRecordNumber = *existing.MedicalRecordNumber
	}
	return identity
}

// createPatient inserts the patient inside the registration transaction. The
// insert runs under a savepoint so that losing a race with a concurrent
// registration of the same NIK leaves tx usable: a returning patient then
// reuses the winner's row, a new patient is rejected.
func (u *registrationUsecase) createPatient(ctx context.Context, tx *gorm.DB, req *dto.RegistrationRequest, birthDate time.Time, patientType entity.PatientType) (*entity.Patient, error) {
	patient := &entity.Patient{
		NIK:         req.NIK,
		Name:        req.Name,
		Gender:      req.Gender,
		BirthDate:   birthDate,
		Address:     req.Address,
		Phone:       req.Phone,
		PatientType: patientType,
	}

	err := tx.Transaction(func(sp *gorm.DB) error {
		return u.patientRepo.Create(sp, patient)
	})
	if errors.Is(err, repoImpl.ErrDuplicateNationalID) {
		if patientType == entity.PatientTypeNew {
			return nil, ErrDuplicateRegistration
		}
		existing, findErr := u.patientRepo.FindByNIK(tx, req.NIK)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, fmt.Errorf("patient %s vanished after duplicate key", req.NIK)
		}
		return existing, nil
	}
	if err != nil {
		u.log.Errorf("Failed to create patient: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, "", entity.AuditActionPatientCreate, "patient", patient.ID.String(),
		converter.PatientToResponse(patient)); err != nil {
		return nil, err
	}
	return patient, nil
}

// resolveDoctorCode maps a doctor slug to its Khanza kd_dokter. Doctors missing
// from the directory are passed through as-is.
func (u *registrationUsecase) resolveDoctorCode(ctx context.Context, slug string) string {
	doctor, err := u.doctorRepo.FindBySlug(u.db.WithContext(ctx), slug)
	if err != nil {
		u.log.Warnf("Failed to look up doctor %s: %+v", slug, err)
		return slug
	}
	if doctor == nil || doctor.KhanzaCode == "" {
		return slug
	}
	return doctor.KhanzaCode
}

// resolveVisitDate defaults to today in the hospital's timezone and rejects
// past dates. The result is a calendar date at UTC midnight.
func (u *registrationUsecase) resolveVisitDate(raw string) (time.Time, error) {
	today := u.now().In(u.location)
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if raw == "" {
		return todayDate, nil
	}

	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidVisitDate
	}
	if parsed.Before(todayDate) {
		return time.Time{}, ErrVisitDatePast
	}
	return parsed, nil
}
