package usecase

import (
	"context"
	"errors"

	"patient-portal/internal/delivery/dto"
	"patient-portal/internal/khanza"

	"github.com/sirupsen/logrus"
)

var (
	ErrKhanzaNotConfigured   = errors.New("khanza database is not configured")
	ErrKhanzaPatientNotFound = errors.New("patient not found in khanza")
)

// KhanzaReader is the read side of the Khanza database.
type KhanzaReader interface {
	DoctorSchedules(ctx context.Context, clinicCode string) ([]map[string]any, error)
	Visits(ctx context.Context, medicalRecordNumber string, limit int) ([]map[string]any, error)
	Patient(ctx context.Context, medicalRecordNumber string) (map[string]any, error)
	Inventory(ctx context.Context, locationCode string, limit int) ([]map[string]any, error)
	VisitSummary(ctx context.Context, registrationNumber string) (*khanza.VisitSummary, error)
}

type KhanzaUsecase interface {
	DoctorSchedules(ctx context.Context, clinicSlug string) (*dto.KhanzaRowsResponse, error)
	PatientVisits(ctx context.Context, medicalRecordNumber string, limit int) (*dto.KhanzaRowsResponse, error)
	Patient(ctx context.Context, medicalRecordNumber string) (map[string]any, error)
	Inventory(ctx context.Context, locationCode string, limit int) (*dto.KhanzaRowsResponse, error)
	VisitSummary(ctx context.Context, registrationNumber string) (*khanza.VisitSummary, error)
}

type khanzaUsecase struct {
	log     *logrus.Logger
	reader  KhanzaReader
	clinics *khanza.ClinicTable
}

// NewKhanzaUsecase accepts a nil reader when Khanza is reached through the
// bridging API or not at all; every call then fails with ErrKhanzaNotConfigured.
func NewKhanzaUsecase(log *logrus.Logger, reader KhanzaReader, clinics *khanza.ClinicTable) KhanzaUsecase {
	return &khanzaUsecase{
		log:     log,
		reader:  reader,
		clinics: clinics,
	}
}

func (u *khanzaUsecase) DoctorSchedules(ctx context.Context, clinicSlug string) (*dto.KhanzaRowsResponse, error) {
	if u.reader == nil {
		return nil, ErrKhanzaNotConfigured
	}

	clinicCode := ""
	if clinicSlug != "" {
		clinicCode = u.clinics.KhanzaCode(clinicSlug)
		if clinicCode == "" {
			return rowsResponse(nil), nil
		}
	}

	rows, err := u.reader.DoctorSchedules(ctx, clinicCode)
	if err != nil {
		u.log.Warnf("Failed to read Khanza schedules: %+v", err)
		return nil, err
	}
	return rowsResponse(rows), nil
}

func (u *khanzaUsecase) PatientVisits(ctx context.Context, medicalRecordNumber string, limit int) (*dto.KhanzaRowsResponse, error) {
	if u.reader == nil {
		return nil, ErrKhanzaNotConfigured
	}

	rows, err := u.reader.Visits(ctx, medicalRecordNumber, limit)
	if err != nil {
		u.log.Warnf("Failed to read Khanza visits: %+v", err)
		return nil, err
	}
	return rowsResponse(rows), nil
}

func (u *khanzaUsecase) Patient(ctx context.Context, medicalRecordNumber string) (map[string]any, error) {
	if u.reader == nil {
		return nil, ErrKhanzaNotConfigured
	}

	row, err := u.reader.Patient(ctx, medicalRecordNumber)
	if err != nil {
		u.log.Warnf("Failed to read Khanza patient: %+v", err)
		return nil, err
	}
	if row == nil {
		return nil, ErrKhanzaPatientNotFound
	}
	return row, nil
}

func (u *khanzaUsecase) Inventory(ctx context.Context, locationCode string, limit int) (*dto.KhanzaRowsResponse, error) {
	if u.reader == nil {
		return nil, ErrKhanzaNotConfigured
	}

	rows, err := u.reader.Inventory(ctx, locationCode, limit)
	if err != nil {
		u.log.Warnf("Failed to read Khanza inventory: %+v", err)
		return nil, err
	}
	return rowsResponse(rows), nil
}

func (u *khanzaUsecase) VisitSummary(ctx context.Context, registrationNumber string) (*khanza.VisitSummary, error) {
	if u.reader == nil {
		return nil, ErrKhanzaNotConfigured
	}

	summary, err := u.reader.VisitSummary(ctx, registrationNumber)
	if err != nil {
		u.log.Warnf("Failed to read Khanza visit summary: %+v", err)
		return nil, err
	}
	return summary, nil
}

func rowsResponse(rows []map[string]any) *dto.KhanzaRowsResponse {
	if rows == nil {
		rows = []map[string]any{}
	}
	return &dto.KhanzaRowsResponse{Rows: rows, Total: len(rows)}
}
