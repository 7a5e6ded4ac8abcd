package usecase

import (
	"context"
	"testing"

	"patient-portal/internal/khanza"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	clinicCodes []string
	schedules   []map[string]any
	patient     map[string]any
	err         error
}

func (s *stubReader) DoctorSchedules(_ context.Context, clinicCode string) ([]map[string]any, error) {
	s.clinicCodes = append(s.clinicCodes, clinicCode)
	return s.schedules, s.err
}

func (s *stubReader) Visits(context.Context, string, int) ([]map[string]any, error) {
	return nil, s.err
}

func (s *stubReader) Patient(context.Context, string) (map[string]any, error) {
	return s.patient, s.err
}

func (s *stubReader) Inventory(context.Context, string, int) ([]map[string]any, error) {
	return []map[string]any{{"item_code": "B001"}}, s.err
}

func (s *stubReader) VisitSummary(_ context.Context, registrationNumber string) (*khanza.VisitSummary, error) {
	return &khanza.VisitSummary{RegistrationNumber: registrationNumber, BillingTotal: decimal.NewFromInt(1000)}, s.err
}

func TestKhanzaUsecase_NotConfigured(t *testing.T) {
	uc := NewKhanzaUsecase(quietLogger(), nil, khanza.DefaultClinicTable())
	ctx := context.Background()

	_, err := uc.DoctorSchedules(ctx, "anak")
	assert.ErrorIs(t, err, ErrKhanzaNotConfigured)
	_, err = uc.PatientVisits(ctx, "000042", 0)
	assert.ErrorIs(t, err, ErrKhanzaNotConfigured)
	_, err = uc.Patient(ctx, "000042")
	assert.ErrorIs(t, err, ErrKhanzaNotConfigured)
	_, err = uc.Inventory(ctx, "", 0)
	assert.ErrorIs(t, err, ErrKhanzaNotConfigured)
	_, err = uc.VisitSummary(ctx, "2026/10/16/000001")
	assert.ErrorIs(t, err, ErrKhanzaNotConfigured)
}

func TestKhanzaUsecase_DoctorSchedulesTranslatesClinic(t *testing.T) {
	reader := &stubReader{schedules: []map[string]any{{"doctor_code": "D001"}}}
	uc := NewKhanzaUsecase(quietLogger(), reader, khanza.DefaultClinicTable())

	res, err := uc.DoctorSchedules(context.Background(), "anak")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	all, err := uc.DoctorSchedules(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, all.Total)

	unknown, err := uc.DoctorSchedules(context.Background(), "hemodialisa")
	require.NoError(t, err)
	assert.Zero(t, unknown.Total)
	assert.NotNil(t, unknown.Rows)

	assert.Equal(t, []string{"ANA", ""}, reader.clinicCodes)
}

func TestKhanzaUsecase_Patient(t *testing.T) {
	uc := NewKhanzaUsecase(quietLogger(), &stubReader{}, khanza.DefaultClinicTable())
	_, err := uc.Patient(context.Background(), "999999")
	assert.ErrorIs(t, err, ErrKhanzaPatientNotFound)

	uc = NewKhanzaUsecase(quietLogger(), &stubReader{patient: map[string]any{"name": "Budi"}}, khanza.DefaultClinicTable())
	row, err := uc.Patient(context.Background(), "000042")
	require.NoError(t, err)
	assert.Equal(t, "Budi", row["name"])
}

func TestKhanzaUsecase_ReaderErrorsPropagate(t *testing.T) {
	uc := NewKhanzaUsecase(quietLogger(), &stubReader{err: khanza.ErrConnection}, khanza.DefaultClinicTable())

	_, err := uc.PatientVisits(context.Background(), "000042", 10)
	assert.ErrorIs(t, err, khanza.ErrConnection)

	visits, err := NewKhanzaUsecase(quietLogger(), &stubReader{}, khanza.DefaultClinicTable()).PatientVisits(context.Background(), "000042", 10)
	require.NoError(t, err)
	assert.NotNil(t, visits.Rows)
}
