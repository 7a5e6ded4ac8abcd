package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"patient-portal/internal/domain/entity"
	domainRepo "patient-portal/internal/domain/repository"
	"patient-portal/internal/khanza"
	"patient-portal/internal/repository"
	"patient-portal/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entity.Patient{}, &entity.Appointment{}, &entity.Doctor{}, &entity.FAQ{}, &entity.AuditLog{}))
	return db
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newAuditService(log *logrus.Logger) service.AuditService {
	return service.NewAuditService(log, repository.NewAuditLogRepository())
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func auditActions(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var actions []string
	require.NoError(t, db.Model(&entity.AuditLog{}).Order("id ASC").Pluck("action", &actions).Error)
	return actions
}

// fakeRegistrar returns a fixed result and records what it was asked to register.
type fakeRegistrar struct {
	mu       sync.Mutex
	method   khanza.SyncMethod
	result   khanza.Result
	patients []khanza.PatientIdentity
	visits   []khanza.VisitContext
}

func (f *fakeRegistrar) Method() khanza.SyncMethod { return f.method }

func (f *fakeRegistrar) Register(_ context.Context, patient khanza.PatientIdentity, visit khanza.VisitContext) khanza.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patients = append(f.patients, patient)
	f.visits = append(f.visits, visit)
	return f.result
}

func (f *fakeRegistrar) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visits)
}

type brokenQueue struct{ err error }

func (q brokenQueue) Next(context.Context, string, time.Time) (string, error) {
	return "", q.err
}

// flakyQueue fails the first failures draws, then delegates to next.
type flakyQueue struct {
	mu       sync.Mutex
	failures int
	next     service.QueueGenerator
}

func (q *flakyQueue) Next(ctx context.Context, clinicSlug string, visitDate time.Time) (string, error) {
	q.mu.Lock()
	if q.failures > 0 {
		q.failures--
		q.mu.Unlock()
		return "", errors.New("redis down")
	}
	q.mu.Unlock()
	return q.next.Next(ctx, clinicSlug, visitDate)
}

// racingPatients behaves as if another registration inserted the same NIK
// between the lookup and the insert: the first misses lookups report nothing
// and Create hits the unique index.
type racingPatients struct {
	domainRepo.PatientRepository
	misses int
}

func (r *racingPatients) FindByNIK(db *gorm.DB, nik string) (*entity.Patient, error) {
	if r.misses > 0 {
		r.misses--
		return nil, nil
	}
	return r.PatientRepository.FindByNIK(db, nik)
}

func (r *racingPatients) Create(*gorm.DB, *entity.Patient) error {
	return repository.ErrDuplicateNationalID
}

type failingAppointments struct {
	domainRepo.AppointmentRepository
	err error
}

func (f failingAppointments) Create(*gorm.DB, *entity.Appointment) error {
	return f.err
}
