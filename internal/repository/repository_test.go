package repository

import (
	"testing"
	"time"

	"patient-portal/internal/domain/entity"

	"github.com/stretchr/testify/assert"
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

func newPatient(nik string) *entity.Patient {
	return &entity.Patient{
		NIK:         nik,
		Name:        "Budi Santoso",
		Gender:      "Laki-laki",
		BirthDate:   time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Address:     "Jl. Merdeka 1",
		Phone:       "081234567890",
		PatientType: entity.PatientTypeNew,
	}
}

func TestPatientRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewPatientRepository()

	patient := newPatient("3201010101900001")
	require.NoError(t, repo.Create(db, patient))

	found, err := repo.FindByNIK(db, "3201010101900001")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, patient.ID, found.ID)
	assert.Equal(t, "Budi Santoso", found.Name)
	assert.False(t, found.HasMedicalRecord())

	byID, err := repo.FindByID(db, patient.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)

	missing, err := repo.FindByNIK(db, "9999999999999999")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPatientRepository_DuplicateNIK(t *testing.T) {
	db := newTestDB(t)
	repo := NewPatientRepository()

	require.NoError(t, repo.Create(db, newPatient("3201010101900001")))
	err := repo.Create(db, newPatient("3201010101900001"))

	assert.ErrorIs(t, err, ErrDuplicateNationalID)

	var count int64
	db.Model(&entity.Patient{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPatientRepository_SoftDeletedNIKCanRegisterAgain(t *testing.T) {
	db := newTestDB(t)
	repo := NewPatientRepository()

	old := newPatient("3201010101900001")
	require.NoError(t, repo.Create(db, old))
	require.NoError(t, db.Delete(old).Error)

	missing, err := repo.FindByNIK(db, "3201010101900001")
	require.NoError(t, err)
	assert.Nil(t, missing)

	fresh := newPatient("3201010101900001")
	require.NoError(t, repo.Create(db, fresh))

	found, err := repo.FindByNIK(db, "3201010101900001")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, fresh.ID, found.ID)

	assert.ErrorIs(t, repo.Create(db, newPatient("3201010101900001")), ErrDuplicateNationalID)
}

func TestPatientRepository_AttachMedicalRecordNumberKeepsExisting(t *testing.T) {
	db := newTestDB(t)
	repo := NewPatientRepository()

	patient := newPatient("3201010101900001")
	require.NoError(t, repo.Create(db, patient))

	require.NoError(t, repo.AttachMedicalRecordNumber(db, patient.ID, "000042"))
	require.NoError(t, repo.AttachMedicalRecordNumber(db, patient.ID, "000099"))

	found, err := repo.FindByID(db, patient.ID)
	require.NoError(t, err)
	require.True(t, found.HasMedicalRecord())
	assert.Equal(t, "000042", *found.MedicalRecordNumber)
}

func TestAppointmentRepository_FindAllFilters(t *testing.T) {
	db := newTestDB(t)
	patients := NewPatientRepository()
	repo := NewAppointmentRepository()

	patient := newPatient("3201010101900001")
	require.NoError(t, patients.Create(db, patient))

	day := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	seed := []entity.Appointment{
		{ClinicSlug: "anak", VisitDate: day, QueueNumber: "AK-001", Status: entity.AppointmentStatusScheduled},
		{ClinicSlug: "anak", VisitDate: day, QueueNumber: "AK-002", Status: entity.AppointmentStatusArrived},
		{ClinicSlug: "umum", VisitDate: day, QueueNumber: "UM-001", Status: entity.AppointmentStatusScheduled},
		{ClinicSlug: "anak", VisitDate: day.AddDate(0, 0, 1), QueueNumber: "AK-001", Status: entity.AppointmentStatusScheduled},
	}
	for i := range seed {
		seed[i].PatientID = patient.ID
		seed[i].DoctorSlug = "dr-budi"
		seed[i].KhanzaSyncStatus = entity.SyncStatusFailed
		seed[i].SyncMethod = "none"
		require.NoError(t, repo.Create(db, &seed[i]))
	}

	all, total, err := repo.FindAll(db, entity.AppointmentFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, all, 4)
	assert.Equal(t, patient.NIK, all[0].Patient.NIK)

	byClinicAndDay, total, err := repo.FindAll(db, entity.AppointmentFilter{ClinicSlug: "anak", VisitDate: &day}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, byClinicAndDay, 2)

	arrived, total, err := repo.FindAll(db, entity.AppointmentFilter{Status: string(entity.AppointmentStatusArrived)}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "AK-002", arrived[0].QueueNumber)

	page, total, err := repo.FindAll(db, entity.AppointmentFilter{}, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, page, 1)

	history, err := repo.FindByPatientID(db, patient.ID)
	require.NoError(t, err)
	assert.Len(t, history, 4)
	assert.True(t, history[0].VisitDate.After(history[3].VisitDate))

	numbers, err := repo.FindQueueNumbers(db, "anak", day)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AK-001", "AK-002"}, numbers)

	none, err := repo.FindQueueNumbers(db, "gigi", day)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAppointmentRepository_UpdateStatus(t *testing.T) {
	db := newTestDB(t)
	patient := newPatient("3201010101900001")
	require.NoError(t, NewPatientRepository().Create(db, patient))

	repo := NewAppointmentRepository()
	appointment := &entity.Appointment{
		PatientID:        patient.ID,
		ClinicSlug:       "anak",
		DoctorSlug:       "dr-budi",
		VisitDate:        time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
		QueueNumber:      "AK-001",
		Status:           entity.AppointmentStatusScheduled,
		KhanzaSyncStatus: entity.SyncStatusSuccess,
		SyncMethod:       "database",
	}
	require.NoError(t, repo.Create(db, appointment))

	affected, err := repo.UpdateStatus(db, appointment.ID, entity.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	found, err := repo.FindByID(db, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentStatusCompleted, found.Status)
	assert.Equal(t, patient.ID, found.Patient.ID)

	affected, err = repo.UpdateStatus(db, patient.ID, entity.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestDoctorRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewDoctorRepository()

	siti := &entity.Doctor{Slug: "dr-siti", Name: "dr. Siti", ClinicSlug: "anak", Specialization: "Sp.A", KhanzaCode: "D002"}
	andi := &entity.Doctor{Slug: "dr-andi", Name: "dr. Andi", ClinicSlug: "umum", Specialization: "Umum"}
	require.NoError(t, repo.Create(db, siti))
	require.NoError(t, repo.Create(db, andi))

	err := repo.Create(db, &entity.Doctor{Slug: "dr-siti", Name: "dr. Siti Lain", ClinicSlug: "anak", Specialization: "Sp.A"})
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	all, err := repo.FindAll(db, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "dr. Andi", all[0].Name)

	pediatric, err := repo.FindAll(db, "anak")
	require.NoError(t, err)
	require.Len(t, pediatric, 1)
	assert.Equal(t, "D002", pediatric[0].KhanzaCode)

	require.NoError(t, repo.Delete(db, siti.ID))

	gone, err := repo.FindBySlug(db, "dr-siti")
	require.NoError(t, err)
	assert.Nil(t, gone)

	var stored entity.Doctor
	require.NoError(t, db.Unscoped().Where("id = ?", siti.ID).First(&stored).Error)
	assert.True(t, stored.DeletedAt.Valid)

	again := &entity.Doctor{Slug: "dr-siti", Name: "dr. Siti", ClinicSlug: "anak", Specialization: "Sp.A", KhanzaCode: "D009"}
	require.NoError(t, repo.Create(db, again), "a soft-deleted doctor releases its slug")

	current, err := repo.FindBySlug(db, "dr-siti")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, again.ID, current.ID)
}

func TestFAQRepository_PublishedOnly(t *testing.T) {
	db := newTestDB(t)
	repo := NewFAQRepository()

	published, draft := true, false
	require.NoError(t, repo.Create(db, &entity.FAQ{Question: "Jam buka?", Answer: "07.00", SortOrder: 2, IsPublished: &published}))
	require.NoError(t, repo.Create(db, &entity.FAQ{Question: "Parkir?", Answer: "Ada", SortOrder: 1, IsPublished: &published}))
	require.NoError(t, repo.Create(db, &entity.FAQ{Question: "Draft", Answer: "-", IsPublished: &draft}))

	public, total, err := repo.FindAll(db, true, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Parkir?", public[0].Question)

	_, total, err = repo.FindAll(db, false, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestAuditLogRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuditLogRepository()

	require.NoError(t, repo.Create(db, &entity.AuditLog{Action: entity.AuditActionPatientCreate, Metadata: entity.JSON{"entity": "patient"}}))
	require.NoError(t, repo.Create(db, &entity.AuditLog{Actor: "staff-1", Action: entity.AuditActionAppointmentStatus}))

	logs, total, err := repo.FindAll(db, entity.AuditActionPatientCreate, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "patient", logs[0].Metadata["entity"])

	found, err := repo.FindByID(db, logs[0].ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	missing, err := repo.FindByID(db, 9999)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
