package khanza

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDatabaseRegistrar(t *testing.T, timeout time.Duration) (*DatabaseRegistrar, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	registrar := NewDatabaseRegistrar(db, DefaultClinicTable(), timeout, discardLogger())
	registrar.now = func() time.Time { return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC) }
	return registrar, mock
}

func TestDatabaseRegistrar_RegistersNewPatient(t *testing.T) {
	registrar, mock := newDatabaseRegistrar(t, time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT no_rkm_medis FROM pasien WHERE no_ktp = ?`)).
		WithArgs("1234567890123456").
		WillReturnRows(sqlmock.NewRows([]string{"no_rkm_medis"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT IFNULL(MAX(CONVERT(no_rkm_medis, SIGNED)), 0) FROM pasien`)).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(41))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO pasien`)).
		WithArgs("000042", "Budi", "1234567890123456", "L", "1990-01-01", "Jl. A", "0811", "2026-10-15").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM reg_periksa WHERE kd_poli = ? AND tgl_registrasi = ?`)).
		WithArgs("ANA", "2026-10-16").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(4))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM reg_periksa WHERE tgl_registrasi = ?`)).
		WithArgs("2026-10-16").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(12))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reg_periksa`)).
		WithArgs("005", "2026/10/16/000013", "2026-10-16", "09:30:00", "D001", "000042", "ANA", "Baru").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	result := registrar.Register(context.Background(), testPatient(), testVisit())

	registered, ok := result.(Registered)
	require.True(t, ok, "expected Registered, got %#v", result)
	assert.Equal(t, "AK-005", registered.QueueNumber)
	assert.Equal(t, "000042", registered.MedicalRecordNumber)
	assert.Equal(t, "2026/10/16/000013", registered.RegistrationNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseRegistrar_ReusesKnownMedicalRecord(t *testing.T) {
	registrar, mock := newDatabaseRegistrar(t, time.Second)
	patient := testPatient()
	patient.MedicalRecordNumber = "000007"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT no_rkm_medis FROM pasien WHERE no_rkm_medis = ?`)).
		WithArgs("000007").
		WillReturnRows(sqlmock.NewRows([]string{"no_rkm_medis"}).AddRow("000007"))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM reg_periksa WHERE kd_poli = ? AND tgl_registrasi = ?`)).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM reg_periksa WHERE tgl_registrasi = ?`)).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reg_periksa`)).
		WithArgs("001", "2026/10/16/000001", "2026-10-16", sqlmock.AnyArg(), "D001", "000007", "ANA", "Lama").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	result := registrar.Register(context.Background(), patient, testVisit())

	registered, ok := result.(Registered)
	require.True(t, ok, "expected Registered, got %#v", result)
	assert.Equal(t, "AK-001", registered.QueueNumber)
	assert.Equal(t, "000007", registered.MedicalRecordNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseRegistrar_RejectedInsertRollsBack(t *testing.T) {
	registrar, mock := newDatabaseRegistrar(t, time.Second)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT no_rkm_medis FROM pasien WHERE no_ktp = ?`)).
		WillReturnRows(sqlmock.NewRows([]string{"no_rkm_medis"}).AddRow("000042"))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM reg_periksa WHERE kd_poli = ? AND tgl_registrasi = ?`)).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM reg_periksa WHERE tgl_registrasi = ?`)).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reg_periksa`)).
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})
	mock.ExpectRollback()

	result := registrar.Register(context.Background(), testPatient(), testVisit())

	unavailable, ok := result.(Unavailable)
	require.True(t, ok)
	assert.ErrorIs(t, unavailable.Reason, ErrRemoteValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseRegistrar_MissingCodesAreRejectedWithoutQuerying(t *testing.T) {
	registrar, mock := newDatabaseRegistrar(t, time.Second)

	visit := testVisit()
	visit.ClinicSlug = "radiologi"
	visit.ClinicCode = ""

	result := registrar.Register(context.Background(), testPatient(), visit)

	unavailable, ok := result.(Unavailable)
	require.True(t, ok)
	assert.ErrorIs(t, unavailable.Reason, ErrRemoteValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseRegistrar_Unreachable(t *testing.T) {
	registrar, mock := newDatabaseRegistrar(t, time.Second)

	mock.ExpectBegin().WillReturnError(errors.New("dial tcp 10.0.0.5:3306: connect: connection refused"))

	result := registrar.Register(context.Background(), testPatient(), testVisit())

	unavailable, ok := result.(Unavailable)
	require.True(t, ok)
	assert.ErrorIs(t, unavailable.Reason, ErrConnection)
}

func TestDatabaseRegistrar_Timeout(t *testing.T) {
	registrar, mock := newDatabaseRegistrar(t, 20*time.Millisecond)

	mock.ExpectBegin().WillDelayFor(time.Second)

	result := registrar.Register(context.Background(), testPatient(), testVisit())

	unavailable, ok := result.(Unavailable)
	require.True(t, ok)
	assert.ErrorIs(t, unavailable.Reason, ErrTimeout)
}
