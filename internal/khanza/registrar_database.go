package khanza

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// MySQL error numbers that mean Khanza refused the data rather than being down.
var mysqlRejectCodes = map[uint16]bool{
	1048: true, // column cannot be null
	1062: true, // duplicate entry
	1264: true, // out of range
	1292: true, // incorrect value
	1406: true, // data too long
	1452: true, // foreign key
}

// DatabaseRegistrar writes registrations straight into the Khanza MySQL schema
// (pasien + reg_periksa), the same way the Khanza desktop registration does.
type DatabaseRegistrar struct {
	db      *sql.DB
	clinics *ClinicTable
	timeout time.Duration
	log     *logrus.Logger
	now     func() time.Time
}

func NewDatabaseRegistrar(db *sql.DB, clinics *ClinicTable, timeout time.Duration, log *logrus.Logger) *DatabaseRegistrar {
	return &DatabaseRegistrar{
		db:      db,
		clinics: clinics,
		timeout: timeout,
		log:     log,
		now:     time.Now,
	}
}

func (r *DatabaseRegistrar) Method() SyncMethod { return SyncMethodDatabase }

func (r *DatabaseRegistrar) Register(ctx context.Context, patient PatientIdentity, visit VisitContext) Result {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	registered, err := r.register(ctx, patient, visit)
	if err != nil {
		reason := classifyError(ctx, err)
		r.log.Warnf("Khanza database registration failed for clinic %s: %+v", visit.ClinicSlug, reason)
		return Unavailable{Reason: reason}
	}

	r.log.Infof("Khanza registration created: no_rawat=%s, no_rkm_medis=%s, queue=%s",
		registered.RegistrationNumber, registered.MedicalRecordNumber, registered.QueueNumber)
	return registered
}

func (r *DatabaseRegistrar) register(ctx context.Context, patient PatientIdentity, visit VisitContext) (Registered, error) {
	if visit.ClinicCode == "" {
		return Registered{}, fmt.Errorf("%w: clinic %q has no poliklinik code", ErrRemoteValidation, visit.ClinicSlug)
	}
	if visit.DoctorCode == "" {
		return Registered{}, fmt.Errorf("%w: missing doctor code", ErrRemoteValidation)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Registered{}, err
	}
	defer tx.Rollback()

	mrn, isNew, err := r.resolveMedicalRecord(ctx, tx, patient)
	if err != nil {
		return Registered{}, rejectOrWrap(err, "resolve medical record")
	}

	visitDate := visit.VisitDate.Format("2006-01-02")

	var lastReg int
	err = tx.QueryRowContext(ctx,
		`SELECT IFNULL(MAX(CONVERT(no_reg, SIGNED)), 0) FROM reg_periksa WHERE kd_poli = ? AND tgl_registrasi = ?`,
		visit.ClinicCode, visitDate,
	).Scan(&lastReg)
	if err != nil {
		return Registered{}, fmt.Errorf("query last no_reg: %w", err)
	}
	noReg := fmt.Sprintf("%03d", lastReg+1)

	var lastRawat int
	err = tx.QueryRowContext(ctx,
		`SELECT IFNULL(MAX(CONVERT(RIGHT(no_rawat, 6), SIGNED)), 0) FROM reg_periksa WHERE tgl_registrasi = ?`,
		visitDate,
	).Scan(&lastRawat)
	if err != nil {
		return Registered{}, fmt.Errorf("query last no_rawat: %w", err)
	}
	noRawat := fmt.Sprintf("%s/%06d", visit.VisitDate.Format("2006/01/02"), lastRawat+1)

	sttsDaftar := "Lama"
	if isNew {
		sttsDaftar = "Baru"
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO reg_periksa (no_reg, no_rawat, tgl_registrasi, jam_reg, kd_dokter, no_rkm_medis, kd_poli, stts, status_lanjut, kd_pj, stts_daftar, status_bayar)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'Belum', 'Ralan', 'UMU', ?, 'Belum Bayar')`,
		noReg, noRawat, visitDate, r.now().Format("15:04:05"), visit.DoctorCode, mrn, visit.ClinicCode, sttsDaftar,
	)
	if err != nil {
		return Registered{}, rejectOrWrap(err, "insert reg_periksa")
	}

	if err := tx.Commit(); err != nil {
		return Registered{}, fmt.Errorf("commit khanza registration: %w", err)
	}

	return Registered{
		QueueNumber:         FormatQueueNumber(r.clinics.Prefix(visit.ClinicSlug), noReg),
		MedicalRecordNumber: mrn,
		RegistrationNumber:  noRawat,
	}, nil
}

// resolveMedicalRecord finds the pasien row for the patient, creating it when
// Khanza has never seen them. The bool reports whether a row was created.
func (r *DatabaseRegistrar) resolveMedicalRecord(ctx context.Context, tx *sql.Tx, patient PatientIdentity) (string, bool, error) {
	var mrn string

	if patient.MedicalRecordNumber != "" {
		err := tx.QueryRowContext(ctx,
			`SELECT no_rkm_medis FROM pasien WHERE no_rkm_medis = ?`, patient.MedicalRecordNumber,
		).Scan(&mrn)
		if err == nil {
			return mrn, false, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", false, err
		}
	}

	err := tx.QueryRowContext(ctx,
		`SELECT no_rkm_medis FROM pasien WHERE no_ktp = ? LIMIT 1`, patient.NIK,
	).Scan(&mrn)
	if err == nil {
		return mrn, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, err
	}

	var last int
	err = tx.QueryRowContext(ctx,
		`SELECT IFNULL(MAX(CONVERT(no_rkm_medis, SIGNED)), 0) FROM pasien`,
	).Scan(&last)
	if err != nil {
		return "", false, err
	}
	mrn = fmt.Sprintf("%06d", last+1)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pasien (no_rkm_medis, nm_pasien, no_ktp, jk, tgl_lahir, alamat, no_tlp, tgl_daftar)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		mrn, patient.Name, patient.NIK, khanzaGender(patient.Gender),
		patient.BirthDate.Format("2006-01-02"), patient.Address, patient.Phone, r.now().Format("2006-01-02"),
	)
	if err != nil {
		return "", false, err
	}

	return mrn, true, nil
}

// rejectOrWrap tags MySQL data errors as remote validation failures.
func rejectOrWrap(err error, op string) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlRejectCodes[mysqlErr.Number] {
		return fmt.Errorf("%w: %s: %s", ErrRemoteValidation, op, mysqlErr.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}
