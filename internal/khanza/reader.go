package khanza

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultVisitLimit     = 50
	defaultInventoryLimit = 200
)

// Reader runs read-only queries against the Khanza database and returns rows
// already renamed by the Mapper.
type Reader struct {
	db      *sql.DB
	mapper  *Mapper
	timeout time.Duration
	log     *logrus.Logger
}

// VisitSummary groups the clinical and financial rows of one visit (no_rawat).
type VisitSummary struct {
	RegistrationNumber string           `json:"registration_number"`
	LabVisits          []map[string]any `json:"lab_visits"`
	RadiologyVisits    []map[string]any `json:"radiology_visits"`
	Billing            []map[string]any `json:"billing"`
	BillingTotal       decimal.Decimal  `json:"billing_total"`
}

func NewReader(db *sql.DB, mapper *Mapper, timeout time.Duration, log *logrus.Logger) *Reader {
	return &Reader{
		db:      db,
		mapper:  mapper,
		timeout: timeout,
		log:     log,
	}
}

// DoctorSchedules lists practice hours, optionally for one poliklinik.
func (r *Reader) DoctorSchedules(ctx context.Context, clinicCode string) ([]map[string]any, error) {
	query := `SELECT jadwal.kd_dokter, dokter.nm_dokter, jadwal.hari_kerja, jadwal.jam_mulai, jadwal.jam_selesai,
			jadwal.kd_poli, poliklinik.nm_poli, jadwal.kuota
		FROM jadwal
		INNER JOIN dokter ON jadwal.kd_dokter = dokter.kd_dokter
		INNER JOIN poliklinik ON jadwal.kd_poli = poliklinik.kd_poli`
	var args []any
	if clinicCode != "" {
		query += " WHERE jadwal.kd_poli = ?"
		args = append(args, clinicCode)
	}
	query += " ORDER BY jadwal.kd_poli, jadwal.hari_kerja, jadwal.jam_mulai"

	return r.query(ctx, RowSchedule, query, args...)
}

// Visits lists the most recent registrations of a patient.
func (r *Reader) Visits(ctx context.Context, medicalRecordNumber string, limit int) ([]map[string]any, error) {
	if limit <= 0 {
		limit = defaultVisitLimit
	}
	return r.query(ctx, RowRegistration,
		`SELECT reg_periksa.no_reg, reg_periksa.no_rawat, reg_periksa.tgl_registrasi, reg_periksa.jam_reg,
			reg_periksa.kd_dokter, dokter.nm_dokter, reg_periksa.no_rkm_medis, reg_periksa.kd_poli, poliklinik.nm_poli,
			reg_periksa.stts, reg_periksa.status_lanjut, reg_periksa.kd_pj, reg_periksa.status_bayar
		FROM reg_periksa
		INNER JOIN dokter ON reg_periksa.kd_dokter = dokter.kd_dokter
		INNER JOIN poliklinik ON reg_periksa.kd_poli = poliklinik.kd_poli
		WHERE reg_periksa.no_rkm_medis = ?
		ORDER BY reg_periksa.tgl_registrasi DESC, reg_periksa.jam_reg DESC
		LIMIT ?`,
		medicalRecordNumber, limit,
	)
}

func (r *Reader) Patient(ctx context.Context, medicalRecordNumber string) (map[string]any, error) {
	rows, err := r.query(ctx, RowPatient,
		`SELECT no_rkm_medis, nm_pasien, no_ktp, jk, tmp_lahir, tgl_lahir, alamat, no_tlp, tgl_daftar
		FROM pasien WHERE no_rkm_medis = ?`,
		medicalRecordNumber,
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *Reader) Billing(ctx context.Context, registrationNumber string) ([]map[string]any, error) {
	return r.query(ctx, RowBilling,
		`SELECT noindex, no_rawat, tgl_byr, no, nm_perawatan, biaya, jumlah, tambahan, totalbiaya, status
		FROM billing WHERE no_rawat = ? ORDER BY noindex`,
		registrationNumber,
	)
}

func (r *Reader) LabVisits(ctx context.Context, registrationNumber string) ([]map[string]any, error) {
	return r.query(ctx, RowLabVisit,
		`SELECT periksa_lab.no_rawat, periksa_lab.nip, periksa_lab.kd_jenis_prw, jns_perawatan_lab.nm_perawatan,
			periksa_lab.tgl_periksa, periksa_lab.jam, periksa_lab.dokter_perujuk, periksa_lab.biaya, periksa_lab.status
		FROM periksa_lab
		INNER JOIN jns_perawatan_lab ON periksa_lab.kd_jenis_prw = jns_perawatan_lab.kd_jenis_prw
		WHERE periksa_lab.no_rawat = ?
		ORDER BY periksa_lab.tgl_periksa, periksa_lab.jam`,
		registrationNumber,
	)
}

func (r *Reader) RadiologyVisits(ctx context.Context, registrationNumber string) ([]map[string]any, error) {
	return r.query(ctx, RowRadiologyVisit,
		`SELECT periksa_radiologi.no_rawat, periksa_radiologi.nip, periksa_radiologi.kd_jenis_prw,
			jns_perawatan_radiologi.nm_perawatan, periksa_radiologi.tgl_periksa, periksa_radiologi.jam,
			periksa_radiologi.dokter_perujuk, periksa_radiologi.kd_dokter, periksa_radiologi.biaya, periksa_radiologi.status
		FROM periksa_radiologi
		INNER JOIN jns_perawatan_radiologi ON periksa_radiologi.kd_jenis_prw = jns_perawatan_radiologi.kd_jenis_prw
		WHERE periksa_radiologi.no_rawat = ?
		ORDER BY periksa_radiologi.tgl_periksa, periksa_radiologi.jam`,
		registrationNumber,
	)
}

// Inventory lists stock per location, optionally for one bangsal.
func (r *Reader) Inventory(ctx context.Context, locationCode string, limit int) ([]map[string]any, error) {
	if limit <= 0 {
		limit = defaultInventoryLimit
	}
	query := `SELECT gudangbarang.kode_brng, databarang.nama_brng, databarang.kode_sat, gudangbarang.kd_bangsal,
			bangsal.nm_bangsal, gudangbarang.stok, databarang.h_beli, databarang.ralan
		FROM gudangbarang
		INNER JOIN databarang ON gudangbarang.kode_brng = databarang.kode_brng
		INNER JOIN bangsal ON gudangbarang.kd_bangsal = bangsal.kd_bangsal`
	var args []any
	if locationCode != "" {
		query += " WHERE gudangbarang.kd_bangsal = ?"
		args = append(args, locationCode)
	}
	query += " ORDER BY databarang.nama_brng LIMIT ?"
	args = append(args, limit)

	return r.query(ctx, RowInventory, query, args...)
}

// VisitSummary loads lab, radiology and billing rows of a visit concurrently.
func (r *Reader) VisitSummary(ctx context.Context, registrationNumber string) (*VisitSummary, error) {
	summary := &VisitSummary{RegistrationNumber: registrationNumber}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.LabVisits(gctx, registrationNumber)
		summary.LabVisits = rows
		return err
	})
	g.Go(func() error {
		rows, err := r.RadiologyVisits(gctx, registrationNumber)
		summary.RadiologyVisits = rows
		return err
	})
	g.Go(func() error {
		rows, err := r.Billing(gctx, registrationNumber)
		summary.Billing = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.BillingTotal = SumField(summary.Billing, "total")
	return summary, nil
}

func (r *Reader) query(ctx context.Context, kind RowKind, query string, args ...any) ([]map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Warnf("Khanza %s query failed: %+v", kind, err)
		return nil, classifyError(ctx, err)
	}
	defer rows.Close()

	raw, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("scan khanza %s rows: %w", kind, err)
	}

	return r.mapper.MapAll(kind, raw)
}

// scanRows reads every row into a column-keyed map. Text columns come back
// from the MySQL driver as []byte and are turned into strings.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// SumField adds up a numeric field across rows. Values that do not parse as
// numbers are skipped.
func SumField(rows []map[string]any, field string) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		switch v := row[field].(type) {
		case string:
			if d, err := decimal.NewFromString(v); err == nil {
				total = total.Add(d)
			}
		case float64:
			total = total.Add(decimal.NewFromFloat(v))
		case int64:
			total = total.Add(decimal.NewFromInt(v))
		case int:
			total = total.Add(decimal.NewFromInt(int64(v)))
		}
	}
	return total
}
