package khanza

import (
	"errors"
	"fmt"
)

var ErrUnknownRowKind = errors.New("unknown khanza row kind")

// RowKind identifies the Khanza query a row came from.
type RowKind string

const (
	RowRegistration   RowKind = "registration"
	RowPatient        RowKind = "patient"
	RowSchedule       RowKind = "schedule"
	RowBilling        RowKind = "billing"
	RowLabVisit       RowKind = "lab_visit"
	RowRadiologyVisit RowKind = "radiology_visit"
	RowInventory      RowKind = "inventory"
)

// FieldRename is a single source column to canonical key rename.
type FieldRename struct {
	Source string
	Target string
}

// FieldMap is the ordered rename list for one row kind.
type FieldMap []FieldRename

// Mapper renames SIMRS columns into the portal's canonical keys.
// It keeps no state besides the injected tables and never validates values.
type Mapper struct {
	maps map[RowKind]FieldMap
}

func NewMapper(maps map[RowKind]FieldMap) *Mapper {
	copied := make(map[RowKind]FieldMap, len(maps))
	for kind, fm := range maps {
		copied[kind] = append(FieldMap(nil), fm...)
	}
	return &Mapper{maps: copied}
}

// Map returns a new row keyed by canonical names. Every target key is present;
// a source column absent from row maps to nil. Columns not in the table are dropped.
func (m *Mapper) Map(kind RowKind, row map[string]any) (map[string]any, error) {
	fm, ok := m.maps[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRowKind, kind)
	}

	out := make(map[string]any, len(fm))
	for _, f := range fm {
		v, ok := row[f.Source]
		if !ok {
			out[f.Target] = nil
			continue
		}
		out[f.Target] = v
	}
	return out, nil
}

// MapAll maps every row of the same kind.
func (m *Mapper) MapAll(kind RowKind, rows []map[string]any) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		mapped, err := m.Map(kind, row)
		if err != nil {
			return nil, err
		}
		out = append(out, mapped)
	}
	return out, nil
}

// DefaultFieldMaps holds the renames for the Khanza tables the portal reads.
func DefaultFieldMaps() map[RowKind]FieldMap {
	return map[RowKind]FieldMap{
		RowRegistration: {
			{"no_reg", "queue_sequence"},
			{"no_rawat", "registration_number"},
			{"tgl_registrasi", "registration_date"},
			{"jam_reg", "registration_time"},
			{"kd_dokter", "doctor_code"},
			{"nm_dokter", "doctor_name"},
			{"no_rkm_medis", "medical_record_number"},
			{"kd_poli", "clinic_code"},
			{"nm_poli", "clinic_name"},
			{"stts", "status"},
			{"status_lanjut", "care_type"},
			{"kd_pj", "payer_code"},
			{"status_bayar", "payment_status"},
		},
		RowPatient: {
			{"no_rkm_medis", "medical_record_number"},
			{"nm_pasien", "name"},
			{"no_ktp", "national_id"},
			{"jk", "gender"},
			{"tmp_lahir", "birth_place"},
			{"tgl_lahir", "birth_date"},
			{"alamat", "address"},
			{"no_tlp", "phone"},
			{"tgl_daftar", "registered_at"},
		},
		RowSchedule: {
			{"kd_dokter", "doctor_code"},
			{"nm_dokter", "doctor_name"},
			{"hari_kerja", "day_of_week"},
			{"jam_mulai", "start_time"},
			{"jam_selesai", "end_time"},
			{"kd_poli", "clinic_code"},
			{"nm_poli", "clinic_name"},
			{"kuota", "quota"},
		},
		RowBilling: {
			{"noindex", "line_number"},
			{"no_rawat", "registration_number"},
			{"tgl_byr", "billed_at"},
			{"no", "item_code"},
			{"nm_perawatan", "description"},
			{"biaya", "unit_price"},
			{"jumlah", "quantity"},
			{"tambahan", "surcharge"},
			{"totalbiaya", "total"},
			{"status", "category"},
		},
		RowLabVisit: {
			{"no_rawat", "registration_number"},
			{"nip", "officer_id"},
			{"kd_jenis_prw", "procedure_code"},
			{"nm_perawatan", "procedure_name"},
			{"tgl_periksa", "examined_date"},
			{"jam", "examined_time"},
			{"dokter_perujuk", "referring_doctor_code"},
			{"biaya", "cost"},
			{"status", "care_type"},
		},
		RowRadiologyVisit: {
			{"no_rawat", "registration_number"},
			{"nip", "officer_id"},
			{"kd_jenis_prw", "procedure_code"},
			{"nm_perawatan", "procedure_name"},
			{"tgl_periksa", "examined_date"},
			{"jam", "examined_time"},
			{"dokter_perujuk", "referring_doctor_code"},
			{"kd_dokter", "radiologist_code"},
			{"biaya", "cost"},
			{"status", "care_type"},
		},
		RowInventory: {
			{"kode_brng", "item_code"},
			{"nama_brng", "item_name"},
			{"kode_sat", "unit"},
			{"kd_bangsal", "location_code"},
			{"nm_bangsal", "location_name"},
			{"stok", "stock"},
			{"h_beli", "purchase_price"},
			{"ralan", "outpatient_price"},
		},
	}
}
