package khanza

import "sort"

// UnknownClinicPrefix is used for queue numbers of clinics missing from the table.
const UnknownClinicPrefix = "XX"

// Clinic maps a portal clinic slug to its queue prefix and Khanza poliklinik code.
type Clinic struct {
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	Prefix     string `json:"prefix"`
	KhanzaCode string `json:"khanza_code"`
}

// ClinicTable is an immutable slug-indexed set of clinics.
type ClinicTable struct {
	bySlug map[string]Clinic
}

func NewClinicTable(clinics ...Clinic) *ClinicTable {
	t := &ClinicTable{bySlug: make(map[string]Clinic, len(clinics))}
	for _, c := range clinics {
		t.bySlug[c.Slug] = c
	}
	return t
}

// DefaultClinicTable returns the clinic vocabulary used by the portal frontend.
// Slugs and prefixes are part of the public output format.
func DefaultClinicTable() *ClinicTable {
	return NewClinicTable(
		Clinic{Slug: "penyakit-dalam", Name: "Penyakit Dalam", Prefix: "PD", KhanzaCode: "INT"},
		Clinic{Slug: "bedah", Name: "Bedah", Prefix: "BD", KhanzaCode: "BED"},
		Clinic{Slug: "anak", Name: "Anak", Prefix: "AK", KhanzaCode: "ANA"},
		Clinic{Slug: "kandungan", Name: "Kandungan", Prefix: "KD", KhanzaCode: "OBG"},
		Clinic{Slug: "mata", Name: "Mata", Prefix: "MT", KhanzaCode: "MAT"},
		Clinic{Slug: "kulit-dan-kelamin", Name: "Kulit dan Kelamin", Prefix: "KK", KhanzaCode: "KLT"},
		Clinic{Slug: "saraf", Name: "Saraf", Prefix: "SR", KhanzaCode: "SAR"},
		Clinic{Slug: "orthopedi", Name: "Orthopedi", Prefix: "OR", KhanzaCode: "ORT"},
		Clinic{Slug: "gigi", Name: "Gigi", Prefix: "GG", KhanzaCode: "GIG"},
		Clinic{Slug: "telinga-hidung-tenggorokan", Name: "Telinga Hidung Tenggorokan", Prefix: "TH", KhanzaCode: "THT"},
		Clinic{Slug: "umum", Name: "Umum", Prefix: "UM", KhanzaCode: "UMU"},
	)
}

func (t *ClinicTable) Lookup(slug string) (Clinic, bool) {
	c, ok := t.bySlug[slug]
	return c, ok
}

// Prefix returns the two-letter queue prefix, or UnknownClinicPrefix.
func (t *ClinicTable) Prefix(slug string) string {
	if c, ok := t.bySlug[slug]; ok && c.Prefix != "" {
		return c.Prefix
	}
	return UnknownClinicPrefix
}

// KhanzaCode returns the kd_poli for slug, or "" when the clinic is unknown.
func (t *ClinicTable) KhanzaCode(slug string) string {
	return t.bySlug[slug].KhanzaCode
}

// All returns the clinics ordered by slug.
func (t *ClinicTable) All() []Clinic {
	clinics := make([]Clinic, 0, len(t.bySlug))
	for _, c := range t.bySlug {
		clinics = append(clinics, c)
	}
	sort.Slice(clinics, func(i, j int) bool { return clinics[i].Slug < clinics[j].Slug })
	return clinics
}
