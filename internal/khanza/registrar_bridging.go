package khanza

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const bridgingRegistrationPath = "/registrasi"

// BridgingRegistrar registers visits through the Khanza bridging HTTP API.
type BridgingRegistrar struct {
	baseURL string
	apiKey  string
	clinics *ClinicTable
	http    *http.Client
	log     *logrus.Logger
}

func NewBridgingRegistrar(baseURL, apiKey string, clinics *ClinicTable, timeout time.Duration, log *logrus.Logger) *BridgingRegistrar {
	return &BridgingRegistrar{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		clinics: clinics,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type bridgingRequest struct {
	NoKTP      string `json:"no_ktp"`
	NmPasien   string `json:"nm_pasien"`
	JK         string `json:"jk"`
	TglLahir   string `json:"tgl_lahir"`
	Alamat     string `json:"alamat"`
	NoTlp      string `json:"no_tlp"`
	NoRkmMedis string `json:"no_rkm_medis,omitempty"`
	KdPoli     string `json:"kd_poli"`
	KdDokter   string `json:"kd_dokter"`
	TglPeriksa string `json:"tgl_periksa"`
}

type bridgingResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	NoReg      string `json:"no_reg"`
	NoRawat    string `json:"no_rawat"`
	NoRkmMedis string `json:"no_rkm_medis"`
}

func (r *BridgingRegistrar) Method() SyncMethod { return SyncMethodBridging }

func (r *BridgingRegistrar) Register(ctx context.Context, patient PatientIdentity, visit VisitContext) Result {
	ctx, cancel := context.WithTimeout(ctx, r.http.Timeout)
	defer cancel()

	registered, err := r.register(ctx, patient, visit)
	if err != nil {
		reason := classifyError(ctx, err)
		r.log.Warnf("Khanza bridging registration failed for clinic %s: %+v", visit.ClinicSlug, reason)
		return Unavailable{Reason: reason}
	}
	return registered
}

func (r *BridgingRegistrar) register(ctx context.Context, patient PatientIdentity, visit VisitContext) (Registered, error) {
	payload, err := json.Marshal(bridgingRequest{
		NoKTP:      patient.NIK,
		NmPasien:   patient.Name,
		JK:         khanzaGender(patient.Gender),
		TglLahir:   patient.BirthDate.Format("2006-01-02"),
		Alamat:     patient.Address,
		NoTlp:      patient.Phone,
		NoRkmMedis: patient.MedicalRecordNumber,
		KdPoli:     visit.ClinicCode,
		KdDokter:   visit.DoctorCode,
		TglPeriksa: visit.VisitDate.Format("2006-01-02"),
	})
	if err != nil {
		return Registered{}, fmt.Errorf("%w: encode payload: %v", ErrRemoteValidation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+bridgingRegistrationPath, bytes.NewReader(payload))
	if err != nil {
		return Registered{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("X-Api-Key", r.apiKey)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return Registered{}, fmt.Errorf("bridging request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Registered{}, fmt.Errorf("read bridging response: %w", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return Registered{}, fmt.Errorf("%w: status %d: %s", ErrRemoteValidation, resp.StatusCode, string(body))
	}
	if resp.StatusCode >= 500 {
		return Registered{}, fmt.Errorf("%w: status %d", ErrConnection, resp.StatusCode)
	}

	var result bridgingResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return Registered{}, fmt.Errorf("%w: decode response: %v", ErrConnection, err)
	}
	if !result.Success || result.NoReg == "" {
		return Registered{}, fmt.Errorf("%w: %s", ErrRemoteValidation, result.Message)
	}

	return Registered{
		QueueNumber:         FormatQueueNumber(r.clinics.Prefix(visit.ClinicSlug), result.NoReg),
		MedicalRecordNumber: result.NoRkmMedis,
		RegistrationNumber:  result.NoRawat,
	}, nil
}
