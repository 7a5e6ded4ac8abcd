package khanza

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridgingRegistrar_Registered(t *testing.T) {
	var received bridgingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/registrasi", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","no_reg":"7","no_rawat":"2026/10/16/000001","no_rkm_medis":"000123"}`))
	}))
	defer srv.Close()

	registrar := NewBridgingRegistrar(srv.URL+"/", "secret", DefaultClinicTable(), time.Second, discardLogger())
	assert.Equal(t, SyncMethodBridging, registrar.Method())

	result := registrar.Register(context.Background(), testPatient(), testVisit())

	registered, ok := result.(Registered)
	require.True(t, ok, "expected Registered, got %#v", result)
	assert.Equal(t, "AK-007", registered.QueueNumber)
	assert.Equal(t, "000123", registered.MedicalRecordNumber)
	assert.Equal(t, "2026/10/16/000001", registered.RegistrationNumber)

	assert.Equal(t, "1234567890123456", received.NoKTP)
	assert.Equal(t, "L", received.JK)
	assert.Equal(t, "1990-01-01", received.TglLahir)
	assert.Equal(t, "ANA", received.KdPoli)
	assert.Equal(t, "D001", received.KdDokter)
	assert.Equal(t, "2026-10-16", received.TglPeriksa)
}

func TestBridgingRegistrar_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"rejected with 422", http.StatusUnprocessableEntity, `{"success":false,"message":"kd_dokter tidak ditemukan"}`, ErrRemoteValidation},
		{"success false", http.StatusOK, `{"success":false,"message":"kuota penuh"}`, ErrRemoteValidation},
		{"missing no_reg", http.StatusOK, `{"success":true}`, ErrRemoteValidation},
		{"server error", http.StatusBadGateway, `upstream down`, ErrConnection},
		{"garbled body", http.StatusOK, `<html>`, ErrConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			registrar := NewBridgingRegistrar(srv.URL, "", DefaultClinicTable(), time.Second, discardLogger())
			result := registrar.Register(context.Background(), testPatient(), testVisit())

			unavailable, ok := result.(Unavailable)
			require.True(t, ok, "expected Unavailable, got %#v", result)
			assert.ErrorIs(t, unavailable.Reason, tt.want)
		})
	}
}

func TestBridgingRegistrar_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	registrar := NewBridgingRegistrar(srv.URL, "", DefaultClinicTable(), 50*time.Millisecond, discardLogger())
	result := registrar.Register(context.Background(), testPatient(), testVisit())

	unavailable, ok := result.(Unavailable)
	require.True(t, ok)
	assert.ErrorIs(t, unavailable.Reason, ErrTimeout)
}

func TestBridgingRegistrar_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	registrar := NewBridgingRegistrar(url, "", DefaultClinicTable(), time.Second, discardLogger())
	result := registrar.Register(context.Background(), testPatient(), testVisit())

	unavailable, ok := result.(Unavailable)
	require.True(t, ok)
	assert.ErrorIs(t, unavailable.Reason, ErrConnection)
}
