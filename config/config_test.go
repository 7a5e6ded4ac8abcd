package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKhanzaConfig_Method(t *testing.T) {
	tests := []struct {
		name string
		cfg  KhanzaConfig
		want string
	}{
		{"database wins", KhanzaConfig{DBHost: "10.0.0.5", BridgingURL: "http://bridge"}, KhanzaMethodDatabase},
		{"bridging", KhanzaConfig{BridgingURL: "http://bridge"}, KhanzaMethodBridging},
		{"nothing configured", KhanzaConfig{}, KhanzaMethodNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Method())
		})
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("KHANZA_DB_HOST", "khanza.local")
	t.Setenv("KHANZA_TIMEOUT", "2s")
	t.Setenv("QUEUE_BACKEND", QueueBackendMemory)
	t.Setenv("QUEUE_MEMORY_FALLBACK", "true")
	t.Setenv("JWT_ISSUER", "sso")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://portal.rs.test, https://admin.rs.test,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "Asia/Jakarta", cfg.App.Timezone)
	assert.Equal(t, "khanza.local", cfg.Khanza.DBHost)
	assert.Equal(t, "3306", cfg.Khanza.DBPort)
	assert.Equal(t, "sik", cfg.Khanza.DBName)
	assert.Equal(t, 2*time.Second, cfg.Khanza.Timeout)
	assert.Equal(t, KhanzaMethodDatabase, cfg.Khanza.Method())
	assert.Equal(t, QueueBackendMemory, cfg.Queue.Backend)
	assert.True(t, cfg.Queue.MemoryFallback)
	assert.Equal(t, "sso", cfg.JWT.Issuer)
	assert.Equal(t, []string{"https://portal.rs.test", "https://admin.rs.test"}, cfg.App.AllowedOrigins)
}

func TestLoadConfig_InvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("KHANZA_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Khanza.Timeout)
	assert.Equal(t, []string{"*"}, cfg.App.AllowedOrigins)
}
