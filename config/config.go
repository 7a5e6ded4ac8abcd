package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	JWT    JWTConfig
	Khanza KhanzaConfig
	Queue  QueueConfig
}

type AppConfig struct {
	Port           string
	Env            string
	Timezone       string
	AllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig holds the shared secret used to verify tokens issued by the
// identity provider. The service never issues tokens itself.
type JWTConfig struct {
	Secret string
	Issuer string
}

// KhanzaConfig describes how to reach SIMRS Khanza. Which integration is used
// depends on what is set: a database host wins over a bridging URL.
type KhanzaConfig struct {
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	BridgingURL string
	BridgingKey string
	Timeout     time.Duration
}

type QueueConfig struct {
	Backend        string
	MemoryFallback bool
}

// Khanza integration methods, reported to clients as syncMethod.
const (
	KhanzaMethodDatabase = "database"
	KhanzaMethodBridging = "bridging"
	KhanzaMethodNone     = "none"
)

// Queue backends
const (
	QueueBackendRedis  = "redis"
	QueueBackendMemory = "memory"
)

// Method reports the Khanza integration selected by the present variables.
func (c KhanzaConfig) Method() string {
	switch {
	case c.DBHost != "":
		return KhanzaMethodDatabase
	case c.BridgingURL != "":
		return KhanzaMethodBridging
	default:
		return KhanzaMethodNone
	}
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments pass plain environment variables
	_ = godotenv.Load()
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_TIMEZONE", "Asia/Jakarta")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("KHANZA_DB_PORT", "3306")
	viper.SetDefault("KHANZA_DB_NAME", "sik")
	viper.SetDefault("QUEUE_BACKEND", QueueBackendRedis)
	viper.SetDefault("QUEUE_MEMORY_FALLBACK", false)

	khanzaTimeout, err := time.ParseDuration(viper.GetString("KHANZA_TIMEOUT"))
	if err != nil || khanzaTimeout <= 0 {
		khanzaTimeout = 5 * time.Second
	}

	config := &Config{
		App: AppConfig{
			Port:           viper.GetString("APP_PORT"),
			Env:            viper.GetString("APP_ENV"),
			Timezone:       viper.GetString("APP_TIMEZONE"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
			Issuer: viper.GetString("JWT_ISSUER"),
		},
		Khanza: KhanzaConfig{
			DBHost:      viper.GetString("KHANZA_DB_HOST"),
			DBPort:      viper.GetString("KHANZA_DB_PORT"),
			DBUser:      viper.GetString("KHANZA_DB_USER"),
			DBPassword:  viper.GetString("KHANZA_DB_PASSWORD"),
			DBName:      viper.GetString("KHANZA_DB_NAME"),
			BridgingURL: viper.GetString("KHANZA_BRIDGING_URL"),
			BridgingKey: viper.GetString("KHANZA_BRIDGING_API_KEY"),
			Timeout:     khanzaTimeout,
		},
		Queue: QueueConfig{
			Backend:        viper.GetString("QUEUE_BACKEND"),
			MemoryFallback: viper.GetBool("QUEUE_MEMORY_FALLBACK"),
		},
	}

	return config, nil
}

// splitList parses a comma-separated variable, dropping blanks.
func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
