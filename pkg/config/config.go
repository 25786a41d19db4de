package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database     DatabaseConfig
	Redis        RedisConfig
	CORS         CORSConfig
	Log          LogConfig
	Storage      StorageConfig
	Verification VerificationConfig
	Branding     BrandingConfig
	Bulk         BulkConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StorageConfig locates the artifact store on disk and the URL it is served from.
type StorageConfig struct {
	Dir           string
	PublicBaseURL string
}

// VerificationConfig tunes the public verification surface.
type VerificationConfig struct {
	DefaultBaseURL  string
	VerdictCacheTTL time.Duration
	QRPixelSize     int
}

// BrandingConfig carries the letterhead identity stamped on every document.
type BrandingConfig struct {
	OrgName  string
	Tagline  string
	Website  string
	Email    string
	LogoPath string
}

// BulkConfig tunes the bulk issuance worker queue.
type BulkConfig struct {
	Workers    int
	BufferSize int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Storage = StorageConfig{
		Dir:           v.GetString("ARTIFACTS_DIR"),
		PublicBaseURL: strings.TrimRight(v.GetString("ARTIFACTS_PUBLIC_BASE_URL"), "/"),
	}

	cfg.Verification = VerificationConfig{
		DefaultBaseURL:  strings.TrimRight(v.GetString("VERIFICATION_BASE_URL"), "/"),
		VerdictCacheTTL: parseDuration(v.GetString("VERDICT_CACHE_TTL"), 30*time.Second),
		QRPixelSize:     v.GetInt("QR_PIXEL_SIZE"),
	}

	cfg.Branding = BrandingConfig{
		OrgName:  v.GetString("BRAND_ORG_NAME"),
		Tagline:  v.GetString("BRAND_TAGLINE"),
		Website:  v.GetString("BRAND_WEBSITE"),
		Email:    v.GetString("BRAND_EMAIL"),
		LogoPath: v.GetString("BRAND_LOGO_PATH"),
	}

	cfg.Bulk = BulkConfig{
		Workers:    v.GetInt("BULK_WORKERS"),
		BufferSize: v.GetInt("BULK_BUFFER_SIZE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "credential_api")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ARTIFACTS_DIR", "./artifacts")
	v.SetDefault("ARTIFACTS_PUBLIC_BASE_URL", "http://localhost:8080/artifacts")

	v.SetDefault("VERIFICATION_BASE_URL", "https://matrixindustries.in/verify")
	v.SetDefault("VERDICT_CACHE_TTL", "30s")
	v.SetDefault("QR_PIXEL_SIZE", 500)

	v.SetDefault("BRAND_ORG_NAME", "MATRIX INDUSTRIES")
	v.SetDefault("BRAND_TAGLINE", "Innovation in Technology & Engineering")
	v.SetDefault("BRAND_WEBSITE", "www.matrixindustries.com")
	v.SetDefault("BRAND_EMAIL", "info@matrixindustries.com")
	v.SetDefault("BRAND_LOGO_PATH", "")

	v.SetDefault("BULK_WORKERS", 1)
	v.SetDefault("BULK_BUFFER_SIZE", 4)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
