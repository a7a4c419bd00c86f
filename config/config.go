package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"shiftsense/api-gateway/internal/extract"
	"shiftsense/api-gateway/internal/ingest"
	"shiftsense/api-gateway/internal/scoring"
	"shiftsense/api-gateway/internal/store"
)

const (
	StorageSupabase = "supabase"
	StorageS3       = "s3"
)

type Config struct {
	Port           string `yaml:"port" validate:"required"`
	LogLevel       string `yaml:"log_level"`
	BodyLimitMB    int    `yaml:"body_limit_mb" validate:"gte=1"`
	GRPCHealthAddr string `yaml:"grpc_health_addr"`

	Supabase    SupabaseConfig `yaml:"supabase"`
	DatabaseURL string         `yaml:"database_url"`
	Storage     StorageConfig  `yaml:"storage"`
	Redis       RedisConfig    `yaml:"redis"`
	Gemini      GeminiConfig   `yaml:"gemini"`

	GoogleMapsAPIKey string `yaml:"google_maps_api_key"`

	Scoring scoring.Config `yaml:"scoring"`
	Extract extract.Config `yaml:"extract"`
	Ingest  ingest.Config  `yaml:"ingest"`
}

type SupabaseConfig struct {
	URL        string `yaml:"url" validate:"omitempty,url"`
	ServiceKey string `yaml:"service_key"`
	Bucket     string `yaml:"bucket"`
}

type StorageConfig struct {
	Backend string         `yaml:"backend" validate:"oneof=supabase s3"`
	S3      store.S3Config `yaml:"s3"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Port:        "8080",
		LogLevel:    "info",
		BodyLimitMB: 20,
		Supabase:    SupabaseConfig{Bucket: store.DefaultBucket},
		Storage:     StorageConfig{Backend: StorageSupabase},
		Redis:       RedisConfig{CacheTTL: 24 * time.Hour},
		Scoring:     scoring.DefaultConfig(),
		Extract:     extract.DefaultConfig(),
		Ingest:      ingest.DefaultConfig(),
	}
}

// Load reads a local .env if present, overlays the YAML file named by
// SHIFTSENSE_CONFIG, applies environment variables, and validates the result.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("SHIFTSENSE_CONFIG"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.GRPCHealthAddr, "GRPC_HEALTH_ADDR")
	setString(&c.Supabase.URL, "SUPABASE_URL")
	setString(&c.Supabase.ServiceKey, "SUPABASE_SERVICE_KEY")
	setString(&c.Supabase.Bucket, "SUPABASE_BUCKET")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.Storage.Backend, "STORAGE_BACKEND")
	setString(&c.Storage.S3.Bucket, "S3_BUCKET")
	setString(&c.Storage.S3.Region, "S3_REGION")
	setString(&c.Storage.S3.Endpoint, "S3_ENDPOINT")
	setString(&c.Storage.S3.AccessKey, "S3_ACCESS_KEY")
	setString(&c.Storage.S3.SecretKey, "S3_SECRET_KEY")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&c.Gemini.Model, "GEMINI_MODEL")
	setString(&c.GoogleMapsAPIKey, "GOOGLE_MAPS_API_KEY")
	setString(&c.Ingest.DefaultHomeLocation, "DEFAULT_HOME_LOCATION")
	setString(&c.Extract.NightShiftStart, "NIGHT_SHIFT_START")
	setString(&c.Extract.NightShiftEnd, "NIGHT_SHIFT_END")

	return errors.Join(
		setInt(&c.BodyLimitMB, "BODY_LIMIT_MB"),
		setInt(&c.Redis.DB, "REDIS_DB"),
		setInt(&c.Ingest.MaxConcurrentImages, "MAX_CONCURRENT_IMAGES"),
		setInt(&c.Extract.DefaultYear, "DEFAULT_YEAR"),
		setFloat(&c.Scoring.FuelCostPerKm, "FUEL_COST_PER_KM"),
		setDuration(&c.Extract.VisionTimeout, "VISION_TIMEOUT"),
		setBool(&c.Storage.S3.DisableSSL, "S3_DISABLE_SSL"),
	)
}

var validate = validator.New()

// Validate checks field constraints and that some row store is configured.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.DatabaseURL == "" && (c.Supabase.URL == "" || c.Supabase.ServiceKey == "") {
		return errors.New("invalid config: set DATABASE_URL or both SUPABASE_URL and SUPABASE_SERVICE_KEY")
	}
	if c.Storage.Backend == StorageS3 && c.Storage.S3.Bucket == "" {
		return errors.New("invalid config: S3_BUCKET is required when STORAGE_BACKEND=s3")
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
