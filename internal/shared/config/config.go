package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	Port            string        `yaml:"port"`
	Env             string        `yaml:"env"`
	CORSAllowOrigin []string      `yaml:"cors_allow_origins"`
	DatabaseURL     string        `yaml:"database_url"`
	RedisAddr       string        `yaml:"redis_addr"`
	RedisPassword   string        `yaml:"redis_password"`
	RedisDB         int           `yaml:"redis_db"`
	ObjectStoreType string        `yaml:"object_store"`
	LocalStoreDir   string        `yaml:"local_store_dir"`
	AWSRegion       string        `yaml:"aws_region"`
	S3Bucket        string        `yaml:"s3_bucket"`
	S3Prefix        string        `yaml:"s3_prefix"`
	MinioEndpoint   string        `yaml:"minio_endpoint"`
	MinioAccessKey  string        `yaml:"minio_access_key"`
	MinioSecretKey  string        `yaml:"minio_secret_key"`
	MinioBucket     string        `yaml:"minio_bucket"`
	MinioUseSSL     bool          `yaml:"minio_use_ssl"`
	AnalysisBaseURL string        `yaml:"analysis_base_url"`
	AnalysisTimeout time.Duration `yaml:"analysis_timeout"`
	UploadTimeout   time.Duration `yaml:"upload_timeout"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`

	JWTSecret          string `yaml:"jwt_secret"`
	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret"`
	GoogleRedirectURL  string `yaml:"google_redirect_url"`
	UIRedirectURL      string `yaml:"ui_redirect_url"`
}

// Load reads configuration from an optional YAML file overlaid with
// environment variables. Environment values always win.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	cfg := defaults()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			log.Printf("config: failed to read %s: %v", path, err)
		}
	}
	applyEnv(&cfg)

	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}
	return cfg
}

func defaults() Config {
	return Config{
		Port:            "8080",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		ObjectStoreType: "local",
		LocalStoreDir:   "./data",
		AnalysisBaseURL: "http://127.0.0.1:8000",
		AnalysisTimeout: 120 * time.Second,
		UploadTimeout:   60 * time.Second,
		MaxUploadBytes:  10 << 20,
	}
}

func loadYAML(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, cfg)
}

func applyEnv(cfg *Config) {
	setStr(&cfg.Port, "PORT")
	if raw := os.Getenv("ENV"); raw != "" {
		cfg.Env = normalizeEnv(raw)
	} else {
		cfg.Env = normalizeEnv(cfg.Env)
	}
	if raw := os.Getenv("CORS_ALLOW_ORIGINS"); raw != "" {
		cfg.CORSAllowOrigin = splitAndTrim(raw)
	}
	setStr(&cfg.DatabaseURL, "DATABASE_URL")
	setStr(&cfg.RedisAddr, "REDIS_ADDR")
	setStr(&cfg.RedisPassword, "REDIS_PASSWORD")
	if v, ok := readEnvInt("REDIS_DB"); ok {
		cfg.RedisDB = v
	}
	if raw := os.Getenv("OBJECT_STORE"); raw != "" {
		cfg.ObjectStoreType = normalizeStoreType(raw)
	} else {
		cfg.ObjectStoreType = normalizeStoreType(cfg.ObjectStoreType)
	}
	setStr(&cfg.LocalStoreDir, "LOCAL_STORE_DIR")
	setStr(&cfg.AWSRegion, "AWS_REGION")
	setStr(&cfg.S3Bucket, "S3_BUCKET")
	setStr(&cfg.S3Prefix, "S3_PREFIX")
	setStr(&cfg.MinioEndpoint, "MINIO_ENDPOINT")
	setStr(&cfg.MinioAccessKey, "MINIO_ACCESS_KEY")
	setStr(&cfg.MinioSecretKey, "MINIO_SECRET_KEY")
	setStr(&cfg.MinioBucket, "MINIO_BUCKET")
	if raw := os.Getenv("MINIO_USE_SSL"); raw != "" {
		cfg.MinioUseSSL = strings.EqualFold(strings.TrimSpace(raw), "true")
	}
	setStr(&cfg.AnalysisBaseURL, "ANALYSIS_BASE_URL")
	if v, ok := readEnvDuration("ANALYSIS_TIMEOUT"); ok {
		cfg.AnalysisTimeout = v
	}
	if v, ok := readEnvDuration("UPLOAD_TIMEOUT"); ok {
		cfg.UploadTimeout = v
	}
	if v, ok := readEnvInt("MAX_UPLOAD_BYTES"); ok {
		cfg.MaxUploadBytes = int64(v)
	}
	setStr(&cfg.JWTSecret, "JWT_SECRET")
	setStr(&cfg.GoogleClientID, "GOOGLE_CLIENT_ID")
	setStr(&cfg.GoogleClientSecret, "GOOGLE_CLIENT_SECRET")
	setStr(&cfg.GoogleRedirectURL, "GOOGLE_REDIRECT_URL")
	setStr(&cfg.UIRedirectURL, "UI_REDIRECT_URL")
}

func setStr(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func readEnvInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func readEnvDuration(key string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return d, true
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "minio":
		return "minio"
	default:
		return "local"
	}
}
