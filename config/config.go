package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Config struct {
	// Server settings
	ServerPort      string        `json:"server_port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	Debug           bool          `json:"debug"`
	Environment     string        `json:"environment"`
	Version         string        `json:"version"`

	LogDir string `json:"log_dir"`

	Upload        UploadConfig        `json:"upload"`
	Auth          AuthConfig          `json:"-"`
	Extractor     ExtractorConfig     `json:"extractor"`
	Transcription TranscriptionConfig `json:"transcription"`
	Generation    GenerationConfig    `json:"generation"`
	Middleware    MiddlewareConfig    `json:"middleware"`
	CORS          CORSConfig          `json:"cors"`
	RateLimit     RateLimitConfig     `json:"rate_limit"`
	Database      DatabaseConfig      `json:"database"`
	Archive       ArchiveConfig       `json:"archive"`
}

type UploadConfig struct {
	Dir               string   `json:"dir"`
	MaxFileSize       int64    `json:"max_file_size"`
	AllowedExtensions []string `json:"allowed_extensions"`
}

// AuthConfig holds the expected Basic credentials. Leaving either field
// empty disables authentication.
type AuthConfig struct {
	Username string
	Password string
}

func (a AuthConfig) Enabled() bool {
	return a.Username != "" && a.Password != ""
}

type ExtractorConfig struct {
	Candidates []string      `json:"candidates"`
	Codec      string        `json:"codec"`
	Quality    string        `json:"quality"`
	Timeout    time.Duration `json:"timeout"`
}

type TranscriptionConfig struct {
	APIKey  string        `json:"-"`
	Model   string        `json:"model"`
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

type GenerationConfig struct {
	APIKey    string        `json:"-"`
	Model     string        `json:"model"`
	BaseURL   string        `json:"base_url"`
	MaxTokens int64         `json:"max_tokens"`
	Timeout   time.Duration `json:"timeout"`
}

type MiddlewareConfig struct {
	EnableRecover   bool `json:"enable_recover"`
	EnableRequestID bool `json:"enable_request_id"`
	EnableLogger    bool `json:"enable_logger"`
	EnableCORS      bool `json:"enable_cors"`
	EnableRateLimit bool `json:"enable_rate_limit"`
}

type CORSConfig struct {
	Enabled          bool     `json:"enabled"`
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	ExposedHeaders   []string `json:"exposed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `json:"enabled"`
	RequestsPerMinute int  `json:"requests_per_minute"`
	BurstSize         int  `json:"burst_size"`
}

// DatabaseConfig configures the run ledger. An empty Path disables it.
type DatabaseConfig struct {
	Path           string `json:"path"`
	MaxConnections int    `json:"max_connections"`
}

// ArchiveConfig configures the Spaces/S3 transcript archive. An empty
// Bucket disables it.
type ArchiveConfig struct {
	Endpoint  string `json:"endpoint"`
	Region    string `json:"region"`
	Bucket    string `json:"bucket"`
	AccessKey string `json:"-"`
	SecretKey string `json:"-"`
}

func (a ArchiveConfig) Enabled() bool {
	return a.Bucket != ""
}

func defaultDevConfig() MiddlewareConfig {
	return MiddlewareConfig{
		EnableRecover:   true,
		EnableRequestID: true,
		EnableLogger:    true,
		EnableCORS:      true,
		EnableRateLimit: false,
	}
}

func defaultProdConfig() MiddlewareConfig {
	return MiddlewareConfig{
		EnableRecover:   true,
		EnableRequestID: true,
		EnableLogger:    true,
		EnableCORS:      true,
		EnableRateLimit: true,
	}
}

// Load reads configuration from the environment, after applying an optional
// .env file from the working directory.
func Load() (*Config, error) {
	if err := loadDotEnv(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", 2*time.Minute),
		WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", 30*time.Minute),
		IdleTimeout:     getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		Debug:           getEnvAsBool("DEBUG", false),
		Environment:     getEnv("ENV", "development"),
		Version:         getEnv("VERSION", "1.0.0"),

		LogDir: getEnv("LOG_DIR", "./logs"),

		Upload: UploadConfig{
			Dir:               getEnv("UPLOAD_DIR", "uploads"),
			MaxFileSize:       getEnvAsInt64("MAX_UPLOAD_SIZE", 100*1024*1024),
			AllowedExtensions: getEnvAsStringSlice("ALLOWED_EXTENSIONS", []string{"mp4", "mov", "avi", "mkv"}),
		},

		Auth: AuthConfig{
			Username: os.Getenv("AUTH_USERNAME"),
			Password: os.Getenv("AUTH_PASSWORD"),
		},

		Extractor: ExtractorConfig{
			Candidates: getEnvAsStringSlice(
				"FFMPEG_PATHS",
				[]string{"/usr/bin/ffmpeg", "/usr/local/bin/ffmpeg", "ffmpeg"},
			),
			Codec:   getEnv("FFMPEG_AUDIO_CODEC", "libmp3lame"),
			Quality: getEnv("FFMPEG_AUDIO_QUALITY", "2"),
			Timeout: getEnvAsDuration("EXTRACT_TIMEOUT", 10*time.Minute),
		},

		Transcription: TranscriptionConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   getEnv("WHISPER_MODEL", "whisper-1"),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
			Timeout: getEnvAsDuration("TRANSCRIBE_TIMEOUT", 10*time.Minute),
		},

		Generation: GenerationConfig{
			APIKey:    os.Getenv("ANTHROPIC_API_KEY"),
			Model:     getEnv("CLAUDE_MODEL", "claude-sonnet-4-20250514"),
			BaseURL:   getEnv("ANTHROPIC_BASE_URL", ""),
			MaxTokens: getEnvAsInt64("GENERATE_MAX_TOKENS", 2000),
			Timeout:   getEnvAsDuration("GENERATE_TIMEOUT", 2*time.Minute),
		},

		CORS: CORSConfig{
			Enabled:          getEnvAsBool("CORS_ENABLED", false),
			AllowedOrigins:   getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getEnvAsStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders:   getEnvAsStringSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
			ExposedHeaders:   getEnvAsStringSlice("CORS_EXPOSED_HEADERS", []string{"X-Request-ID"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 86400),
		},

		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 30),
			BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 5),
		},

		Database: DatabaseConfig{
			Path:           getEnv("DB_PATH", ""),
			MaxConnections: getEnvAsInt("DB_MAX_CONNECTIONS", 4),
		},

		Archive: ArchiveConfig{
			Endpoint:  getEnv("SPACES_ENDPOINT", ""),
			Region:    getEnv("SPACES_REGION", "us-east-1"),
			Bucket:    getEnv("SPACES_BUCKET", ""),
			AccessKey: os.Getenv("SPACES_ACCESS_KEY"),
			SecretKey: os.Getenv("SPACES_SECRET_KEY"),
		},

		Middleware: defaultDevConfig(),
	}

	if cfg.Environment == "production" {
		cfg.Middleware = defaultProdConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validateServer(c); err != nil {
		return err
	}
	if err := validateUpload(c); err != nil {
		return err
	}
	if err := validateServices(c); err != nil {
		return err
	}
	return validatePaths(c)
}

func validateServer(c *Config) error {
	if c.ServerPort == "" {
		return errors.New("server port is required")
	}
	if c.ReadTimeout <= 0 {
		return errors.New("read timeout must be greater than 0")
	}
	if c.WriteTimeout <= 0 {
		return errors.New("write timeout must be greater than 0")
	}
	if c.IdleTimeout <= 0 {
		return errors.New("idle timeout must be greater than 0")
	}
	return nil
}

func validateUpload(c *Config) error {
	if c.Upload.Dir == "" {
		return errors.New("upload directory is required")
	}
	if c.Upload.MaxFileSize <= 0 {
		return errors.New("max upload size must be greater than 0")
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		return errors.New("at least one allowed extension is required")
	}
	for i, ext := range c.Upload.AllowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" {
			return errors.Errorf("allowed extension %d is empty", i)
		}
		c.Upload.AllowedExtensions[i] = ext
	}
	return nil
}

func validateServices(c *Config) error {
	if len(c.Extractor.Candidates) == 0 {
		return errors.New("at least one ffmpeg candidate path is required")
	}
	if c.Extractor.Timeout <= 0 {
		return errors.New("extract timeout must be greater than 0")
	}
	if c.Transcription.Timeout <= 0 {
		return errors.New("transcribe timeout must be greater than 0")
	}
	if c.Generation.Timeout <= 0 {
		return errors.New("generate timeout must be greater than 0")
	}
	if c.Generation.MaxTokens <= 0 {
		return errors.New("generate max tokens must be greater than 0")
	}
	return nil
}

func validatePaths(c *Config) error {
	paths := []struct {
		path string
		name string
	}{
		{c.Upload.Dir, "upload directory"},
		{c.LogDir, "log directory"},
	}

	for _, p := range paths {
		if p.path == "" {
			continue
		}
		if err := os.MkdirAll(p.path, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create %s", p.name)
		}
	}

	return nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil || stderrors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return errors.Wrapf(err, "failed to load %s", path)
}

// Helper functions for reading environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		warnInvalid(key, value, defaultValue, "integer")
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
		warnInvalid(key, value, defaultValue, "integer")
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		warnInvalid(key, value, defaultValue, "boolean")
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		warnInvalid(key, value, defaultValue, "duration")
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			parts := strings.Split(value, ",")
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			return out
		}
	}
	return defaultValue
}

func warnInvalid(key, value string, defaultValue any, kind string) {
	logrus.WithFields(logrus.Fields{
		"key":          key,
		"value":        value,
		"defaultValue": defaultValue,
	}).Warnf("Invalid %s, using default", kind)
}
