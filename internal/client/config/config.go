package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/protodesk/internal/client/events"
)

// S3 locates the bucket exports are uploaded to. Uploading is disabled
// while Bucket is empty.
type S3 struct {
	Bucket    string `env:"BUCKET"`
	Region    string `env:"REGION"`
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
}

// Config holds runtime settings for the protodesk shell.
type Config struct {
	APIBaseURL     string        `env:"PD_API_URL"`
	RequestTimeout time.Duration `env:"PD_REQUEST_TIMEOUT"`
	PageSize       int           `env:"PD_PAGE_SIZE"`
	DatabasePath   string        `env:"PD_DATABASE"`
	ExportDir      string        `env:"PD_EXPORT_DIR"`
	PolicyFile     string        `env:"PD_POLICY_FILE"`
	LogLevel       string        `env:"PD_LOG_LEVEL"`
	SessionSecret  string        `env:"PD_SESSION_SECRET"`
	S3             S3            `envPrefix:"PD_S3_"`
	NATSURL        string        `env:"PD_NATS_URL"`
	NATSSubject    string        `env:"PD_NATS_SUBJECT"`
}

// LoadDefaults populates c with defaults suitable for a local backend.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api/"
	c.RequestTimeout = 10 * time.Second
	c.PageSize = 10
	c.DatabasePath = "protodesk.db"
	c.ExportDir = "exports"
	c.LogLevel = "info"
	c.NATSSubject = events.DefaultSubject

	if host, err := os.Hostname(); err == nil {
		c.SessionSecret = host
	}
}

// LoadConfig applies defaults, then the environment (including a dotenv
// file), then the JSON file, then command-line flags. Later sources win.
// It panics on malformed input.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
