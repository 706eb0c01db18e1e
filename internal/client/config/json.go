package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/protodesk/internal/flagx"
	"github.com/dmitrijs2005/protodesk/internal/timex"
)

// JsonConfig is the on-disk form of Config. Intervals use timex.Duration so
// they may be written as "10s" or as integer nanoseconds.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	PageSize       int            `json:"page_size"`
	DatabasePath   string         `json:"database_path"`
	ExportDir      string         `json:"export_dir"`
	PolicyFile     string         `json:"policy_file"`
	LogLevel       string         `json:"log_level"`
	SessionSecret  string         `json:"session_secret"`
	S3             struct {
		Bucket    string `json:"bucket"`
		Region    string `json:"region"`
		Endpoint  string `json:"endpoint"`
		AccessKey string `json:"access_key"`
		SecretKey string `json:"secret_key"`
	} `json:"s3"`
	NATSURL     string `json:"nats_url"`
	NATSSubject string `json:"nats_subject"`
}

// parseJson overlays cfg with the file named by -c/-config. Keys missing
// from the file leave the current values untouched.
func parseJson(cfg *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.ExportDir, jc.ExportDir)
	setString(&cfg.PolicyFile, jc.PolicyFile)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.SessionSecret, jc.SessionSecret)
	setString(&cfg.S3.Bucket, jc.S3.Bucket)
	setString(&cfg.S3.Region, jc.S3.Region)
	setString(&cfg.S3.Endpoint, jc.S3.Endpoint)
	setString(&cfg.S3.AccessKey, jc.S3.AccessKey)
	setString(&cfg.S3.SecretKey, jc.S3.SecretKey)
	setString(&cfg.NATSURL, jc.NATSURL)
	setString(&cfg.NATSSubject, jc.NATSSubject)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
