package config

import (
	"encoding/json"
	"os"

	"github.com/pedro664/PLANTA-sub001/internal/flagx"
	"github.com/pedro664/PLANTA-sub001/internal/timex"
)

type jsonS3 struct {
	Endpoint  string `json:"endpoint"`
	Region    string `json:"region"`
	Bucket    string `json:"bucket"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	PublicURL string `json:"public_url"`
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals use
// timex.Duration so they can be strings like "3s" or integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	CallTimeout         timex.Duration `json:"call_timeout"`
	StoreBackend        string         `json:"store_backend"`
	DBPath              string         `json:"db_path"`
	MetricsAddr         string         `json:"metrics_addr"`
	LogLevel            string         `json:"log_level"`
	S3                  *jsonS3        `json:"s3"`
}

// parseJson overlays Config with the non-empty values of the JSON file named
// by -c/-config. It panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
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

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.StoreBackend, jc.StoreBackend)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.CallTimeout.Duration > 0 {
		cfg.CallTimeout = jc.CallTimeout.Duration
	}

	if s := jc.S3; s != nil {
		setString(&cfg.S3.Endpoint, s.Endpoint)
		setString(&cfg.S3.Region, s.Region)
		setString(&cfg.S3.Bucket, s.Bucket)
		setString(&cfg.S3.AccessKey, s.AccessKey)
		setString(&cfg.S3.SecretKey, s.SecretKey)
		setString(&cfg.S3.PublicURL, s.PublicURL)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
