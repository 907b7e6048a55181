package config

import (
	"os"
	"path/filepath"
	"time"
)

// S3Config points the image upload sub-step at an S3-compatible store.
// An empty Endpoint disables image upload.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
}

// Config holds runtime settings for the Planta client.
//
// Units: OnlineCheckInterval and CallTimeout are time.Duration values.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	CallTimeout         time.Duration

	// StoreBackend is "sqlite" or "badger"; DBPath is the sqlite file or the
	// badger directory.
	StoreBackend string
	DBPath       string

	// MetricsAddr enables the Prometheus endpoint when non-empty.
	MetricsAddr string
	LogLevel    string

	S3 S3Config
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.CallTimeout = 15 * time.Second
	c.StoreBackend = "sqlite"
	c.DBPath = defaultDBPath()
	c.MetricsAddr = ""
	c.LogLevel = "info"
	c.S3 = S3Config{Region: "us-east-1", Bucket: "planta-images"}
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "planta", "offline.db")
}

// LoadConfig constructs a Config from os.Args.
func LoadConfig() *Config {
	return Load(os.Args[1:])
}

// Load applies defaults, then the JSON file named by -c/-config (if any),
// then command-line flags. Later sources take precedence.
func Load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
