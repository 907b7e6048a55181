// Package config handles configuration for the reference sync server,
// including defaults, JSON overlay, and command-line flags.
package config

import "os"

// Config holds runtime settings for the Planta sync server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - MetricsAddr: Prometheus endpoint address, disabled when empty.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrGRPC string
	DatabaseDSN      string
	MetricsAddr      string
	LogLevel         string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.MetricsAddr = ""
	c.LogLevel = "info"
}

// LoadConfig builds a Config from os.Args.
func LoadConfig() *Config {
	return Load(os.Args[1:])
}

// Load applies defaults, then an optional JSON file, then flags.
func Load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
