package config

import (
	"encoding/json"
	"os"

	"github.com/pedro664/PLANTA-sub001/internal/flagx"
)

// JsonConfig is the on-disk shape of Config.
type JsonConfig struct {
	EndpointAddrGRPC string `json:"endpoint_addr_grpc"`
	DatabaseDSN      string `json:"database_dsn"`
	MetricsAddr      string `json:"metrics_addr"`
	LogLevel         string `json:"log_level"`
}

// parseJson overlays the non-empty values of the file named by -c/-config.
// It panics if the file cannot be read or parsed.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	for dst, v := range map[*string]string{
		&config.EndpointAddrGRPC: c.EndpointAddrGRPC,
		&config.DatabaseDSN:      c.DatabaseDSN,
		&config.MetricsAddr:      c.MetricsAddr,
		&config.LogLevel:         c.LogLevel,
	} {
		if v != "" {
			*dst = v
		}
	}
}
