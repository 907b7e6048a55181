package config

import (
	"flag"

	"github.com/pedro664/PLANTA-sub001/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
//	-g string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN, empty for the in-memory store
//	-m string   metrics listen address
//	-l string   log level
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-g", "-d", "-m", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "metrics listen address")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
