package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/pedro664/PLANTA-sub001/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the sync server
//	-i int      online check interval in seconds
//	-t int      per-call timeout for remote operations in seconds
//	-b string   store backend (sqlite, badger)
//	-d string   sqlite file or badger directory
//	-m string   address for the Prometheus endpoint (empty disables it)
//	-l string   log level
//
// Unknown flags are filtered out with flagx.FilterArgs so other components
// can share the command line. Malformed or non-positive values panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-t", "-b", "-d", "-m", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	callTimeout := fs.Int("t", int(cfg.CallTimeout.Seconds()), "remote call timeout (in seconds)")
	fs.StringVar(&cfg.StoreBackend, "b", cfg.StoreBackend, "store backend: sqlite or badger")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database path")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only explicit flags override, so sub-second JSON values survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.OnlineCheckInterval = positiveSeconds("i", *onlineCheckInterval)
		case "t":
			cfg.CallTimeout = positiveSeconds("t", *callTimeout)
		}
	})
}

func positiveSeconds(name string, n int) time.Duration {
	if n <= 0 {
		panic(fmt.Sprintf("flag -%s must be a positive number of seconds, got %d", name, n))
	}
	return time.Duration(n) * time.Second
}
