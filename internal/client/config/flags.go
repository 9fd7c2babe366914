package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/loveops/internal/flagx"
)

// parseFlags populates Config fields from the short command-line flags.
// os.Args is filtered through flagx.FilterArgs first so that -c/-config
// stay with the JSON loader.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-d", "-s", "-l", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port of the sync server (empty disables sync)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database path")
	debounce := fs.Int("s", int(cfg.SyncDebounce.Milliseconds()), "auto push debounce (in milliseconds)")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file path")
	fs.StringVar(&cfg.ExportDir, "o", cfg.ExportDir, "export directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.SyncDebounce = time.Duration(*debounce) * time.Millisecond
}
