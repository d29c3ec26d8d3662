package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/storebox/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend server (default from Config)
//	-f string   local database file (default from Config)
//	-w int      search debounce in milliseconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base url of the backend server")
	fs.StringVar(&cfg.DatabaseDSN, "f", cfg.DatabaseDSN, "local database file")
	debounceMs := fs.Int("w", int(cfg.SearchDebounce.Milliseconds()), "search debounce (in milliseconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SearchDebounce = time.Duration(*debounceMs) * time.Millisecond
}
