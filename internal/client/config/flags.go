package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/protodesk/internal/flagx"
)

// parseFlags overlays cfg with the flags this package owns:
//
//	-a string    API base URL
//	-t duration  per-request timeout (e.g. 15s)
//	-p int       list page size
//	-d string    local database path
//	-l string    log level: debug|info|warn|error
//
// Other arguments are ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-p", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "list page size")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
	if cfg.PageSize < 1 {
		panic(fmt.Errorf("page size must be positive, got %d", cfg.PageSize))
	}
}
