package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/authportal/internal/flagx"
)

// parseFlags populates Config from command-line flags:
//
//	-a string   API base URL
//	-u string   client URL used in emailed links
//	-t int      request timeout in seconds
//	-d          dev mode (request logging)
//	-db string  path of the local session database
//
// Other flags in args are ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-u", "-t", "-db"}, []string{"-d"})

	fs := flag.NewFlagSet("authportal", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.ClientURL, "u", cfg.ClientURL, "client URL used in emailed links")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.BoolVar(&cfg.Dev, "d", cfg.Dev, "dev mode")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "local session database")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
