package config

import (
	"flag"
	"os"

	"github.com/saikai-app/cardvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     address and port of the backend server
//	-d string     path to the local database file
//	-t duration   default card lifetime (e.g. 72h)
//	-w duration   re-registration cooldown period (e.g. 168h)
//	-p            prompt for a keystore passphrase at startup
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-w", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database file")
	fs.DurationVar(&cfg.CardTTL, "t", cfg.CardTTL, "default card lifetime")
	fs.DurationVar(&cfg.CooldownPeriod, "w", cfg.CooldownPeriod, "re-registration cooldown period")
	fs.BoolVar(&cfg.ProtectedKeystore, "p", cfg.ProtectedKeystore, "prompt for a keystore passphrase")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
