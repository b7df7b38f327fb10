package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Seednode/memoryflip/memory"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind            string
	corsOrigins     []string
	forbidSelfMatch bool
	port            int
	prefix          string
	profile         bool
	seed            uint64
	symbols         []string
	tlsCert         string
	tlsKey          string
	verbose         bool
	version         bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if err := memory.ValidateSymbols(c.deckSymbols()); err != nil {
		return fmt.Errorf("invalid --symbols: %w", err)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func (c *Config) deckSymbols() []memory.Symbol {
	symbols := make([]memory.Symbol, 0, len(c.symbols))
	for _, s := range c.symbols {
		symbols = append(symbols, memory.Symbol(strings.TrimSpace(s)))
	}
	return symbols
}

func defaultSymbols() []string {
	symbols := make([]string, 0, len(memory.DefaultSymbols))
	for _, s := range memory.DefaultSymbols {
		symbols = append(symbols, string(s))
	}
	return symbols
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("MEMORYFLIP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "memoryflip",
		Short:         "A matching-pairs card game, served as a single webapp.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: MEMORYFLIP_BIND)")
	fs.StringSliceVar(&cfg.corsOrigins, "cors-origin", []string{"*"}, "origins allowed to call the game API, empty to disable CORS (env: MEMORYFLIP_CORS_ORIGIN)")
	fs.BoolVar(&cfg.forbidSelfMatch, "forbid-self-match", false, "never report a card as matching itself (env: MEMORYFLIP_FORBID_SELF_MATCH)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: MEMORYFLIP_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: MEMORYFLIP_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: MEMORYFLIP_PROFILE)")
	fs.Uint64Var(&cfg.seed, "seed", 0, "seed for deck shuffling, 0 for a random seed (env: MEMORYFLIP_SEED)")
	fs.StringSliceVar(&cfg.symbols, "symbols", defaultSymbols(), "card faces, each dealt twice per game (env: MEMORYFLIP_SYMBOLS)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: MEMORYFLIP_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: MEMORYFLIP_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: MEMORYFLIP_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: MEMORYFLIP_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("memoryflip v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
