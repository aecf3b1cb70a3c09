// Command braid plays model streaming transcripts in the terminal.
//
// Usage:
//
//	braid play session.sse
//	braid play --delay 25ms 'transcripts/**/*.sse'
//	braid dump --json session.sse
//	braid sessions import 'transcripts/*.sse'
//	braid sessions list
//
// Configuration lives in ~/.braid/config.yaml and can be overridden
// with BRAID_* environment variables and flags.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jcalloway/braid"
)

// version is stamped by the build; "dev" otherwise.
var version = "dev"

var (
	cfgFile  string
	logLevel string

	// resolved in PersistentPreRunE
	paths Paths
	cfg   Config
	log   zerolog.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "braid: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "braid",
		Short:   "Terminal player for model streaming transcripts",
		Long:    "Braid replays captured model streaming sessions: live in a terminal UI, as one-shot rendered or JSON output, or into a local session archive.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = resolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}
			cfg, err = loadConfig(paths.Config)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			log = newLogger(os.Stderr, cfg.LogLevel)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.braid/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, silent)")

	cmd.AddCommand(newPlayCmd())
	cmd.AddCommand(newDumpCmd())
	cmd.AddCommand(newSessionsCmd())

	return cmd
}

// newLogger builds the console logger all commands share.
func newLogger(w io.Writer, level string) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(out).With().Timestamp().Logger().Level(parseLevel(level))
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "silent":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// resolveTheme picks the theme from the flag, falling back to the
// configured one.
func resolveTheme(flagValue string) (braid.Theme, error) {
	name := flagValue
	if name == "" {
		name = cfg.Theme
	}
	theme, ok := braid.ThemeByName(name)
	if !ok {
		return braid.Theme{}, fmt.Errorf("unknown theme %q", name)
	}
	return theme, nil
}
