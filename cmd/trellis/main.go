package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/trellis/internal/config"
	"github.com/vango-dev/trellis/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌┬┐┬─┐┌─┐┬  ┬  ┬┌─┐
   │ ├┬┘├┤ │  │  │└─┐
   ┴ ┴└─└─┘┴─┘┴─┘┴└─┘
`

// globals holds the persistent flags.
type globals struct {
	dir      string
	logLevel string
}

func main() {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:   "trellis",
		Short: "A reactive component runtime for Go",
		Long: `Trellis renders reactive components into an in-memory DOM.

Components declare data, computed values and watchers; changes are
batched by a scheduler and applied with a keyed virtual DOM diff.
The resulting operations can be rendered to HTML or streamed to a
browser over a WebSocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&g.dir, "dir", "C", ".", "Directory to search for "+config.ConfigFileName)
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (overrides the config file)")

	rootCmd.AddCommand(
		renderCmd(g),
		benchCmd(g),
		serveCmd(g),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// load reads the nearest config file and applies flag overrides.
func (g *globals) load() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(g.dir)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newLogger builds the process logger described by cfg.
func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
