// Command htmx-lsp is a Language Server Protocol server offering htmx
// attribute completions.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	htmxlsp "github.com/cristianoliveira/htmx-lsp"
	"github.com/cristianoliveira/htmx-lsp/catalog"
	"github.com/cristianoliveira/htmx-lsp/lsp"
)

var version = "dev"

func main() {
	err := newApp().Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "htmx-lsp",
		Version: version,
		Usage:   "Language server for htmx attribute completion (speaks LSP on stdio)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file (default: nearest .htmx-lsp.yaml)",
				Sources: cli.EnvVars("HTMX_LSP_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level: debug, info, warn, error",
				Sources: cli.EnvVars("HTMX_LSP_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "write logs to this file instead of stderr",
				Sources: cli.EnvVars("HTMX_LSP_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:  "attribute-prefix",
				Usage: "attribute prefix eligible for value completion",
			},
		},
		Action: runServe,
		Commands: []*cli.Command{
			classifyCommand(),
		},
	}
}

// loadConfig resolves settings from the config file and command line flags,
// flags taking precedence.
func loadConfig(cmd *cli.Command) (*htmxlsp.Config, error) {
	var (
		cfg *htmxlsp.Config
		err error
	)

	if path := cmd.String("config"); path != "" {
		cfg, err = htmxlsp.LoadConfigFile(path)
	} else {
		cfg, err = htmxlsp.LoadConfig(".")
		if errors.Is(err, htmxlsp.ErrConfigNotFound) {
			cfg, err = htmxlsp.DefaultConfig(), nil
		}
	}

	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}

	if cmd.IsSet("log-file") {
		cfg.Log.File = cmd.String("log-file")
	}

	if cmd.IsSet("attribute-prefix") {
		cfg.AttributePrefix = cmd.String("attribute-prefix")
	}

	return cfg, nil
}

// newLogger builds a development logger. Logs never go to stdout, which
// carries the protocol.
func newLogger(cfg htmxlsp.LogConfig) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	if cfg.File != "" {
		config.OutputPaths = []string{cfg.File}
	}

	level := cfg.Level
	if level == "" {
		level = "info"
	}

	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	config.Level = atomic

	return config.Build()
}

func loadCatalog(cfg *htmxlsp.Config) (*catalog.Catalog, error) {
	if cfg.Catalog == "" {
		return catalog.Load()
	}

	return catalog.LoadFile(cfg.Catalog)
}

func newServer(cfg *htmxlsp.Config, logger *zap.Logger) (*lsp.Server, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return lsp.NewServer(logger, lsp.Options{
		Catalog:  cat,
		Analysis: cfg.Options(),
		Version:  version,
	}), nil
}
