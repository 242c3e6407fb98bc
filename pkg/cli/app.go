package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mchmarny/escape/pkg/config"
	"github.com/mchmarny/escape/pkg/data"
	"github.com/mchmarny/escape/pkg/logging"
	urfave "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "escape"
	appConfigKey = "app-config"

	debugFlagName  = "debug"
	configFlagName = "config"
	dbFlagName     = "db"
	formatFlagName = "format"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger(config.DefaultLogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		stop()
		os.Exit(1)
	}
}

type appConfig struct {
	Dir    string
	DBPath string
	Format string
	Debug  bool
	Config *config.Config
	DB     *sql.DB
}

func getConfig(cmd *urfave.Command) *appConfig {
	cfg, ok := cmd.Root().Metadata[appConfigKey].(*appConfig)
	if !ok {
		return nil
	}
	return cfg
}

func newApp() *urfave.Command {
	return &urfave.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Usage:                 "Escape scores for points of the Mandelbrot set plane",
		Metadata:              map[string]any{},
		Flags: []urfave.Flag{
			&urfave.BoolFlag{
				Name:  debugFlagName,
				Usage: "Prints verbose logs (optional, default: false)",
			},
			&urfave.StringFlag{
				Name:  configFlagName,
				Usage: fmt.Sprintf("Path to the config directory (optional, default: $HOME/.%s)", appName),
			},
			&urfave.StringFlag{
				Name:  dbFlagName,
				Usage: "Path to the Sqlite database file (optional, default: <config>/" + data.DataFileName + ")",
			},
			&urfave.StringFlag{
				Name:  formatFlagName,
				Usage: "Output format [json, yaml] (optional, default from config)",
			},
		},
		Commands: []*urfave.Command{
			newScoreCmd(),
			newGreetCmd(),
			newBenchCmd(),
			newHistoryCmd(),
			newServerCmd(),
		},
		Before: setup,
		After: func(_ context.Context, cmd *urfave.Command) error {
			if cfg := getConfig(cmd); cfg != nil && cfg.DB != nil {
				return cfg.DB.Close()
			}
			return nil
		},
	}
}

func setup(ctx context.Context, cmd *urfave.Command) (context.Context, error) {
	debug := cmd.Bool(debugFlagName)
	if debug {
		logging.SetDefaultCLILogger("debug")
	}

	dir := cmd.String(configFlagName)
	if dir == "" {
		home, _, err := config.GetOrCreateHomeDir(appName)
		if err != nil {
			return ctx, fmt.Errorf("resolving config dir: %w", err)
		}
		dir = home
	}

	c, err := config.ReadOrCreate(dir)
	if err != nil {
		return ctx, fmt.Errorf("reading config: %w", err)
	}

	if !debug {
		logging.SetDefaultCLILogger(c.LogLevel)
	}

	format, err := parseFormat(c.Format)
	if err != nil {
		return ctx, err
	}
	if f := cmd.String(formatFlagName); f != "" {
		if format, err = parseFormat(f); err != nil {
			return ctx, err
		}
	}

	dbPath := cmd.String(dbFlagName)
	if dbPath == "" {
		dbPath = c.DBPath
	}
	if dbPath == "" {
		dbPath = filepath.Join(dir, data.DataFileName)
	}

	if err := data.Init(dbPath); err != nil {
		return ctx, fmt.Errorf("initializing database: %w", err)
	}

	db, err := data.GetDB(dbPath)
	if err != nil {
		return ctx, fmt.Errorf("opening database: %w", err)
	}

	slog.Debug("app configured", "config", dir, "db", dbPath, "format", format)

	cmd.Root().Metadata[appConfigKey] = &appConfig{
		Dir:    dir,
		DBPath: dbPath,
		Format: format,
		Debug:  debug,
		Config: c,
		DB:     db,
	}
	return ctx, nil
}

func parseFormat(f string) (string, error) {
	format, err := config.ParseFormat(f)
	if err != nil {
		return "", fmt.Errorf("parsing output format: %w", err)
	}
	return format, nil
}

func encode(cmd *urfave.Command, v any) error {
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	format := config.FormatJSON
	if cfg := getConfig(cmd); cfg != nil {
		format = cfg.Format
	}
	return encodeTo(w, format, v)
}

func encodeTo(w io.Writer, format string, v any) error {
	if format == config.FormatYAML {
		e := yaml.NewEncoder(w)
		defer e.Close()
		return e.Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
