package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mchmarny/escape/pkg/data"
	urfave "github.com/urfave/cli/v3"
)

const (
	limitFlagName = "limit"
	yesFlagName   = "yes"
)

var errNotConfigured = errors.New("app not configured")

func newHistoryCmd() *urfave.Command {
	return &urfave.Command{
		Name:  "history",
		Usage: "Inspect or clear saved scores",
		Commands: []*urfave.Command{
			{
				Name:   "list",
				Usage:  "List most recently saved scores",
				Action: cmdHistoryList,
				Flags: []urfave.Flag{
					&urfave.IntFlag{
						Name:  limitFlagName,
						Usage: "Limits number of result returned",
						Value: data.ScoreListLimitDefault,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Summarize saved scores",
				Action: cmdHistoryStats,
			},
			{
				Name:   "reset",
				Usage:  "Delete all saved scores",
				Action: cmdHistoryReset,
				Flags: []urfave.Flag{
					&urfave.BoolFlag{
						Name:  yesFlagName,
						Usage: "Skip the confirmation prompt",
					},
				},
			},
		},
	}
}

func cmdHistoryList(_ context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)
	if cfg == nil {
		return errNotConfigured
	}

	list, err := data.ListScores(cfg.DB, int(cmd.Int(limitFlagName)))
	if err != nil {
		return fmt.Errorf("listing scores: %w", err)
	}

	return encode(cmd, list)
}

func cmdHistoryStats(_ context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)
	if cfg == nil {
		return errNotConfigured
	}

	s, err := data.GetStats(cfg.DB)
	if err != nil {
		return fmt.Errorf("getting stats: %w", err)
	}

	return encode(cmd, s)
}

func cmdHistoryReset(_ context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)
	if cfg == nil {
		return errNotConfigured
	}

	w := cmd.Root().Writer
	if !cmd.Bool(yesFlagName) {
		fmt.Fprintf(w, "This will permanently delete all saved scores in %s\n", cfg.DBPath)
		fmt.Fprint(w, "Are you sure? [y/N]: ")

		reader := bufio.NewReader(cmd.Root().Reader)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Fprintln(w, "Aborted.")
			return nil
		}
	}

	n, err := data.DeleteScores(cfg.DB)
	if err != nil {
		return fmt.Errorf("deleting scores: %w", err)
	}

	slog.Info("scores deleted", "count", n, "path", cfg.DBPath)
	return nil
}
