package cli

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/mchmarny/escape/pkg/client"
	"github.com/mchmarny/escape/pkg/data"
	"github.com/mchmarny/escape/pkg/escape"
	urfave "github.com/urfave/cli/v3"
)

const (
	xFlagName      = "x"
	yFlagName      = "y"
	saveFlagName   = "save"
	remoteFlagName = "remote"
)

func newScoreCmd() *urfave.Command {
	return &urfave.Command{
		Name:   "score",
		Usage:  "Compute the escape score of a single point",
		Action: cmdScore,
		Flags: []urfave.Flag{
			&urfave.FloatFlag{
				Name:     xFlagName,
				Usage:    "Real part of the point (e.g. --x=-0.5)",
				Required: true,
			},
			&urfave.FloatFlag{
				Name:     yFlagName,
				Usage:    "Imaginary part of the point (e.g. --y=0.25)",
				Required: true,
			},
			&urfave.BoolFlag{
				Name:  saveFlagName,
				Usage: "Store the result in the history (optional, default: false)",
			},
			&urfave.StringFlag{
				Name:  remoteFlagName,
				Usage: "Score on a running server instead of locally (e.g. http://127.0.0.1:8080)",
			},
		},
	}
}

func cmdScore(ctx context.Context, cmd *urfave.Command) error {
	x, y := cmd.Float(xFlagName), cmd.Float(yFlagName)
	save := cmd.Bool(saveFlagName)

	if !isFinite(x) || !isFinite(y) {
		return fmt.Errorf("point must be finite, got: (%v, %v)", x, y)
	}

	if remote := cmd.String(remoteFlagName); remote != "" {
		c, err := client.New(remote)
		if err != nil {
			return fmt.Errorf("creating client: %w", err)
		}
		if err := c.Health(ctx); err != nil {
			return fmt.Errorf("server not reachable at %s: %w", remote, err)
		}
		r, err := c.Score(ctx, x, y, save)
		if err != nil {
			return fmt.Errorf("remote score: %w", err)
		}
		return encode(cmd, r)
	}

	r := escape.Iterate(x, y)
	slog.Debug("scored point", "x", r.X, "y", r.Y, "iterations", r.Iterations, "escaped", r.Escaped)

	if save {
		cfg := getConfig(cmd)
		if cfg == nil {
			return fmt.Errorf("saving score: %w", errNotConfigured)
		}
		if err := data.SaveScore(cfg.DB, r); err != nil {
			return fmt.Errorf("saving score: %w", err)
		}
	}

	return encode(cmd, r)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
