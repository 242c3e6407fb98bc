package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mchmarny/escape/pkg/bench"
	urfave "github.com/urfave/cli/v3"
)

const (
	widthFlagName         = "width"
	heightFlagName        = "height"
	roundsFlagName        = "rounds"
	magnificationFlagName = "magnification"
	panXFlagName          = "pan-x"
	panYFlagName          = "pan-y"
)

func newBenchCmd() *urfave.Command {
	return &urfave.Command{
		Name:   "bench",
		Usage:  "Time sequential scoring of every pixel of a canvas",
		Action: cmdBench,
		Flags: []urfave.Flag{
			&urfave.IntFlag{
				Name:  widthFlagName,
				Usage: "Canvas width in pixels (optional, default from config)",
			},
			&urfave.IntFlag{
				Name:  heightFlagName,
				Usage: "Canvas height in pixels (optional, default from config)",
			},
			&urfave.IntFlag{
				Name:  roundsFlagName,
				Usage: fmt.Sprintf("Number of full canvas passes [%d-%d] (optional, default from config)", bench.MinRounds, bench.MaxRounds),
			},
			&urfave.FloatFlag{
				Name:  magnificationFlagName,
				Usage: "Pixels per plane unit (optional, default from config)",
			},
			&urfave.FloatFlag{
				Name:  panXFlagName,
				Usage: "Plane offset subtracted from x (optional, default from config)",
			},
			&urfave.FloatFlag{
				Name:  panYFlagName,
				Usage: "Plane offset subtracted from y (optional, default from config)",
			},
		},
	}
}

func cmdBench(ctx context.Context, cmd *urfave.Command) error {
	opts := bench.DefaultOptions()
	if cfg := getConfig(cmd); cfg != nil {
		opts = cfg.Config.Bench.Options()
	}
	opts = applyBenchFlags(cmd, opts)

	slog.Info("running benchmark",
		"width", opts.Width,
		"height", opts.Height,
		"rounds", opts.Rounds,
	)

	res, err := bench.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("running benchmark: %w", err)
	}

	slog.Info("benchmark done", "elapsed", res.Elapsed.String(), "per_point", res.PerPoint.String())
	return encode(cmd, res)
}

func applyBenchFlags(cmd *urfave.Command, opts bench.Options) bench.Options {
	if cmd.IsSet(widthFlagName) {
		opts.Width = int(cmd.Int(widthFlagName))
	}
	if cmd.IsSet(heightFlagName) {
		opts.Height = int(cmd.Int(heightFlagName))
	}
	if cmd.IsSet(roundsFlagName) {
		opts.Rounds = int(cmd.Int(roundsFlagName))
	}
	if cmd.IsSet(magnificationFlagName) {
		opts.Viewport.Magnification = cmd.Float(magnificationFlagName)
	}
	if cmd.IsSet(panXFlagName) {
		opts.Viewport.PanX = cmd.Float(panXFlagName)
	}
	if cmd.IsSet(panYFlagName) {
		opts.Viewport.PanY = cmd.Float(panYFlagName)
	}
	return opts
}
