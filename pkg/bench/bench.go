// Package bench times sequential escape score sweeps over a canvas.
package bench

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mchmarny/escape/pkg/escape"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 720
	DefaultRounds = 5

	MinRounds = 1
	MaxRounds = 20
)

// Options configures a benchmark run.
type Options struct {
	Viewport escape.Viewport `json:"viewport" yaml:"viewport"`
	Width    int             `json:"width" yaml:"width"`
	Height   int             `json:"height" yaml:"height"`
	Rounds   int             `json:"rounds" yaml:"rounds"`
}

// Result summarizes a benchmark run.
type Result struct {
	Options  Options       `json:"options" yaml:"options"`
	Rounds   int           `json:"rounds" yaml:"rounds"`
	Points   int64         `json:"points" yaml:"points"`
	Escaped  int64         `json:"escaped" yaml:"escaped"`
	Bounded  int64         `json:"bounded" yaml:"bounded"`
	Elapsed  time.Duration `json:"elapsed" yaml:"elapsed"`
	PerPoint time.Duration `json:"per_point" yaml:"per_point"`
}

func DefaultOptions() Options {
	return Options{
		Viewport: escape.DefaultViewport(),
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Rounds:   DefaultRounds,
	}
}

// Validate checks canvas size, round count and viewport.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got: %dx%d", o.Width, o.Height)
	}
	if o.Rounds < MinRounds || o.Rounds > MaxRounds {
		return fmt.Errorf("rounds must be between %d and %d, got: %d", MinRounds, MaxRounds, o.Rounds)
	}
	if err := o.Viewport.Validate(); err != nil {
		return fmt.Errorf("invalid viewport: %w", err)
	}
	return nil
}

// Run scores every pixel of the canvas once per round, one point at a time.
// Cancellation is checked between rows.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Options: opts}
	start := time.Now()

	for round := 0; round < opts.Rounds; round++ {
		for py := 0; py < opts.Height; py++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			for px := 0; px < opts.Width; px++ {
				x, y := opts.Viewport.Point(px, py)
				if escape.Iterate(x, y).Escaped {
					res.Escaped++
				} else {
					res.Bounded++
				}
			}
		}
		res.Rounds++
		slog.Debug("bench round done", "round", res.Rounds, "elapsed", time.Since(start).String())
	}

	res.Points = res.Escaped + res.Bounded
	res.Elapsed = time.Since(start)
	if res.Points > 0 {
		res.PerPoint = res.Elapsed / time.Duration(res.Points)
	}

	return res, nil
}
