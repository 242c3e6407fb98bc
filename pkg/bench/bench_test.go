package bench

import (
	"context"
	"testing"

	"github.com/mchmarny/escape/pkg/escape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, DefaultWidth, o.Width)
	assert.Equal(t, DefaultHeight, o.Height)
	assert.Equal(t, DefaultRounds, o.Rounds)
	assert.Equal(t, escape.DefaultViewport(), o.Viewport)
	assert.NoError(t, o.Validate())
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"defaults", func(*Options) {}, false},
		{"zero width", func(o *Options) { o.Width = 0 }, true},
		{"negative height", func(o *Options) { o.Height = -1 }, true},
		{"zero rounds", func(o *Options) { o.Rounds = 0 }, true},
		{"too many rounds", func(o *Options) { o.Rounds = MaxRounds + 1 }, true},
		{"max rounds", func(o *Options) { o.Rounds = MaxRounds }, false},
		{"bad viewport", func(o *Options) { o.Viewport.Magnification = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.mutate(&o)
			err := o.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRun(t *testing.T) {
	opts := Options{
		Viewport: escape.DefaultViewport(),
		Width:    64,
		Height:   32,
		Rounds:   2,
	}

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, 2, res.Rounds)
	assert.Equal(t, int64(64*32*2), res.Points)
	assert.Equal(t, res.Points, res.Escaped+res.Bounded)
	assert.Equal(t, opts, res.Options)
}

func TestRun_CountsMatchScores(t *testing.T) {
	opts := Options{
		Viewport: escape.Viewport{Magnification: 10, PanX: 2, PanY: 2},
		Width:    40,
		Height:   40,
		Rounds:   1,
	}

	var bounded int64
	for py := 0; py < opts.Height; py++ {
		for px := 0; px < opts.Width; px++ {
			if !escape.Iterate(opts.Viewport.Point(px, py)).Escaped {
				bounded++
			}
		}
	}

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, bounded, res.Bounded)
	assert.Positive(t, res.Bounded)
	assert.Positive(t, res.Escaped)
}

func TestRun_Invalid(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	assert.Error(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}
