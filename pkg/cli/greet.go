package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mchmarny/escape/pkg/escape"
	urfave "github.com/urfave/cli/v3"
)

func newGreetCmd() *urfave.Command {
	return &urfave.Command{
		Name:   "greet",
		Usage:  "Print the greeting",
		Action: cmdGreet,
	}
}

func cmdGreet(_ context.Context, cmd *urfave.Command) error {
	w := cmd.Root().Writer
	escape.Greet(func(msg string) {
		if _, err := fmt.Fprintln(w, msg); err != nil {
			slog.Error("failed to write greeting", "error", err)
		}
	})
	return nil
}
