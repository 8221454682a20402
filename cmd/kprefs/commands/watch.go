package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kairosolo/kprefs/internal/watch"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print a line whenever a store file changes, until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd)
		},
	}
}

func runWatch(ctx context.Context, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	w, err := wire.Watch(ctx, func(c watch.Change) {
		stamp := time.Now().Format(time.TimeOnly)
		switch {
		case c.Removed:
			fmt.Fprintf(out, "%s %s %s removed\n", stamp, c.Target, c.Profile)
		case c.Target == watch.TargetProfile:
			fmt.Fprintf(out, "%s profile %s: %d keys\n", stamp, c.Profile, wire.Store.Profile(c.Profile).Len())
		default:
			fmt.Fprintf(out, "%s %s changed\n", stamp, c.Target)
		}
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintf(out, "watching %s (Ctrl-C to stop)\n", wire.Store.Dir())
	select {
	case <-ctx.Done():
	case <-w.Done():
	}
	return nil
}
