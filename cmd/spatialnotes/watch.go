package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/spatialnotes/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes made to the notes file by other programs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc := openNotes()
		events, err := svc.Watch(ctx)
		if err != nil {
			fatal("Failed to watch vault", err)
		}

		src := lifecycle.NewSource(events)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}

		fmt.Fprintf(os.Stderr, "watching %d notes, interrupt to stop\n", svc.Len())
		for e := range src.Events() {
			if err := svc.Load(ctx); err != nil {
				fmt.Printf("%s (unreadable: %v)\n", e, err)
				continue
			}
			fmt.Printf("%s (%d notes)\n", e, svc.Len())
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
