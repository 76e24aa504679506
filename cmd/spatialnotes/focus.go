package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/aretw0/spatialnotes/pkg/reconcile"
	"github.com/spf13/cobra"
)

var focusDistance float64

var focusCmd = &cobra.Command{
	Use:   "focus <id>",
	Short: "Bring a note in front of the observer",
	Long: `Reconcile the vault into a simulated scene, then move the note to --distance
meters in front of the observer (see --camera and --yaw) and store its new position.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s := openSession(simulatedHost())
		n := resolveNote(s.Notes, args[0])

		if err := s.Start(ctx); err != nil {
			fatal("Failed to start scene", err)
		}

		var ok bool
		if err := s.Do(ctx, func(r *reconcile.Reconciler) {
			ok = r.Focus(n.ID, focusDistance)
		}); err != nil {
			fatal("Failed to focus note", err)
		}
		if err := s.Close(ctx); err != nil {
			fatal("Failed to close scene", err)
		}
		if !ok {
			fatal("Failed to focus note", fmt.Errorf("note %s has no anchor", core.ShortID(n.ID)))
		}

		focused, _ := s.Notes.GetNote(n.ID)
		fmt.Printf("Note %s focused at %s.\n", core.ShortID(n.ID), focused.Position)
	},
}

func init() {
	rootCmd.AddCommand(focusCmd)
	focusCmd.Flags().Float64VarP(&focusDistance, "distance", "d", reconcile.DefaultFocusDistance, "Distance in front of the observer, in meters")
	addCameraFlags(focusCmd)
}
