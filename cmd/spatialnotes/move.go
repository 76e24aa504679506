package main

import (
	"fmt"

	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <id> <x,y,z>",
	Short: "Store a new position for a note",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openNotes()
		n := resolveNote(svc, args[0])

		pos, err := parseVec(args[1])
		if err != nil {
			fatal("Invalid position", err)
		}
		n.Position = pos

		if err := svc.UpdateNote(n); err != nil {
			fatal("Failed to move note", err)
		}
		saveNotes(svc)
		fmt.Printf("Note %s moved to %s.\n", core.ShortID(n.ID), pos)
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
