package main

import (
	"fmt"

	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a note",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openNotes()
		n := resolveNote(svc, args[0])

		if err := svc.DeleteNote(n.ID); err != nil {
			fatal("Failed to delete note", err)
		}
		saveNotes(svc)
		fmt.Printf("Note %s deleted.\n", core.ShortID(n.ID))
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
