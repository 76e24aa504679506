package main

import (
	"fmt"

	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/spf13/cobra"
)

var (
	editContent  string
	editCategory string
	editSize     string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the content, category or size of a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openNotes()
		n := resolveNote(svc, args[0])

		flags := cmd.Flags()
		if !flags.Changed("content") && !flags.Changed("category") && !flags.Changed("size") {
			fatal("Nothing to edit", fmt.Errorf("pass --content, --category or --size"))
		}
		if flags.Changed("content") {
			n.Content = editContent
		}
		if flags.Changed("category") {
			n.Category = core.ParseCategory(editCategory)
		}
		if flags.Changed("size") {
			n.Size = core.ParseSize(editSize)
		}

		if err := svc.UpdateNote(n); err != nil {
			fatal("Failed to update note", err)
		}
		saveNotes(svc)
		fmt.Printf("Note %s updated.\n", core.ShortID(n.ID))
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editContent, "content", "", "New content")
	editCmd.Flags().StringVarP(&editCategory, "category", "c", "", "New category")
	editCmd.Flags().StringVarP(&editSize, "size", "s", "", "New size")
}
