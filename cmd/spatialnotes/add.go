package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/spf13/cobra"
)

var (
	addCategory string
	addSize     string
	addAt       string
)

var addCmd = &cobra.Command{
	Use:   "add <content>",
	Short: "Add a note",
	Long: `Add a note. Without --at the note is unplaced and appears in front of the
observer the next time a scene reconciles it.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openNotes()

		n := core.NewNote(strings.Join(args, " "))
		n.Category = core.ParseCategory(addCategory)
		n.Size = core.ParseSize(addSize)
		if addAt != "" {
			pos, err := parseVec(addAt)
			if err != nil {
				fatal("Invalid --at", err)
			}
			n.Position = pos
		}

		if err := svc.AddNote(n); err != nil {
			fatal("Failed to add note", err)
		}
		saveNotes(svc)
		fmt.Println(core.ShortID(n.ID))
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Category (work, personal, reminder, idea, todo)")
	addCmd.Flags().StringVarP(&addSize, "size", "s", "", "Size (small, medium, large)")
	addCmd.Flags().StringVar(&addAt, "at", "", "Position as x,y,z in meters")
}
