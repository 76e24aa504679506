package main

import (
	"fmt"
	"os"
	"time"

	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	listFormat   string
	listCategory string
	listSearch   string
)

// listItem is the YAML view of a note.
type listItem struct {
	ID       string     `yaml:"id"`
	Content  string     `yaml:"content"`
	Category string     `yaml:"category"`
	Size     string     `yaml:"size"`
	Position [3]float64 `yaml:"position,flow"`
	Placed   bool       `yaml:"placed"`
	Updated  time.Time  `yaml:"updated"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes in the vault",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openNotes()
		notes := filterNotes(svc, listCategory, listSearch)

		switch listFormat {
		case "json":
			data, err := core.EncodeNotes(notes)
			if err != nil {
				fatal("Failed to encode notes", err)
			}
			os.Stdout.Write(data)
		case "yaml":
			items := make([]listItem, 0, len(notes))
			for _, n := range notes {
				items = append(items, listItem{
					ID:       n.ID.String(),
					Content:  n.Content,
					Category: string(n.Category),
					Size:     string(n.Size),
					Position: n.Position.Array(),
					Placed:   n.Placed(),
					Updated:  n.UpdatedAt.UTC(),
				})
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			if err := enc.Encode(items); err != nil {
				fatal("Failed to encode YAML", err)
			}
			_ = enc.Close()
		case "text", "":
			for _, n := range notes {
				fmt.Println(summary(n))
			}
		default:
			fatal("Invalid --format", fmt.Errorf("unknown format %q (text, json, yaml)", listFormat))
		}
	},
}

// filterNotes applies the category filter, then the search query.
func filterNotes(svc *core.Service, category, query string) []core.Note {
	var notes []core.Note
	if category != "" {
		notes = svc.NotesIn(core.ParseCategory(category))
	} else if query != "" {
		notes = svc.Search(query)
	} else {
		return svc.ListNotes()
	}
	if category == "" || query == "" {
		return notes
	}

	matches := make(map[string]bool)
	for _, n := range svc.Search(query) {
		matches[n.ID.String()] = true
	}
	var out []core.Note
	for _, n := range notes {
		if matches[n.ID.String()] {
			out = append(out, n)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "text", "Output format (text, json, yaml)")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Only notes of this category")
	listCmd.Flags().StringVarP(&listSearch, "search", "q", "", "Only notes containing this text")
}
