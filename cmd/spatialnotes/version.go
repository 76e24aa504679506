package main

import (
	"fmt"

	"github.com/aretw0/spatialnotes"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of spatialnotes",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("spatialnotes version %s\n", spatialnotes.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
