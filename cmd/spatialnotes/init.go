package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/spatialnotes"
	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a notes vault",
	Long:  `Create the vault directory and an empty notes file unless one already exists.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		dir := vaultDir
		if dir == "" {
			dir = "."
		}

		repo, err := spatialnotes.Init(dir, commonOptions()...)
		if err != nil {
			fatal("Failed to initialize vault", err)
		}

		ctx := context.Background()
		if _, err := repo.Load(ctx); err == nil {
			fmt.Println("Vault already initialized in", dir)
			return
		} else if !errors.Is(err, core.ErrNotFound) {
			fatal("Existing notes file is unreadable", err)
		}

		if err := repo.Save(ctx, nil); err != nil {
			fatal("Failed to create notes file", err)
		}
		fmt.Println("Initialized empty notes vault in", dir)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
