package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose  bool
	vaultDir string
	fileName string
	readOnly bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spatialnotes",
	Short: "Sticky notes anchored in 3D space",
	Long: `spatialnotes keeps a collection of notes, each with a position in space,
in one JSON file and reconciles them into a scene of anchored panels.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&vaultDir, "vault", "", "Vault directory (default: nearest directory holding a notes file, else the current one)")
	rootCmd.PersistentFlags().StringVar(&fileName, "file", "", "Notes file name inside the vault")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Never write to the vault")
}
