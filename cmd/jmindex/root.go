// Package main provides the entry point for the jmindex CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for jmindex.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jmindex",
		Short: "Build a hiragana-keyed index from the jmdict-simplified dictionary",
		Long: `jmindex fetches the jmdict-simplified Japanese-English dictionary from
its GitHub releases and converts it into a compact JSON index keyed by
hiragana reading. Each reading maps to its katakana form and the kanji
spellings that share it.

The build command runs the whole pipeline: resolve the release asset,
download it, extract the archive, and write simple.min.json together
with a gzip copy.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewBuildCmd())
	cmd.AddCommand(NewUpdateCmd())
	cmd.AddCommand(NewConvertCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
