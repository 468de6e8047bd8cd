// Package cmd is the main command file for Cobra
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plainbook/plainbook/cmd/commands"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plainbook",
	Short: "plainbook is a plain text accounting ledger parser",
	Long:  `plainbook parses and validates plain text double-entry accounting ledgers.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(commands.CreateCheckCommand())
	rootCmd.AddCommand(commands.CreateFormatCommand())
	rootCmd.AddCommand(commands.CreatePrintCommand())
}
