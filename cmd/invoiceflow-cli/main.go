// Package main is the entry point for the InvoiceFlow CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// errInvalidDocument makes the process exit with status 2 so scripts can tell
// a failed validation apart from a usage or I/O error.
var errInvalidDocument = errors.New("document failed validation")

var rootCmd = &cobra.Command{
	Use:           "invoiceflow-cli",
	Short:         "InvoiceFlow CLI",
	Long:          `Offline spreadsheet validation and maintenance tasks for the InvoiceFlow backend.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errInvalidDocument) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(validateTimesheetCmd)
	rootCmd.AddCommand(validateRateCardCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(issueTokenCmd)
	rootCmd.AddCommand(reindexCmd)
}
