// Truncate command empties a table.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var truncateCmd = &cobra.Command{
	Use:   "truncate",
	Short: "Remove every document in a table",
	Long: `Truncate removes all documents from the table selected by --table.

Example:
  larder truncate --table pantry`,
	RunE: runTruncate,
}

func runTruncate(cmd *cobra.Command, args []string) error {
	if err := openDB(); err != nil {
		return err
	}
	if err := table().Truncate(); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	if flagJSON {
		return printJSON(map[string]string{"truncated": flagTable})
	}
	fmt.Printf("Truncated table %q\n", flagTable)
	return nil
}
