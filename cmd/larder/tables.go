// Tables command lists the tables in the database.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables in the database",
	RunE:  runTables,
}

func runTables(cmd *cobra.Command, args []string) error {
	if err := openDB(); err != nil {
		return err
	}
	names, err := db.Tables()
	if err != nil {
		return fmt.Errorf("tables: %w", err)
	}
	if flagJSON {
		return printJSON(names)
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
