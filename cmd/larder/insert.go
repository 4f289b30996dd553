// Insert command stores a new document.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var insertCmd = &cobra.Command{
	Use:   "insert <json>",
	Short: "Insert a document into a table",
	Long: `Insert stores a JSON object as a new document and prints the assigned ID.

Example:
  larder insert '{"name": "bread", "qty": 3}'
  larder insert --table pantry '{"name": "flour"}'`,
	Args: cobra.ExactArgs(1),
	RunE: runInsert,
}

func runInsert(cmd *cobra.Command, args []string) error {
	fields, err := decodeFields(args[0])
	if err != nil {
		return err
	}
	if err := openDB(); err != nil {
		return err
	}

	id, err := table().Insert(fields)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]int{"id": id})
	}
	fmt.Printf("Inserted document %d\n", id)
	return nil
}
