// Update command merges fields into matching documents.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/types"
)

var (
	updateWhere string
	updateIDs   []int
)

var updateCmd = &cobra.Command{
	Use:   "update <json>",
	Short: "Merge fields into matching documents",
	Long: `Update merges the given JSON object into every matching document and
prints the affected IDs. --where and --id combine with logical AND;
with neither, every document in the table is updated.

Example:
  larder update --where name=bread '{"qty": 5}'
  larder update --id 3 --id 4 '{"stale": true}'`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateWhere, "where", "", "field=value equality match")
	updateCmd.Flags().IntSliceVar(&updateIDs, "id", nil, "document IDs to update (repeatable)")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	fields, err := decodeFields(args[0])
	if err != nil {
		return err
	}
	var q types.Query
	if updateWhere != "" {
		if q, err = parseWhere(updateWhere); err != nil {
			return err
		}
	}
	if err := openDB(); err != nil {
		return err
	}

	ids, err := table().Update(fields, q, updateIDs)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]any{"updated": ids})
	}
	fmt.Printf("Updated %d document(s): %v\n", len(ids), ids)
	return nil
}
