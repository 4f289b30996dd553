// Remove command deletes matching documents.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/types"
)

var (
	removeWhere string
	removeIDs   []int
)

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove matching documents from a table",
	Long: `Remove deletes every matching document and prints the removed IDs.
At least one of --where and --id is required; use truncate to empty a
table.

Example:
  larder remove --id 3
  larder remove --where name=bread`,
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().StringVar(&removeWhere, "where", "", "field=value equality match")
	removeCmd.Flags().IntSliceVar(&removeIDs, "id", nil, "document IDs to remove (repeatable)")
	removeCmd.MarkFlagsOneRequired("id", "where")
}

func runRemove(cmd *cobra.Command, args []string) error {
	var q types.Query
	var err error
	if removeWhere != "" {
		if q, err = parseWhere(removeWhere); err != nil {
			return err
		}
	}
	if err := openDB(); err != nil {
		return err
	}

	ids, err := table().Remove(q, removeIDs)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]any{"removed": ids})
	}
	fmt.Printf("Removed %d document(s): %v\n", len(ids), ids)
	return nil
}
