// List command prints documents in a table.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/types"
)

var listWhere string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in a table",
	Long: `List prints every document in the table, optionally filtered.

Example:
  larder list
  larder list --table pantry --where qty=3
  larder list --json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listWhere, "where", "", "field=value equality filter")
}

func runList(cmd *cobra.Command, args []string) error {
	if err := openDB(); err != nil {
		return err
	}

	var docs []types.Document
	var err error
	if listWhere != "" {
		q, qerr := parseWhere(listWhere)
		if qerr != nil {
			return qerr
		}
		docs, err = table().Search(q)
	} else {
		docs, err = table().All()
	}
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	return printDocuments(docs)
}
