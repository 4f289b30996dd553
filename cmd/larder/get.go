// Get command looks up a single document.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/types"
)

var (
	getID    int
	getWhere string
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a single document by ID or field match",
	Long: `Get prints the first document selected by --id or --where.

Example:
  larder get --id 3
  larder get --where name=bread
  larder get --where qty=3 --json`,
	RunE: runGet,
}

func init() {
	getCmd.Flags().IntVar(&getID, "id", 0, "document ID")
	getCmd.Flags().StringVar(&getWhere, "where", "", "field=value equality match")
	getCmd.MarkFlagsOneRequired("id", "where")
	getCmd.MarkFlagsMutuallyExclusive("id", "where")
}

func runGet(cmd *cobra.Command, args []string) error {
	if err := openDB(); err != nil {
		return err
	}

	var doc *types.Document
	var err error
	if getID > 0 {
		doc, err = table().GetByID(getID)
	} else {
		q, qerr := parseWhere(getWhere)
		if qerr != nil {
			return qerr
		}
		doc, err = table().Get(q)
	}
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("no matching document")
	}
	return printDocuments([]types.Document{*doc})
}
