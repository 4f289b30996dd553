// Init command for the larder CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/paths"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize larder configuration and storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		if err := ensureConfigDir(configDir); err != nil {
			return fmt.Errorf("init: %w", err)
		}
		if err := ensureDefaultConfigFile(configDir); err != nil {
			return fmt.Errorf("init: %w", err)
		}

		// Opening the database creates the storage file.
		if err := openDB(); err != nil {
			return fmt.Errorf("init: %w", err)
		}
		path, err := paths.ResolveDataPath(flagPath, "")
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}

		fmt.Println("Larder initialized successfully")
		fmt.Println("  config:", configDir)
		fmt.Println("  data:  ", path)
		return nil
	},
}
