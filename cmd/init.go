package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexaid-ng/lexaid/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default lexaid configuration file",
	Long:  `Writes a .lexaid.yml with default settings to the current directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil {
			return fmt.Errorf("%s already exists", cfgFile)
		}

		cfg := config.DefaultConfig()
		if err := cfg.Save(cfgFile); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Wrote %s\n", cfgFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
