package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clustertools/spawnctl/internal/settings"
	"github.com/clustertools/spawnctl/internal/ui"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default " + settings.DefaultPath + " settings file",
	Long: `The init command writes a settings file with the built-in defaults so
they can be edited in place: the ssh and screen binaries to invoke, extra
ssh arguments, the xterm geometry for -g mode, and the batch timeout.

The file is optional — spawnctl runs with the same defaults when it is
absent.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringP("config", "c", settings.DefaultPath, "Where to write the settings file")
	initCmd.Flags().Bool("force", false, "Overwrite an existing settings file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := settings.Write(path, settings.Default()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	ui.Success("Wrote " + path)
	return nil
}
