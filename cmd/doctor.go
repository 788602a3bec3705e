package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clustertools/spawnctl/internal/doctor"
	"github.com/clustertools/spawnctl/internal/ui"
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the launch environment is usable",
	Long: `The doctor command verifies the external programs spawnctl shells out
to (sh, ssh, screen, xterm) and reports the control machine's capacity.
Pass -n to sanity-check a planned fan-out before launching it.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().IntP("nodes", "n", 0, "Planned node count to check capacity against")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fanout, _ := cmd.Flags().GetInt("nodes")

	d := doctor.Diagnose(fanout)

	for _, tool := range d.Tools {
		switch {
		case tool.Installed:
			ui.Success(fmt.Sprintf("%-8s %s", tool.Name, tool.Path))
		case tool.Required:
			ui.Fail(fmt.Sprintf("%-8s missing — %s", tool.Name, tool.Hint))
		default:
			ui.Warn(fmt.Sprintf("%-8s missing — %s", tool.Name, tool.Hint))
		}
	}

	ui.Info("Control machine: " + doctor.FormatHostInfo(d.Host))
	for _, issue := range d.Issues {
		ui.Warn(issue)
	}

	if !d.Healthy {
		return fmt.Errorf("environment is not usable for launching")
	}
	ui.Success("Environment looks good")
	return nil
}
