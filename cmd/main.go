package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/clustertools/spawnctl/internal/launcher"
	"github.com/clustertools/spawnctl/internal/plan"
	"github.com/clustertools/spawnctl/internal/roster"
	"github.com/clustertools/spawnctl/internal/settings"
	"github.com/clustertools/spawnctl/internal/ui"
)

// Version information (can be set at build time)
var (
	version = "0.1.0"
)

// rootCmd carries the launch surface itself: spawnctl is a single-verb
// tool, with init/doctor as helpers.
var rootCmd = &cobra.Command{
	Use:   "spawnctl [flags] program [args...]",
	Short: "Start one program instance per cluster machine",
	Long: `Spawnctl starts one instance of a program on every machine in a hosts
file, over ssh. Each instance receives SPAWNNODES (the comma-joined list
of all hosts, identical everywhere) and SPAWNID (its own 0-based index)
so the nodes can discover each other with no naming service.

With no -n/-f the program is launched locally as a one-node cluster.
With -s the nodes are started inside a persistent screen session instead
of being waited on.

Usage:
  spawnctl -n 4 -f hosts ./worker --flag     launch 4 nodes and wait
  spawnctl -s mysess -n 4 -f hosts ./worker  launch into screen windows
  spawnctl ./worker --flag                   single local launch`,
	Version:       version,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runLaunch,
}

func init() {
	// Flag parsing stops at the first positional so the program's own
	// arguments pass through verbatim.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.Flags().IntP("nodes", "n", 0, "Number of nodes to start")
	rootCmd.Flags().StringP("hostsfile", "f", "", "Hosts file, one hostname[:port] per line")
	rootCmd.Flags().BoolP("gui", "g", false, "Run each node inside xterm (X11-forwarded over ssh)")
	rootCmd.Flags().StringP("session", "s", "", "Launch nodes into a screen session with this name")
	rootCmd.Flags().Duration("timeout", 0, "Give up on the batch after this long (0 = wait forever)")
	rootCmd.Flags().StringP("config", "c", settings.DefaultPath, "Path to the settings file")
	rootCmd.Flags().Bool("no-tui", false, "Disable the live status view (use plain scrolling output)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
}

func runLaunch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	program, progArgs := args[0], args[1:]

	nodes, _ := cmd.Flags().GetInt("nodes")
	hostsfile, _ := cmd.Flags().GetString("hostsfile")
	gui, _ := cmd.Flags().GetBool("gui")
	session, _ := cmd.Flags().GetString("session")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	configPath, _ := cmd.Flags().GetString("config")
	noTUI, _ := cmd.Flags().GetBool("no-tui")

	sett, err := settings.Load(configPath)
	if err != nil {
		return err
	}
	if timeout == 0 {
		// Flag beats file; flag unset falls back to the file.
		if timeout, err = sett.WaitTimeout(); err != nil {
			return err
		}
	}

	local := nodes == 0 && hostsfile == ""
	mode := plan.ModeBackground
	switch {
	case session != "":
		mode = plan.ModeMultiplexer
	case local:
		mode = plan.ModeDirect
	}

	// Config conflicts are rejected before the roster is even loaded.
	cfg, err := plan.NewConfig(gui, mode, session, program, progArgs, sett)
	if err != nil {
		return err
	}

	var r roster.ClusterRoster
	if local {
		r = roster.Local()
	} else {
		if hostsfile == "" {
			return fmt.Errorf("-n without -f: a hosts file is required for multi-node launches")
		}
		if nodes < 1 {
			return fmt.Errorf("-f without -n: the number of nodes to start is required")
		}
		ui.Info(fmt.Sprintf("Starting %d machines", nodes))
		ui.Info(fmt.Sprintf("Hosts file: %s", hostsfile))
		ui.Info("Command line to run: " + strings.Join(append([]string{cfg.Program}, progArgs...), " "))

		if r, err = roster.Load(hostsfile, nodes); err != nil {
			return err
		}
	}

	cmds := plan.BuildAll(r, cfg)

	if mode == plan.ModeMultiplexer {
		mux := launcher.NewMultiplexer(sett.Screen, session)
		mux.Echo = ui.Command
		if err := mux.Attach(cmds); err != nil {
			return err
		}
		ui.Success(fmt.Sprintf("%d node(s) running in screen session %q (screen -x %s to attach)", len(cmds), session, session))
		return nil
	}

	return launchBatch(cmd.Context(), cmds, timeout, noTUI)
}

// launchBatch spawns the whole batch, waits for every node, and turns the
// aggregate result into the process exit status.
func launchBatch(ctx context.Context, cmds []plan.LaunchCommand, timeout time.Duration, noTUI bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	l := launcher.New()
	l.Timeout = timeout
	l.Echo = ui.Command

	var mon *ui.Monitor
	if !noTUI && len(cmds) > 1 && ui.MonitorSupported() {
		mon = ui.NewMonitor(cmds)
		l.Echo = mon.Println
		l.OnExit = mon.NodeExited
		mon.Start()
	}

	res := l.Launch(ctx, cmds)
	if mon != nil {
		mon.Finish()
	}

	if res.OK() {
		ui.Success(fmt.Sprintf("all %d node(s) exited cleanly", len(res.Nodes)))
		return nil
	}

	failed := res.Failed()
	for _, n := range failed {
		if n.Err != nil {
			ui.Fail(fmt.Sprintf("node %d (%s): %v", n.Index, n.Host, n.Err))
		} else {
			ui.Fail(fmt.Sprintf("node %d (%s): exit status %d", n.Index, n.Host, n.ExitCode))
		}
	}
	return fmt.Errorf("%d of %d node(s) failed", len(failed), len(res.Nodes))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
