package plan

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/clustertools/spawnctl/internal/roster"
	"github.com/clustertools/spawnctl/internal/settings"
	"github.com/clustertools/spawnctl/internal/shellesc"
)

// Mode selects how node processes are brought up and supervised.
type Mode int

const (
	// ModeDirect runs a single local child process.
	ModeDirect Mode = iota
	// ModeBackground fans out one concurrent ssh child per remote node and
	// waits for all of them.
	ModeBackground
	// ModeMultiplexer types each node's command into a window of a
	// persistent screen session and returns immediately.
	ModeMultiplexer
)

func (m Mode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeBackground:
		return "background"
	case ModeMultiplexer:
		return "multiplexer"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ErrModeConflict is returned when GUI launch and multiplexer mode are both
// requested. Both want to own the display wrapping and cannot compose.
var ErrModeConflict = errors.New("-s and -g are mutually exclusive")

// LaunchConfig is the validated, immutable launch request.
type LaunchConfig struct {
	GUI         bool
	Mode        Mode
	SessionName string
	Program     string
	Args        []string
	WorkDir     string
	Settings    settings.Settings
}

// NewConfig validates and assembles a LaunchConfig. The GUI/multiplexer
// conflict is rejected here, before any roster is loaded.
func NewConfig(gui bool, mode Mode, session, program string, args []string, s settings.Settings) (LaunchConfig, error) {
	if gui && mode == ModeMultiplexer {
		return LaunchConfig{}, ErrModeConflict
	}
	if program == "" {
		return LaunchConfig{}, errors.New("no program to launch")
	}

	wd, err := os.Getwd()
	if err != nil {
		return LaunchConfig{}, fmt.Errorf("determining working directory: %w", err)
	}

	return LaunchConfig{
		GUI:         gui,
		Mode:        mode,
		SessionName: session,
		Program:     program,
		Args:        args,
		WorkDir:     wd,
		Settings:    s,
	}, nil
}

// LaunchCommand is the shell-ready line that brings up one node, paired
// with the address it targets. Built once, consumed once, never mutated.
type LaunchCommand struct {
	Node roster.NodeAddress
	Line string
}

// BuildAll produces one LaunchCommand per roster node, in roster order.
// Every command embeds the identical full-roster string so each node can
// parse its peers out of SPAWNNODES.
func BuildAll(r roster.ClusterRoster, cfg LaunchConfig) []LaunchCommand {
	cmds := make([]LaunchCommand, len(r))
	for i, node := range r {
		cmds[i] = Build(node, r, cfg)
	}
	return cmds
}

// Build constructs the command line that brings up the given node. The
// node argument alone decides local-vs-remote classification; the roster
// contributes only the shared SPAWNNODES value.
//
// Known gap kept for parity: remote hostnames are never escaped, including
// next to -oPort.
func Build(node roster.NodeAddress, r roster.ClusterRoster, cfg LaunchConfig) LaunchCommand {
	allHosts := `"` + strings.Join(r.Hosts(), ",") + `"`

	if cfg.Mode == ModeMultiplexer {
		return LaunchCommand{Node: node, Line: buildMultiplexerLine(node, allHosts, cfg)}
	}
	return LaunchCommand{Node: node, Line: buildExecLine(node, allHosts, cfg)}
}

// buildExecLine builds the one-shot form: env vars via `env`, ssh-destined
// values escaped for the remote shell's double quotes.
func buildExecLine(node roster.NodeAddress, allHosts string, cfg LaunchConfig) string {
	opts := strings.Join(cfg.Args, " ")

	if node.IsLocal() {
		// Direct local child: no remote shell boundary, no escaping.
		return join("env",
			"SPAWNNODES="+allHosts,
			fmt.Sprintf("SPAWNID=%d", node.Index),
			cfg.Program, opts)
	}

	remote := join(
		"cd "+shellesc.Escape(cfg.WorkDir), ";",
		"env",
		"SPAWNNODES="+shellesc.Escape(allHosts),
		fmt.Sprintf("SPAWNID=%d", node.Index),
		guiWrapper(cfg),
		shellesc.Escape(cfg.Program),
		shellesc.Escape(opts))

	return join(sshPrefix(cfg), portOption(node), node.Host, `"`+remote+`"`)
}

// buildMultiplexerLine builds the typed-into-a-shell form: env vars via
// `export`, no escaping (the line travels through screen's keystroke
// injection, not a local shell), trailing newline so it executes.
func buildMultiplexerLine(node roster.NodeAddress, allHosts string, cfg LaunchConfig) string {
	opts := strings.Join(cfg.Args, " ")
	export := fmt.Sprintf("export SPAWNNODES=%s SPAWNID=%d ;", allHosts, node.Index)

	if node.IsLocal() {
		return join(export, cfg.Program, opts) + "\n"
	}

	remote := join("cd "+cfg.WorkDir, ";", export, guiWrapper(cfg), cfg.Program, opts)
	return join(sshPrefix(cfg), portOption(node), node.Host, `"`+remote+`"`) + "\n"
}

func sshPrefix(cfg LaunchConfig) string {
	parts := []string{cfg.Settings.SSH}
	if cfg.GUI {
		parts = append(parts, "-X", "-Y")
	}
	parts = append(parts, "-n", "-q")
	parts = append(parts, cfg.Settings.SSHArgs...)
	return strings.Join(parts, " ")
}

func portOption(node roster.NodeAddress) string {
	if node.Port == roster.DefaultPort {
		return ""
	}
	return fmt.Sprintf("-oPort=%d", node.Port)
}

func guiWrapper(cfg LaunchConfig) string {
	if !cfg.GUI {
		return ""
	}
	return fmt.Sprintf("xterm -geometry %s -e", cfg.Settings.XtermGeometry)
}

// join glues tokens with single spaces, skipping empty ones so optional
// pieces (gui wrapper, port option, trailing args) never leave gaps.
func join(tokens ...string) string {
	kept := tokens[:0:0]
	for _, t := range tokens {
		if t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, " ")
}
