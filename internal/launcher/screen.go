package launcher

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/clustertools/spawnctl/internal/plan"
)

// Runner abstracts multiplexer command execution for testability.
type Runner interface {
	Run(name string, args ...string) (string, error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct{}

// Run executes a command and returns its combined output.
func (ExecRunner) Run(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// windowTitleLen caps window titles at a short hostname prefix so the
// screen status line stays readable.
const windowTitleLen = 8

// Multiplexer drives a persistent screen session: one window per node,
// each fed its launch command as literal keystrokes.
type Multiplexer struct {
	Screen  string // screen binary
	Session string
	Runner  Runner
	Echo    func(line string)
}

// NewMultiplexer returns a Multiplexer backed by the real screen binary.
func NewMultiplexer(screenBin, session string) *Multiplexer {
	return &Multiplexer{
		Screen:  screenBin,
		Session: session,
		Runner:  ExecRunner{},
		Echo:    func(line string) { fmt.Println(line) },
	}
}

// Attach creates the named session, one window per command, titles each
// window with its host's first characters, and types every command into
// its window. It returns once all injections are done — the session (and
// the node processes inside it) persists for interactive use.
//
// Each step depends on the previous one, so the first failure aborts.
func (m *Multiplexer) Attach(cmds []plan.LaunchCommand) error {
	if len(cmds) == 0 {
		return fmt.Errorf("no commands to attach")
	}

	// Detached session; its initial window belongs to node 0.
	if err := m.run("-d", "-m", "-S", m.Session); err != nil {
		return fmt.Errorf("creating session %q: %w", m.Session, err)
	}
	if err := m.run("-x", m.Session, "-p", "0", "-X", "title", windowTitle(cmds[0].Node.Host)); err != nil {
		return fmt.Errorf("titling window 0: %w", err)
	}

	// One extra window per remaining node.
	for _, cmd := range cmds[1:] {
		if err := m.run("-x", m.Session, "-X", "screen", "-t", windowTitle(cmd.Node.Host)); err != nil {
			return fmt.Errorf("creating window for node %d: %w", cmd.Node.Index, err)
		}
	}

	// Inject each command as keystrokes; the trailing newline built into
	// the line is what makes it execute.
	for i, cmd := range cmds {
		if err := m.run("-x", m.Session, "-p", strconv.Itoa(i), "-X", "stuff", cmd.Line); err != nil {
			return fmt.Errorf("injecting command for node %d: %w", cmd.Node.Index, err)
		}
	}
	return nil
}

func (m *Multiplexer) run(args ...string) error {
	m.Echo(m.Screen + " " + strings.Join(args, " "))
	out, err := m.Runner.Run(m.Screen, args...)
	if err != nil && out != "" {
		return fmt.Errorf("%s: %w", out, err)
	}
	return err
}

func windowTitle(host string) string {
	if len(host) > windowTitleLen {
		return host[:windowTitleLen]
	}
	return host
}
