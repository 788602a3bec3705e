package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/clustertools/spawnctl/internal/launcher"
	"github.com/clustertools/spawnctl/internal/plan"
)

// MonitorSupported reports whether the live status view can run: stdout
// must be a terminal, otherwise callers fall back to plain echoes.
func MonitorSupported() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Monitor renders one status row per node while the batch wait is in
// flight. It observes the launch, it never controls it: the launcher
// keeps running exactly the same with or without a monitor attached.
type Monitor struct {
	program *tea.Program
	done    chan struct{}
}

type nodeRow struct {
	index    int
	host     string
	finished bool
	failed   bool
	detail   string
}

type nodeExitedMsg launcher.NodeResult

type finishMsg struct{}

type monitorModel struct {
	spinner spinner.Model
	rows    []nodeRow
}

// NewMonitor builds a monitor for the given launch commands.
func NewMonitor(cmds []plan.LaunchCommand) *Monitor {
	rows := make([]nodeRow, len(cmds))
	for i, cmd := range cmds {
		rows[i] = nodeRow{index: cmd.Node.Index, host: cmd.Node.Host}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#AD8EE6"})

	m := &Monitor{done: make(chan struct{})}
	m.program = tea.NewProgram(monitorModel{spinner: sp, rows: rows})
	return m
}

// Start runs the status view in the background. The caller must pair it
// with Finish once the batch wait returns.
func (m *Monitor) Start() {
	go func() {
		defer close(m.done)
		_, _ = m.program.Run()
	}()
}

// Println routes a line through the running program so it lands above the
// status area instead of tearing it. Used for the command echo contract.
func (m *Monitor) Println(line string) {
	m.program.Println(line)
}

// NodeExited records one node's result. Safe to call from the launcher's
// reaper goroutines.
func (m *Monitor) NodeExited(res launcher.NodeResult) {
	m.program.Send(nodeExitedMsg(res))
}

// Finish stops the view and waits for its final frame.
func (m *Monitor) Finish() {
	m.program.Send(finishMsg{})
	<-m.done
}

func (m monitorModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case nodeExitedMsg:
		for i := range m.rows {
			if m.rows[i].index != msg.Index {
				continue
			}
			m.rows[i].finished = true
			res := launcher.NodeResult(msg)
			m.rows[i].failed = res.Failed()
			switch {
			case msg.Err != nil:
				m.rows[i].detail = msg.Err.Error()
			case msg.ExitCode != 0:
				m.rows[i].detail = fmt.Sprintf("exit status %d", msg.ExitCode)
			default:
				m.rows[i].detail = "done"
			}
		}
		return m, nil

	case finishMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		// The batch outlives the view; keys never cancel node processes.
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m monitorModel) View() string {
	var out string
	for _, row := range m.rows {
		marker := m.spinner.View()
		detail := "running"
		switch {
		case row.finished && row.failed:
			marker = failStyle.Render("✗")
			detail = row.detail
		case row.finished:
			marker = successStyle.Render("✓")
			detail = row.detail
		}
		out += fmt.Sprintf("%s %-16s SPAWNID=%d  %s\n", marker, row.host, row.index, detail)
	}
	return out
}
