package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/clustertools/spawnctl/internal/launcher"
	"github.com/clustertools/spawnctl/internal/plan"
	"github.com/clustertools/spawnctl/internal/roster"
)

func testModel(hosts ...string) monitorModel {
	cmds := make([]plan.LaunchCommand, len(hosts))
	for i, h := range hosts {
		cmds[i] = plan.LaunchCommand{Node: roster.NodeAddress{Host: h, Index: i}}
	}
	rows := make([]nodeRow, len(cmds))
	for i, cmd := range cmds {
		rows[i] = nodeRow{index: cmd.Node.Index, host: cmd.Node.Host}
	}
	return monitorModel{spinner: spinner.New(), rows: rows}
}

func TestMonitorViewListsAllNodes(t *testing.T) {
	m := testModel("node1", "node2", "node3")
	view := m.View()

	for _, want := range []string{"node1", "node2", "node3", "SPAWNID=2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestMonitorRecordsExit(t *testing.T) {
	m := testModel("node1", "node2")

	next, _ := m.Update(nodeExitedMsg(launcher.NodeResult{Index: 1, Host: "node2", ExitCode: 3}))
	view := next.(monitorModel).View()

	if !strings.Contains(view, "exit status 3") {
		t.Errorf("view missing failure detail:\n%s", view)
	}
	// Node 0 is still running.
	if !strings.Contains(view, "running") {
		t.Errorf("view missing running marker:\n%s", view)
	}
}

func TestMonitorCleanExit(t *testing.T) {
	m := testModel("node1")

	next, _ := m.Update(nodeExitedMsg(launcher.NodeResult{Index: 0, Host: "node1"}))
	view := next.(monitorModel).View()

	if !strings.Contains(view, "done") {
		t.Errorf("view missing done marker:\n%s", view)
	}
	if strings.Contains(view, "running") {
		t.Errorf("finished node still shown running:\n%s", view)
	}
}
