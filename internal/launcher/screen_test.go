package launcher

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clustertools/spawnctl/internal/plan"
	"github.com/clustertools/spawnctl/internal/roster"
)

// fakeRunner records screen invocations and optionally fails on a match.
type fakeRunner struct {
	calls  []string
	failOn string
}

func (f *fakeRunner) Run(name string, args ...string) (string, error) {
	call := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, call)
	if f.failOn != "" && strings.Contains(call, f.failOn) {
		return "no such session", fmt.Errorf("exit status 1")
	}
	return "", nil
}

func testMux(runner Runner) *Multiplexer {
	m := NewMultiplexer("screen", "cluster")
	m.Runner = runner
	m.Echo = func(string) {}
	return m
}

func muxCmds(hosts ...string) []plan.LaunchCommand {
	cmds := make([]plan.LaunchCommand, len(hosts))
	for i, h := range hosts {
		cmds[i] = plan.LaunchCommand{
			Node: roster.NodeAddress{Host: h, Port: roster.DefaultPort, Index: i},
			Line: fmt.Sprintf("export SPAWNID=%d ; worker\n", i),
		}
	}
	return cmds
}

func TestAttachDrivesScreen(t *testing.T) {
	runner := &fakeRunner{}
	err := testMux(runner).Attach(muxCmds("verylonghostname1", "node2"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"screen -d -m -S cluster",
		"screen -x cluster -p 0 -X title verylong",
		"screen -x cluster -X screen -t node2",
		"screen -x cluster -p 0 -X stuff export SPAWNID=0 ; worker\n",
		"screen -x cluster -p 1 -X stuff export SPAWNID=1 ; worker\n",
	}, runner.calls)
}

func TestAttachSingleNodeCreatesNoExtraWindows(t *testing.T) {
	runner := &fakeRunner{}
	err := testMux(runner).Attach(muxCmds("localhost"))
	require.NoError(t, err)

	for _, call := range runner.calls {
		assert.NotContains(t, call, "-X screen -t")
	}
}

func TestAttachStopsOnFirstFailure(t *testing.T) {
	runner := &fakeRunner{failOn: "-X screen -t"}
	err := testMux(runner).Attach(muxCmds("node1", "node2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node 1")

	// Nothing was injected after the window-creation failure.
	for _, call := range runner.calls {
		assert.NotContains(t, call, "stuff")
	}
}

func TestAttachSessionCreationFailure(t *testing.T) {
	runner := &fakeRunner{failOn: "-d -m -S"}
	err := testMux(runner).Attach(muxCmds("node1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cluster")
}

func TestAttachEmpty(t *testing.T) {
	err := testMux(&fakeRunner{}).Attach(nil)
	assert.Error(t, err)
}

func TestAttachEchoesInjections(t *testing.T) {
	runner := &fakeRunner{}
	m := testMux(runner)
	var echoed []string
	m.Echo = func(line string) { echoed = append(echoed, line) }

	require.NoError(t, m.Attach(muxCmds("node1")))
	require.NotEmpty(t, echoed)
	assert.Contains(t, echoed[len(echoed)-1], "stuff")
}
