package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/clustertools/spawnctl/internal/plan"
)

// NodeResult is one node's outcome after its launch process has been
// reaped (or failed to start).
type NodeResult struct {
	Index    int
	Host     string
	ExitCode int
	Err      error // spawn failure, or the batch timeout expiring
}

// Failed reports whether this node's launch counts against the batch.
func (r NodeResult) Failed() bool {
	return r.Err != nil || r.ExitCode != 0
}

// Result aggregates every node's exit status, in roster order. It is the
// explicit return value of the join-all phase: success is decidable from
// it alone, with no exit-code side channels.
type Result struct {
	Nodes []NodeResult
}

// OK reports whether every node launched and exited cleanly.
func (r Result) OK() bool {
	return len(r.Failed()) == 0
}

// Failed returns the nodes that spawned with an error or exited non-zero.
func (r Result) Failed() []NodeResult {
	var failed []NodeResult
	for _, n := range r.Nodes {
		if n.Failed() {
			failed = append(failed, n)
		}
	}
	return failed
}

// Launcher executes a batch of launch commands. The zero value is not
// usable; construct with New.
type Launcher struct {
	Shell   string        // shell for -c execution, default "sh"
	Timeout time.Duration // per-batch wait limit; 0 = wait forever

	// Echo is called with every command line immediately before it is
	// executed or injected. Operators rely on this trace; it is a
	// contract, not debug output.
	Echo func(line string)

	// OnExit, when set, is called from the reaper goroutine as each
	// node's process finishes.
	OnExit func(NodeResult)

	Stdout io.Writer
	Stderr io.Writer
}

// New returns a Launcher with pass-through stdio and a plain-print echo.
func New() *Launcher {
	return &Launcher{
		Shell:  "sh",
		Echo:   func(line string) { fmt.Println(line) },
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Launch spawns every command as a concurrent local child process,
// back-to-back with no throttling, then blocks until all of them have
// exited. A node that fails to spawn or exits non-zero never cancels its
// siblings; every other node still runs to completion.
//
// Completion order is arbitrary. Results come back in roster order.
func (l *Launcher) Launch(ctx context.Context, cmds []plan.LaunchCommand) Result {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	results := make([]NodeResult, len(cmds))
	var wg sync.WaitGroup

	for i, cmd := range cmds {
		results[i] = NodeResult{Index: cmd.Node.Index, Host: cmd.Node.Host}

		l.Echo(cmd.Line)
		child := exec.CommandContext(ctx, l.Shell, "-c", cmd.Line)
		child.Stdout = l.Stdout
		child.Stderr = l.Stderr

		if err := child.Start(); err != nil {
			results[i].ExitCode = -1
			results[i].Err = fmt.Errorf("spawning node %d (%s): %w", cmd.Node.Index, cmd.Node.Host, err)
			if l.OnExit != nil {
				l.OnExit(results[i])
			}
			continue
		}

		wg.Add(1)
		go func(i int, child *exec.Cmd) {
			defer wg.Done()
			err := child.Wait()
			results[i].ExitCode = child.ProcessState.ExitCode()
			if err != nil && ctx.Err() != nil {
				results[i].Err = fmt.Errorf("node %d (%s): %w", results[i].Index, results[i].Host, ctx.Err())
			}
			if l.OnExit != nil {
				l.OnExit(results[i])
			}
		}(i, child)
	}

	wg.Wait()
	return Result{Nodes: results}
}
