package doctor

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// ToolStatus represents one external program the launcher shells out to.
type ToolStatus struct {
	Name      string
	Required  bool // ssh/sh are required; screen/xterm only for their modes
	Installed bool
	Path      string
	Hint      string
}

// HostInfo describes the control machine's capacity for fanning out ssh
// children.
type HostInfo struct {
	NumCPU      int
	MemoryTotal uint64
	Load1       float64
}

// Diagnosis contains the full health check results
type Diagnosis struct {
	Tools   []ToolStatus
	Host    HostInfo
	Healthy bool
	Issues  []string
}

// launch tools and what breaks without them
var tools = []struct {
	name     string
	required bool
	hint     string
}{
	{"sh", true, "launch commands are executed through sh -c"},
	{"ssh", true, "remote nodes cannot be launched without an ssh client"},
	{"screen", false, "-s (multiplexer mode) needs GNU screen"},
	{"xterm", false, "-g (GUI mode) wraps remote programs in xterm"},
}

// Diagnose checks that every external program the launcher shells out to
// is reachable and reports the control machine's capacity. fanout is the
// node count the operator intends to start (0 skips the capacity check).
func Diagnose(fanout int) Diagnosis {
	d := Diagnosis{Healthy: true}

	for _, tool := range tools {
		st := ToolStatus{Name: tool.name, Required: tool.required, Hint: tool.hint}
		if path, err := exec.LookPath(tool.name); err == nil {
			st.Installed = true
			st.Path = path
		} else if tool.required {
			d.Healthy = false
			d.Issues = append(d.Issues, fmt.Sprintf("%s not found: %s", tool.name, tool.hint))
		}
		d.Tools = append(d.Tools, st)
	}

	d.Host = detectHost()
	if issue := capacityIssue(d.Host, fanout); issue != "" {
		d.Issues = append(d.Issues, issue)
	}
	return d
}

func detectHost() HostInfo {
	info := HostInfo{NumCPU: runtime.NumCPU()}

	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemoryTotal = vm.Total
	}
	if avg, err := load.Avg(); err == nil {
		info.Load1 = avg.Load1
	}
	return info
}

// capacityIssue warns when the requested fan-out is heavy for the control
// machine. Each node costs a local sh+ssh pair, so hundreds of nodes on a
// small box will thrash before the cluster is even up. Advisory only.
func capacityIssue(host HostInfo, fanout int) string {
	if fanout <= 0 {
		return ""
	}
	if limit := host.NumCPU * 32; fanout > limit {
		return fmt.Sprintf("launching %d nodes spawns %d local processes; this machine (%d CPUs) may struggle above %d",
			fanout, 2*fanout, host.NumCPU, limit)
	}
	return ""
}

// FormatHostInfo renders the capacity line for the doctor report.
func FormatHostInfo(h HostInfo) string {
	return fmt.Sprintf("%d CPUs, %.1f GB memory, load %.2f",
		h.NumCPU, float64(h.MemoryTotal)/(1024*1024*1024), h.Load1)
}
