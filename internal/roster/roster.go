package roster

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultPort is the ssh port assumed when a hosts-file line omits one.
const DefaultPort = 22

// NodeAddress identifies one machine in the cluster. Index is the node's
// 0-based rank, assigned by its position in the hosts file.
type NodeAddress struct {
	Host  string
	Port  int
	Index int
}

// ClusterRoster is the ordered list of cluster nodes.
type ClusterRoster []NodeAddress

// IsLocal reports whether this address resolves to the local machine and
// should bypass ssh entirely.
func (n NodeAddress) IsLocal() bool {
	return n.Host == "localhost" || strings.HasPrefix(n.Host, "127.")
}

// Hosts returns the host strings in roster order.
func (r ClusterRoster) Hosts() []string {
	hosts := make([]string, len(r))
	for i, n := range r {
		hosts[i] = n.Host
	}
	return hosts
}

// Local returns a single-node roster for a purely local launch.
func Local() ClusterRoster {
	return ClusterRoster{{Host: "localhost", Port: DefaultPort, Index: 0}}
}

// LoadError describes a hosts-file failure, with the 1-based line that
// could not be read or parsed (0 when the file itself is the problem).
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("hosts file %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("hosts file %s: unable to read line %d: %v", e.Path, e.Line, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads the first n lines of the hosts file at path into a roster.
// Each line is "hostname" or "hostname:port"; port defaults to 22.
// A missing file, a short file, or an unparsable port is fatal — no roster
// is returned, so nothing downstream can spawn a partial cluster.
func Load(path string, n int) (ClusterRoster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	nodes := make(ClusterRoster, 0, n)
	scanner := bufio.NewScanner(f)
	for i := 0; i < n; i++ {
		if !scanner.Scan() {
			err := scanner.Err()
			if err == nil {
				err = fmt.Errorf("file has only %d line(s), %d requested", i, n)
			}
			return nil, &LoadError{Path: path, Line: i + 1, Err: err}
		}

		node, err := parseLine(scanner.Text())
		if err != nil {
			return nil, &LoadError{Path: path, Line: i + 1, Err: err}
		}
		node.Index = i
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func parseLine(line string) (NodeAddress, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return NodeAddress{}, fmt.Errorf("empty line")
	}

	host, portStr, found := strings.Cut(line, ":")
	if !found {
		return NodeAddress{Host: host, Port: DefaultPort}, nil
	}

	port, err := strconv.Atoi(strings.TrimSpace(portStr))
	if err != nil {
		return NodeAddress{}, fmt.Errorf("invalid port %q", portStr)
	}
	return NodeAddress{Host: strings.TrimSpace(host), Port: port}, nil
}
