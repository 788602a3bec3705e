package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spawnctl.yaml")
	content := "ssh: /usr/local/bin/ssh\nssh_args: [\"-oBatchMode=yes\"]\ntimeout: 5m\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/ssh", s.SSH)
	assert.Equal(t, []string{"-oBatchMode=yes"}, s.SSHArgs)

	// Untouched fields keep their defaults.
	assert.Equal(t, "screen", s.Screen)
	assert.Equal(t, "120x60", s.XtermGeometry)

	d, err := s.WaitTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, d)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spawnctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ssh: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadBadTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spawnctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: soon\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spawnctl.yaml")

	in := Default()
	in.Timeout = "30s"
	require.NoError(t, Write(path, in))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWaitTimeoutEmpty(t *testing.T) {
	d, err := Default().WaitTimeout()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), d)
}
