package settings

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds the optional launch defaults read from .spawnctl.yaml.
// Every field has a parity default so the file is never required.
type Settings struct {
	SSH           string   `yaml:"ssh,omitempty"`            // ssh binary
	SSHArgs       []string `yaml:"ssh_args,omitempty"`       // extra args after the standard flags
	Screen        string   `yaml:"screen,omitempty"`         // screen binary
	XtermGeometry string   `yaml:"xterm_geometry,omitempty"` // geometry for -g mode
	Timeout       string   `yaml:"timeout,omitempty"`        // batch wait timeout, e.g. "5m"; empty = wait forever
}

// DefaultPath is where Load looks when no explicit path is given.
const DefaultPath = ".spawnctl.yaml"

// Default returns the built-in settings, matching the historical command
// strings byte for byte.
func Default() Settings {
	return Settings{
		SSH:           "ssh",
		Screen:        "screen",
		XtermGeometry: "120x60",
	}
}

// WaitTimeout parses the timeout field. Zero means no timeout.
func (s Settings) WaitTimeout() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s.Timeout, err)
	}
	return d, nil
}

// Load reads settings from path, filling absent fields with defaults.
// A missing file is not an error; a malformed one is.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, err
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parsing %s: %w", path, err)
	}

	// Re-fill anything the file explicitly blanked.
	if s.SSH == "" {
		s.SSH = "ssh"
	}
	if s.Screen == "" {
		s.Screen = "screen"
	}
	if s.XtermGeometry == "" {
		s.XtermGeometry = "120x60"
	}

	if _, err := s.WaitTimeout(); err != nil {
		return Default(), err
	}
	return s, nil
}

// Write writes the settings as a YAML file.
func Write(path string, s Settings) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
