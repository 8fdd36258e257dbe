package configs

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// ConfigEnv overrides the configuration file location.
const ConfigEnv = "GIOURNAL_CONFIG"

// Paths are the per-user locations giournal reads and writes outside the journal itself.
type Paths struct {
	// ConfigFile is the TOML configuration file.
	ConfigFile string

	// StateDir holds the local operation history.
	StateDir string

	// DataDir is the default storage directory offered on first run.
	DataDir string
}

// ResolvePaths computes the paths from the environment. XDG variables are
// re-read on every call so tests can override them with t.Setenv.
func ResolvePaths() Paths {
	xdg.Reload()

	configFile := os.Getenv(ConfigEnv)
	if configFile == "" {
		configFile = filepath.Join(xdg.ConfigHome, "giournal", "config.toml")
	}

	return Paths{
		ConfigFile: configFile,
		StateDir:   filepath.Join(xdg.StateHome, "giournal"),
		DataDir:    filepath.Join(xdg.DataHome, "giournal"),
	}
}

// HistoryFile is the JSON Lines file recording past operations.
func (p Paths) HistoryFile() string {
	return filepath.Join(p.StateDir, "history.jsonl")
}
