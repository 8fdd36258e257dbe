package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	kerrors "github.com/PolarWolf314/giournal/internal/errors"
	"github.com/PolarWolf314/giournal/internal/secrets"
	"github.com/PolarWolf314/giournal/internal/utils"

	"github.com/google/uuid"
)

const (
	// DefaultRemoteName is the git remote used when none is configured.
	DefaultRemoteName = "origin"

	// DefaultBranch is the branch entries are pushed to when none is configured.
	DefaultBranch = "main"

	// DefaultPassphraseEnv is the environment variable checked for the passphrase.
	DefaultPassphraseEnv = "GIOURNAL_PASSPHRASE"
)

type JournalConfiguration struct {
	StorageDirectory string       `toml:"storage_directory"`
	Editor           string       `toml:"editor,omitempty"`
	Remote           RemoteConfig `toml:"remote"`
	Key              KeyConfig    `toml:"key"`
	Device           DeviceConfig `toml:"device"`
}

type RemoteConfig struct {
	URL         string `toml:"url"`
	Name        string `toml:"name"`
	Branch      string `toml:"branch"`
	SSHKey      string `toml:"ssh_key,omitempty"`
	AuthorName  string `toml:"author_name,omitempty"`
	AuthorEmail string `toml:"author_email,omitempty"`
}

type KeyConfig struct {
	Salt           string `toml:"salt"`
	WorkFactor     uint   `toml:"work_factor"`
	PassphraseEnv  string `toml:"passphrase_env"`
	PassphraseFile string `toml:"passphrase_file,omitempty"`
	Check          string `toml:"check,omitempty"`
}

type DeviceConfig struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// HasRemote reports whether a remote repository is configured.
func (c *JournalConfiguration) HasRemote() bool {
	return c.Remote.URL != ""
}

// applyDefaults fills optional fields left empty in the file.
func (c *JournalConfiguration) applyDefaults() {
	if c.Remote.Name == "" {
		c.Remote.Name = DefaultRemoteName
	}
	if c.Remote.Branch == "" {
		c.Remote.Branch = DefaultBranch
	}
	if c.Key.WorkFactor == 0 {
		c.Key.WorkFactor = secrets.DefaultWorkFactor
	}
	if c.Key.PassphraseEnv == "" {
		c.Key.PassphraseEnv = DefaultPassphraseEnv
	}
	if c.Device.Name == "" {
		c.Device.Name = utils.DefaultDeviceName()
	}
}

// Validate checks the fields every journal operation depends on.
func (c *JournalConfiguration) Validate() error {
	if c.StorageDirectory == "" {
		return fmt.Errorf("storage_directory must be set")
	}
	if _, err := secrets.DecodeSalt(c.Key.Salt); err != nil {
		return fmt.Errorf("key.salt: %w", err)
	}
	if err := secrets.ValidateWorkFactor(c.Key.WorkFactor); err != nil {
		return fmt.Errorf("key.work_factor: %w", err)
	}
	if c.Device.ID != "" {
		if _, err := uuid.Parse(c.Device.ID); err != nil {
			return fmt.Errorf("device.id is not a UUID: %w", err)
		}
	}
	return nil
}

// expandPaths resolves ~ in every path-valued field.
func (c *JournalConfiguration) expandPaths() error {
	for _, field := range []*string{&c.StorageDirectory, &c.Remote.SSHKey, &c.Key.PassphraseFile} {
		expanded, err := utils.ExpandHome(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	return nil
}

// Load reads and validates the configuration at path. Paths inside the
// returned configuration have ~ expanded.
//
// Returns ErrConfigNotFound if the file does not exist.
// Returns ErrConfigMalformed if the file cannot be decoded or fails validation.
func Load(path string) (*JournalConfiguration, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	config := &JournalConfiguration{}
	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrConfigMalformed, err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrConfigMalformed, err)
	}
	if err := config.expandPaths(); err != nil {
		return nil, err
	}

	return config, nil
}

// Save writes the configuration to path with 0600 permissions.
func Save(path string, config *JournalConfiguration) error {
	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// backupLayout names backups so they sort by the time they were taken.
const backupLayout = "20060102T150405Z"

// BackupConfig copies the file at path to path.bak-<UTC timestamp> and
// returns the copy's path. The original is left in place.
func BackupConfig(path string, now time.Time) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read config for backup: %w", err)
	}

	base := path + ".bak-" + now.UTC().Format(backupLayout)
	backup := base
	for i := 1; ; i++ {
		if _, err := os.Stat(backup); err != nil {
			break
		}
		backup = fmt.Sprintf("%s.%d", base, i)
	}

	if err := os.WriteFile(backup, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write config backup: %w", err)
	}
	return backup, nil
}

// HasKeySalt reports whether the file at path holds a key.salt that still
// decodes, even when the rest of the file does not validate.
func HasKeySalt(path string) bool {
	var partial struct {
		Key struct {
			Salt string `toml:"salt"`
		} `toml:"key"`
	}
	if err := LoadTOML(path, &partial); err != nil {
		return false
	}
	_, err := secrets.DecodeSalt(partial.Key.Salt)
	return err == nil
}

// GenerateDeviceID generates a new UUID for this machine.
func GenerateDeviceID() string {
	return uuid.New().String()
}
