package workflows

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"time"

	"github.com/PolarWolf314/giournal/internal/configs"
	kerrors "github.com/PolarWolf314/giournal/internal/errors"
	logger "github.com/PolarWolf314/giournal/internal/logging"
	"github.com/PolarWolf314/giournal/internal/utils"
	"github.com/PolarWolf314/giournal/internal/vcs"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	configs.InitOptions

	// ConfigPath is where the configuration is written.
	ConfigPath string

	// HistoryPath is the history file. Empty disables history.
	HistoryPath string

	// Force replaces an existing configuration after copying it aside.
	Force bool

	Logger logger.Logger
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	Config     *configs.JournalConfiguration
	ConfigPath string

	// Backup is where a replaced configuration was copied, if any.
	Backup string

	// Repository reports whether the storage directory is a git repository.
	Repository bool
}

// Init writes a new configuration, creates the storage directory and
// prepares its git repository.
//
// Returns ErrConfigExists if a configuration exists and Force is not set.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	backup := ""
	if _, err := os.Stat(opts.ConfigPath); err == nil {
		if !opts.Force {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrConfigExists, opts.ConfigPath)
		}
		if backup, err = configs.BackupConfig(opts.ConfigPath, time.Now()); err != nil {
			return nil, err
		}
		opts.Logger.Infof("Copied existing configuration to %s", backup)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if _, err := configs.Initialise(opts.ConfigPath, opts.InitOptions); err != nil {
		return nil, err
	}

	// Load back so paths are expanded exactly as later runs will see them.
	cfg, err := configs.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if err := utils.EnsureDir(cfg.StorageDirectory); err != nil {
		return nil, err
	}

	result := &InitResult{Config: cfg, ConfigPath: opts.ConfigPath, Backup: backup}
	common := Common{Config: cfg, HistoryPath: opts.HistoryPath, Logger: opts.Logger}

	if _, err := exec.LookPath("git"); err != nil {
		opts.Logger.Warnf("git not found, the journal will not be versioned")
	} else {
		g := vcs.New(cfg, opts.Logger)
		if err := g.EnsureRepository(ctx, cfg.Remote.URL); err != nil {
			record(common, "init", nil, 0, err)
			return nil, fmt.Errorf("preparing git repository: %w", err)
		}
		result.Repository = true
	}

	record(common, "init", nil, 0, nil)
	return result, nil
}
