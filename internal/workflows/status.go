package workflows

import (
	"context"
	"os/exec"

	kerrors "github.com/PolarWolf314/giournal/internal/errors"
	"github.com/PolarWolf314/giournal/internal/journal"
	"github.com/PolarWolf314/giournal/internal/vcs"
)

// StatusOptions configures the status workflow.
type StatusOptions struct {
	Common
}

// StatusResult describes the journal without opening any entry.
type StatusResult struct {
	StorageDirectory string
	Device           string
	RemoteURL        string

	// Online reports whether operations will pull and push.
	Online bool

	Mode  journal.Mode
	Stats journal.Stats

	// Repository is nil when the storage directory is not a git repository.
	Repository *vcs.RepoStatus
}

// Status summarises the journal: entry counts by form, the derived mode and
// the state of the git repository. It never prompts for the passphrase or
// contacts the remote.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	if opts.Config == nil {
		return nil, kerrors.ErrConfigNotFound
	}

	store, err := newStore(opts.Common, nil, nil)
	if err != nil {
		return nil, err
	}

	stats, err := store.Stats()
	if err != nil {
		return nil, err
	}

	result := &StatusResult{
		StorageDirectory: store.Dir(),
		Device:           deviceName(opts.Common),
		RemoteURL:        opts.Config.Remote.URL,
		Online:           opts.Config.HasRemote() && !opts.Offline,
		Mode:             stats.Mode(),
		Stats:            stats,
	}

	if _, err := exec.LookPath("git"); err != nil {
		return result, nil
	}
	g := vcs.New(opts.Config, opts.Logger)
	if !g.IsRepository() {
		return result, nil
	}

	repo, err := g.Status(ctx)
	if err != nil {
		opts.Logger.Warnf("Could not read repository status: %v", err)
		return result, nil
	}
	result.Repository = &repo
	return result, nil
}
