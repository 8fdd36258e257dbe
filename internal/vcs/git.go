package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PolarWolf314/giournal/internal/configs"
	kerrors "github.com/PolarWolf314/giournal/internal/errors"
	logger "github.com/PolarWolf314/giournal/internal/logging"
)

// Git runs git commands in a single repository.
type Git struct {
	// Dir is the working tree.
	Dir string

	Remote string
	Branch string

	// SSHKey, when set, is the only identity offered to the remote.
	SSHKey string

	// AuthorName and AuthorEmail override the commit identity.
	AuthorName  string
	AuthorEmail string

	Logger logger.Logger
}

// RepoStatus summarises the local repository relative to its remote.
type RepoStatus struct {
	Branch      string
	Dirty       int
	HasUpstream bool
	Ahead       int
	Behind      int
	LastCommit  string
}

// New returns a Git for the journal described by cfg.
func New(cfg *configs.JournalConfiguration, log logger.Logger) *Git {
	return &Git{
		Dir:         cfg.StorageDirectory,
		Remote:      cfg.Remote.Name,
		Branch:      cfg.Remote.Branch,
		SSHKey:      cfg.Remote.SSHKey,
		AuthorName:  cfg.Remote.AuthorName,
		AuthorEmail: cfg.Remote.AuthorEmail,
		Logger:      log,
	}
}

// IsRepository reports whether Dir holds its own git repository.
func (g *Git) IsRepository() bool {
	_, err := os.Stat(filepath.Join(g.Dir, ".git"))
	return err == nil
}

// EnsureRepository initialises Dir as a repository on Branch if needed and
// points Remote at url. An empty url leaves the remotes alone.
func (g *Git) EnsureRepository(ctx context.Context, url string) error {
	if !g.IsRepository() {
		g.Logger.Infof("Initialising git repository in %s", g.Dir)
		if _, err := g.run(ctx, "init"); err != nil {
			return err
		}
		if _, err := g.run(ctx, "symbolic-ref", "HEAD", "refs/heads/"+g.Branch); err != nil {
			return err
		}
	}

	if url == "" {
		return nil
	}

	current, err := g.run(ctx, "remote", "get-url", g.Remote)
	switch {
	case err != nil:
		g.Logger.Infof("Adding remote %s -> %s", g.Remote, url)
		_, err = g.run(ctx, "remote", "add", g.Remote, url)
	case current != url:
		g.Logger.Infof("Updating remote %s -> %s", g.Remote, url)
		_, err = g.run(ctx, "remote", "set-url", g.Remote, url)
	}
	return err
}

// Pull merges the remote branch into the current branch. It does nothing
// when the remote branch does not exist yet.
func (g *Git) Pull(ctx context.Context) error {
	if !g.IsRepository() {
		return fmt.Errorf("%w: %s", kerrors.ErrNotARepository, g.Dir)
	}

	if _, err := g.run(ctx, "ls-remote", "--exit-code", "--heads", g.Remote, g.Branch); err != nil {
		if exitCode(err) == 2 {
			g.Logger.Debugf("Remote branch %s/%s does not exist yet, nothing to pull", g.Remote, g.Branch)
			return nil
		}
		return fmt.Errorf("%w: %w", kerrors.ErrPullFailed, err)
	}

	if _, err := g.run(ctx, "pull", "--no-rebase", "--no-edit", g.Remote, g.Branch); err != nil {
		if conflicts := g.conflictedFiles(ctx); len(conflicts) > 0 {
			return fmt.Errorf("%w in %s: %w", kerrors.ErrMergeConflict, strings.Join(conflicts, ", "), err)
		}
		return fmt.Errorf("%w: %w", kerrors.ErrPullFailed, err)
	}
	return nil
}

// Commit stages paths (everything when none are given) and commits them.
// It does nothing when no change is staged.
func (g *Git) Commit(ctx context.Context, message string, paths ...string) error {
	if !g.IsRepository() {
		return fmt.Errorf("%w: %s", kerrors.ErrNotARepository, g.Dir)
	}

	add := []string{"add", "-A"}
	if len(paths) > 0 {
		add = append([]string{"add", "--"}, paths...)
	}
	if _, err := g.run(ctx, add...); err != nil {
		return fmt.Errorf("%w: %w", kerrors.ErrCommitFailed, err)
	}

	if _, err := g.run(ctx, "diff", "--cached", "--quiet"); err == nil {
		g.Logger.Debugf("Nothing staged, skipping commit")
		return nil
	} else if exitCode(err) != 1 {
		return fmt.Errorf("%w: %w", kerrors.ErrCommitFailed, err)
	}

	if _, err := g.run(ctx, "commit", "--quiet", "-m", message); err != nil {
		return fmt.Errorf("%w: %w", kerrors.ErrCommitFailed, err)
	}
	return nil
}

// Push sends the current branch to Remote/Branch and sets it as upstream.
func (g *Git) Push(ctx context.Context) error {
	if !g.IsRepository() {
		return fmt.Errorf("%w: %s", kerrors.ErrNotARepository, g.Dir)
	}

	if _, err := g.run(ctx, "push", "--quiet", "-u", g.Remote, "HEAD:"+g.Branch); err != nil {
		return fmt.Errorf("%w: %w", kerrors.ErrPushFailed, err)
	}
	return nil
}

// Status reports the branch, uncommitted changes and divergence from the
// last fetched state of the remote branch. It does not contact the remote.
func (g *Git) Status(ctx context.Context) (RepoStatus, error) {
	if !g.IsRepository() {
		return RepoStatus{}, fmt.Errorf("%w: %s", kerrors.ErrNotARepository, g.Dir)
	}

	var status RepoStatus

	branch, err := g.run(ctx, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return RepoStatus{}, err
	}
	status.Branch = branch

	porcelain, err := g.run(ctx, "status", "--porcelain")
	if err != nil {
		return RepoStatus{}, err
	}
	status.Dirty = countLines(porcelain)

	if last, err := g.run(ctx, "log", "-1", "--format=%h %s"); err == nil {
		status.LastCommit = last
	}

	counts, err := g.run(ctx, "rev-list", "--left-right", "--count", "HEAD..."+g.Remote+"/"+g.Branch)
	if err != nil {
		g.Logger.Debugf("No upstream for %s: %v", branch, err)
		return status, nil
	}
	fields := strings.Fields(counts)
	if len(fields) == 2 {
		status.HasUpstream = true
		status.Ahead, _ = strconv.Atoi(fields[0])
		status.Behind, _ = strconv.Atoi(fields[1])
	}
	return status, nil
}

func (g *Git) conflictedFiles(ctx context.Context) []string {
	out, err := g.run(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil || out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// run executes git in Dir and returns its trimmed stdout.
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	g.Logger.Debugf("git %s", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir
	cmd.Env = g.env()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &commandError{args: args, stderr: strings.TrimSpace(stderr.String()), err: err}
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (g *Git) env() []string {
	env := append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	if g.SSHKey != "" {
		env = append(env, fmt.Sprintf("GIT_SSH_COMMAND=ssh -i %q -o IdentitiesOnly=yes", g.SSHKey))
	}
	if g.AuthorName != "" {
		env = append(env, "GIT_AUTHOR_NAME="+g.AuthorName, "GIT_COMMITTER_NAME="+g.AuthorName)
	}
	if g.AuthorEmail != "" {
		env = append(env, "GIT_AUTHOR_EMAIL="+g.AuthorEmail, "GIT_COMMITTER_EMAIL="+g.AuthorEmail)
	}
	return env
}

// commandError is a failed git invocation.
type commandError struct {
	args   []string
	stderr string
	err    error
}

func (e *commandError) Error() string {
	if e.stderr == "" {
		return fmt.Sprintf("git %s: %v", e.args[0], e.err)
	}
	return fmt.Sprintf("git %s: %v: %s", e.args[0], e.err, e.stderr)
}

func (e *commandError) Unwrap() error {
	return e.err
}

// exitCode returns the exit status of a failed git invocation, or -1.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
