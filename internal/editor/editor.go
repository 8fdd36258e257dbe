// Package editor runs the user's external editor on a file and waits for it.
package editor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/giournal/internal/errors"
)

// Resolve returns the program and arguments used to edit a file. The
// configured command wins, then $VISUAL, then $EDITOR, then the system's
// default application opener. The command is split on whitespace.
func Resolve(command string) []string {
	for _, candidate := range []string{command, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			return fields
		}
	}

	switch runtime.GOOS {
	case "darwin":
		return []string{"open", "-W"}
	case "windows":
		return []string{"cmd", "/c", "start", "/wait", ""}
	default:
		return []string{"xdg-open"}
	}
}

// Launch opens path in the editor and blocks until it exits. The editor
// inherits the terminal.
func Launch(ctx context.Context, command, path string) error {
	argv := append(Resolve(command), path)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %w", kerrors.ErrEditorFailed, argv[0], err)
	}
	return nil
}

// Compose opens a new empty file named after now in a temporary directory,
// waits for the editor and returns what was written. The temporary
// directory is always removed.
func Compose(ctx context.Context, command string, now time.Time) (string, error) {
	dir, err := os.MkdirTemp("", "giournal-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, now.Format("2006-01-02_15-04-05")+".md")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		return "", err
	}

	if err := Launch(ctx, command, path); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s after editing: %w", path, err)
	}
	return string(data), nil
}
