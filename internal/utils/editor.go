// Package utils provides interactive helpers for the command line.
package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// OpenEditor opens the given file in the user's preferred editor.
// It respects the $EDITOR environment variable. On Windows if $EDITOR is not set,
// it falls back to notepad; on Unix it falls back to vi.
func OpenEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		if runtime.GOOS == "windows" {
			editor = "notepad"
		} else {
			editor = "vi"
		}
	}
	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open editor: %w", err)
	}
	return nil
}

// EditTemp writes template to a temporary file named after pattern, opens
// it in the editor and returns the saved content.
func EditTemp(pattern, template string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "cqe-edit-")
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.RemoveAll(dir) }()

	path := filepath.Join(dir, pattern)
	if err := os.WriteFile(path, []byte(template), 0o600); err != nil {
		return nil, err
	}
	if err := OpenEditor(path); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}
