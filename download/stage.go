package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lukemcguire/docgrab/result"
)

// stage streams rawURL into a new file under dir and returns its path and
// size. On any error the partial file is removed.
func (m *Manager) stage(ctx context.Context, rawURL, dir, name string) (string, int64, error) {
	body, err := m.cfg.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return "", 0, err
	}
	defer func() {
		if closeErr := body.Close(); closeErr != nil {
			m.logger.Debug("close document body", "url", rawURL, "err", closeErr)
		}
	}()

	f, err := os.CreateTemp(dir, name+".*.part")
	if err != nil {
		return "", 0, &FilesystemError{Op: "create staging file", Path: dir, Err: err}
	}
	path := f.Name()

	n, err := io.Copy(f, body)
	if err != nil {
		err = fmt.Errorf("read %s: %w", rawURL, err)
	}
	if err == nil {
		if chmodErr := f.Chmod(0o644); chmodErr != nil {
			err = &FilesystemError{Op: "chmod staging file", Path: path, Err: chmodErr}
		}
	}
	if err == nil {
		if syncErr := f.Sync(); syncErr != nil {
			err = &FilesystemError{Op: "sync staging file", Path: path, Err: syncErr}
		}
	}
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = &FilesystemError{Op: "close staging file", Path: path, Err: closeErr}
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, err
	}
	return path, n, nil
}

// place moves the staged file to dest unless dest already holds identical
// content, in which case the staged file is discarded.
func place(staged, dest string) (result.Outcome, error) {
	info, err := os.Stat(dest)
	switch {
	case err == nil:
		if !info.Mode().IsRegular() {
			return "", &FilesystemError{Op: "replace", Path: dest, Err: errors.New("destination is not a regular file")}
		}
		same, cmpErr := sameContent(staged, dest)
		if cmpErr != nil {
			return "", cmpErr
		}
		if same {
			_ = os.Remove(staged)
			return result.OutcomeSkipped, nil
		}
		if renameErr := os.Rename(staged, dest); renameErr != nil {
			return "", &FilesystemError{Op: "replace", Path: dest, Err: renameErr}
		}
		return result.OutcomeReplaced, nil

	case errors.Is(err, fs.ErrNotExist):
		if mkErr := os.MkdirAll(filepath.Dir(dest), 0o755); mkErr != nil {
			return "", &FilesystemError{Op: "create destination", Path: filepath.Dir(dest), Err: mkErr}
		}
		if renameErr := os.Rename(staged, dest); renameErr != nil {
			return "", &FilesystemError{Op: "move into place", Path: dest, Err: renameErr}
		}
		return result.OutcomeWritten, nil

	default:
		return "", &FilesystemError{Op: "stat", Path: dest, Err: err}
	}
}
