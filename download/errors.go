package download

import (
	"fmt"

	"github.com/lukemcguire/docgrab/result"
)

// FilesystemError reports a failure to create, write, or move a file.
type FilesystemError struct {
	Op   string // What was being attempted
	Path string // The path involved
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// Category implements result.Categorizer.
func (e *FilesystemError) Category() result.ErrorCategory {
	return result.CategoryFilesystem
}
