package download

import (
	"bytes"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// sameContent reports whether the files at a and b hold identical bytes.
// Both files are memory-mapped read-only for the comparison.
func sameContent(a, b string) (bool, error) {
	fa, err := os.Open(a)
	if err != nil {
		return false, &FilesystemError{Op: "open", Path: a, Err: err}
	}
	defer func() { _ = fa.Close() }()

	fb, err := os.Open(b)
	if err != nil {
		return false, &FilesystemError{Op: "open", Path: b, Err: err}
	}
	defer func() { _ = fb.Close() }()

	infoA, err := fa.Stat()
	if err != nil {
		return false, &FilesystemError{Op: "stat", Path: a, Err: err}
	}
	infoB, err := fb.Stat()
	if err != nil {
		return false, &FilesystemError{Op: "stat", Path: b, Err: err}
	}

	if infoA.Size() != infoB.Size() {
		return false, nil
	}
	// Zero-length files cannot be mapped.
	if infoA.Size() == 0 {
		return true, nil
	}

	mapA, err := mmap.Map(fa, mmap.RDONLY, 0)
	if err != nil {
		return false, &FilesystemError{Op: "mmap", Path: a, Err: err}
	}
	defer func() { _ = mapA.Unmap() }()

	mapB, err := mmap.Map(fb, mmap.RDONLY, 0)
	if err != nil {
		return false, &FilesystemError{Op: "mmap", Path: b, Err: err}
	}
	defer func() { _ = mapB.Unmap() }()

	if len(mapA) != len(mapB) {
		return false, fmt.Errorf("compare %s and %s: mapped sizes differ", a, b)
	}
	return bytes.Equal(mapA, mapB), nil
}
