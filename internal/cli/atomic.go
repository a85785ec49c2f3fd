package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// atomicWriter stages output under a uuid-suffixed temp name in the
// destination directory so concurrent cryptkeeper invocations against
// the same directory never collide, then renames into place only once
// the streaming operation has fully succeeded. A failed operation's
// partial output goes only to the temp path, which Abort removes, so
// it never reaches destPath — a stronger guarantee than fileop's own
// leave-partial-output-as-is behavior, not a contradiction of it.
type atomicWriter struct {
	destPath string
	tempPath string
	file     *os.File
}

func newAtomicWriter(destPath string) (*atomicWriter, error) {
	dir := filepath.Dir(destPath)
	tempPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(destPath), uuid.NewString()))

	f, err := os.Create(tempPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp output %s: %w", tempPath, err)
	}

	return &atomicWriter{destPath: destPath, tempPath: tempPath, file: f}, nil
}

func (a *atomicWriter) Write(p []byte) (int, error) {
	return a.file.Write(p)
}

// Commit closes the temp file and renames it into place. Call only
// after the streaming operation succeeded.
func (a *atomicWriter) Commit() error {
	if err := a.file.Close(); err != nil {
		return fmt.Errorf("failed to close temp output %s: %w", a.tempPath, err)
	}
	if err := os.Rename(a.tempPath, a.destPath); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", a.tempPath, err)
	}
	return nil
}

// Abort closes and removes the temp file after a failed operation.
func (a *atomicWriter) Abort() {
	_ = a.file.Close()
	_ = os.Remove(a.tempPath)
}
