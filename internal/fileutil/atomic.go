// Package fileutil provides file system utilities.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// AtomicFile is a writer whose content only appears at its final path once
// Commit succeeds. Readers see either the previous file or the complete new one.
type AtomicFile struct {
	tmp  *os.File
	path string
	perm os.FileMode
	done bool
}

// CreateAtomic starts writing filename through a temporary file in the same
// directory, so the final rename stays on one filesystem.
func CreateAtomic(filename string, perm os.FileMode) (*AtomicFile, error) {
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp.*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	return &AtomicFile{tmp: tmp, path: filename, perm: perm}, nil
}

func (f *AtomicFile) Write(p []byte) (int, error) {
	return f.tmp.Write(p)
}

// Commit syncs the temporary file and renames it into place
func (f *AtomicFile) Commit() error {
	if f.done {
		return errors.New("atomic file already closed")
	}
	f.done = true

	err := f.tmp.Sync()
	if err == nil {
		err = f.tmp.Close()
	} else {
		f.tmp.Close()
	}
	if err == nil {
		err = os.Chmod(f.tmp.Name(), f.perm)
	}
	if err == nil {
		err = os.Rename(f.tmp.Name(), f.path)
	}
	if err != nil {
		os.Remove(f.tmp.Name())
		return fmt.Errorf("failed to commit %s: %w", f.path, err)
	}
	return nil
}

// Close discards the write unless Commit already ran
func (f *AtomicFile) Close() error {
	if f.done {
		return nil
	}
	f.done = true
	f.tmp.Close()
	return os.Remove(f.tmp.Name())
}

// WriteFileAtomic writes data to filename atomically
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	f, err := CreateAtomic(filename, perm)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	return f.Commit()
}
