package fm

import (
	"fmt"
	"os"
	"sync"
)

// MaxLogBytes is the size threshold at which the event log rotates
// (spec §4.2, §6: "rotated at 10 MiB").
const MaxLogBytes = 10 * 1024 * 1024

// LogGenerations is how many rotated backups are kept alongside the
// live log file (spec §6: "<log>, <log>.0 ... <log>.4").
const LogGenerations = 5

// Rotator is an append-only log sink that rotates its backing file once
// it crosses MaxLogBytes, keeping LogGenerations numbered backups via a
// descending rename chain. Modeled on the reference stack's own
// explicit os.Rename file handling rather than a generic rotation
// library (see DESIGN.md): the fixed-suffix naming scheme here
// (<log>.0 ... <log>.4, no timestamp) is not what third-party rotators
// in the retrieved corpus produce.
type Rotator struct {
	mu   sync.Mutex
	path string
	file *os.File
	size int64
}

// NewRotator opens (or creates) path for appending and returns a Rotator
// tracking its current size.
func NewRotator(path string) (*Rotator, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Rotator{path: path, file: f, size: info.Size()}, nil
}

// Write appends p, rotating first if p would push the file past
// MaxLogBytes.
func (r *Rotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size+int64(len(p)) > MaxLogBytes {
		if err := r.rotateLocked(); err != nil {
			return 0, err
		}
	}
	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

// rotateLocked closes the current file, shifts every numbered backup
// down one generation (dropping the oldest), moves the live log to
// <path>.0, and reopens a fresh live log. Caller must hold r.mu.
func (r *Rotator) rotateLocked() error {
	if err := r.file.Close(); err != nil {
		return err
	}

	oldest := fmt.Sprintf("%s.%d", r.path, LogGenerations-1)
	os.Remove(oldest)
	for gen := LogGenerations - 2; gen >= 0; gen-- {
		from := fmt.Sprintf("%s.%d", r.path, gen)
		to := fmt.Sprintf("%s.%d", r.path, gen+1)
		if _, err := os.Stat(from); err == nil {
			if err := os.Rename(from, to); err != nil {
				return err
			}
		}
	}
	if err := os.Rename(r.path, r.path+".0"); err != nil && !os.IsNotExist(err) {
		return err
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	r.file = f
	r.size = 0
	return nil
}

// Close releases the underlying file.
func (r *Rotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}

// Size reports the live log file's current size, for tests.
func (r *Rotator) Size() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}
