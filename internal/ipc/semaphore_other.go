//go:build !linux

package ipc

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Fallback for platforms without usable POSIX named semaphores: posts are
// token files, waits poll for them. Slower but semantically equivalent for
// the single-post handshake the suite performs.
type Semaphore struct {
	path  string
	owner bool
	posts int
}

func semPath(prefix string, index uint64) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s_synchro_%d", prefix, index))
}

func CreateSemaphore(prefix string, index uint64) (*Semaphore, error) {
	path := semPath(prefix, index)
	os.RemoveAll(path)
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, err
	}
	return &Semaphore{path: path, owner: true}, nil
}

func OpenSemaphore(prefix string, index uint64) (*Semaphore, error) {
	path := semPath(prefix, index)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("semaphore %s not created: %w", path, err)
	}
	return &Semaphore{path: path}, nil
}

func (s *Semaphore) token(n int) string {
	return filepath.Join(s.path, fmt.Sprintf("post_%d", n))
}

func (s *Semaphore) Post() error {
	f, err := os.OpenFile(s.token(s.posts), os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	s.posts++
	return f.Close()
}

func (s *Semaphore) Wait() error {
	for {
		if s.TryWait() {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
}

func (s *Semaphore) TryWait() bool {
	entries, err := os.ReadDir(s.path)
	if err != nil || len(entries) == 0 {
		return false
	}
	return os.Remove(filepath.Join(s.path, entries[0].Name())) == nil
}

func (s *Semaphore) Close() error {
	if s.owner {
		return os.RemoveAll(s.path)
	}
	return nil
}
