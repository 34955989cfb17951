//go:build linux

package ipc

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"
)

// POSIX named semaphores bound through libc. The debugger uses one to tell
// its debuggee to proceed once the debug session is attached; the semaphore
// is created empty, so the debuggee blocks until the post.

var (
	semOnce sync.Once
	semErr  error

	semOpen    func(name string, oflag int32, mode uint32, value uint32) uintptr
	semPost    func(sem uintptr) int32
	semWait    func(sem uintptr) int32
	semTryWait func(sem uintptr) int32
	semClose   func(sem uintptr) int32
	semUnlink  func(name string) int32
)

func loadSem() error {
	semOnce.Do(func() {
		lib, err := purego.Dlopen("libc.so.6", purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			semErr = fmt.Errorf("load libc: %w", err)
			return
		}
		purego.RegisterLibFunc(&semOpen, lib, "sem_open")
		purego.RegisterLibFunc(&semPost, lib, "sem_post")
		purego.RegisterLibFunc(&semWait, lib, "sem_wait")
		purego.RegisterLibFunc(&semTryWait, lib, "sem_trywait")
		purego.RegisterLibFunc(&semClose, lib, "sem_close")
		purego.RegisterLibFunc(&semUnlink, lib, "sem_unlink")
	})
	return semErr
}

// Semaphore is a named OS-level semaphore shared between a parent and a
// child process. The creating side owns the name and unlinks it on Close,
// so a deferred Close releases the resource on every exit path.
type Semaphore struct {
	name   string
	handle uintptr
	owner  bool
}

// failedSem matches SEM_FAILED, which is (sem_t *)-1, not NULL.
func failedSem(handle uintptr) bool {
	return handle == 0 || handle == ^uintptr(0)
}

func semName(prefix string, index uint64) string {
	// sem_open requires a leading slash and no other slashes.
	return fmt.Sprintf("/%s_synchro_%d", prefix, index)
}

// CreateSemaphore creates the named semaphore with an initial value of
// zero, replacing any stale instance left by a crashed run.
func CreateSemaphore(prefix string, index uint64) (*Semaphore, error) {
	if err := loadSem(); err != nil {
		return nil, err
	}
	name := semName(prefix, index)
	semUnlink(name) // stale instance from a previous run
	handle := semOpen(name, unix.O_CREAT|unix.O_EXCL, 0o600, 0)
	if failedSem(handle) {
		return nil, fmt.Errorf("sem_open(%s) failed", name)
	}
	return &Semaphore{name: name, handle: handle, owner: true}, nil
}

// OpenSemaphore attaches to a semaphore created by the peer process.
func OpenSemaphore(prefix string, index uint64) (*Semaphore, error) {
	if err := loadSem(); err != nil {
		return nil, err
	}
	name := semName(prefix, index)
	handle := semOpen(name, 0, 0, 0)
	if failedSem(handle) {
		return nil, fmt.Errorf("sem_open(%s) failed: not created", name)
	}
	return &Semaphore{name: name, handle: handle}, nil
}

// Post signals one waiter.
func (s *Semaphore) Post() error {
	if rc := semPost(s.handle); rc != 0 {
		return fmt.Errorf("sem_post(%s) failed", s.name)
	}
	return nil
}

// Wait blocks until a post arrives.
func (s *Semaphore) Wait() error {
	if rc := semWait(s.handle); rc != 0 {
		return fmt.Errorf("sem_wait(%s) failed", s.name)
	}
	return nil
}

// TryWait consumes a pending post without blocking.
func (s *Semaphore) TryWait() bool {
	return semTryWait(s.handle) == 0
}

// Close detaches, and for the owner also unlinks the name.
func (s *Semaphore) Close() error {
	if s.handle == 0 {
		return nil
	}
	rc := semClose(s.handle)
	s.handle = 0
	if s.owner {
		semUnlink(s.name)
	}
	if rc != 0 {
		return fmt.Errorf("sem_close(%s) failed", s.name)
	}
	return nil
}
