package ipc

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Segment is a named shared memory region. The parent process creates and
// owns it; children open the same name read-write and borrow a view. The
// handshake protocol needs no in-band locking because the record is fully
// written before the child is launched.
type Segment struct {
	name  string
	path  string
	data  []byte
	owner bool
}

func shmDir() string {
	if st, err := os.Stat("/dev/shm"); err == nil && st.IsDir() {
		return "/dev/shm"
	}
	return os.TempDir()
}

func segmentPath(prefix, name string) string {
	return filepath.Join(shmDir(), fmt.Sprintf("%s_%s", prefix, name))
}

// CreateSegment creates (or truncates) the named segment and maps it.
func CreateSegment(prefix, name string, size int) (*Segment, error) {
	path := segmentPath(prefix, name)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create segment %s: %w", path, err)
	}
	defer f.Close()
	if err := f.Truncate(int64(size)); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("size segment %s: %w", path, err)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("map segment %s: %w", path, err)
	}
	return &Segment{name: name, path: path, data: data, owner: true}, nil
}

// OpenSegment maps an existing named segment. It fails if the segment does
// not exist or is smaller than expected, which a child treats as a fatal
// setup error.
func OpenSegment(prefix, name string, size int) (*Segment, error) {
	path := segmentPath(prefix, name)
	f, err := os.OpenFile(path, os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open segment %s: %w", path, err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if st.Size() < int64(size) {
		return nil, fmt.Errorf("segment %s is %d bytes, want at least %d", path, st.Size(), size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("map segment %s: %w", path, err)
	}
	return &Segment{name: name, path: path, data: data}, nil
}

// Bytes exposes the mapped region. The slice is only valid until Close.
func (s *Segment) Bytes() []byte {
	return s.data
}

// Close unmaps the region and, for the owning side, removes the backing
// name. Safe to call on every exit path.
func (s *Segment) Close() error {
	var err error
	if s.data != nil {
		err = unix.Munmap(s.data)
		s.data = nil
	}
	if s.owner {
		if rmErr := os.Remove(s.path); err == nil && rmErr != nil && !os.IsNotExist(rmErr) {
			err = rmErr
		}
	}
	return err
}
