package ipc

import (
	"encoding/binary"
	"fmt"

	"github.com/wenju-he/level-zero-tests/internal/levelzero"
)

// ChildType selects which action an IPC child process performs after it has
// reconstructed the event pool from the shared handle.
type ChildType uint32

const (
	ChildHostReads ChildType = iota
	ChildDeviceReads
	ChildDevice2Reads
	ChildMultiDeviceReads
	childTypeCount
)

func (c ChildType) String() string {
	switch c {
	case ChildHostReads:
		return "host_reads"
	case ChildDeviceReads:
		return "device_reads"
	case ChildDevice2Reads:
		return "device2_reads"
	case ChildMultiDeviceReads:
		return "multi_device_reads"
	default:
		return fmt.Sprintf("child_type(%d)", uint32(c))
	}
}

// SegmentName is the name both sides of the event handshake agree on.
const SegmentName = "ipc_event_test"

// SharedData is the record handed from parent to child through the shared
// memory segment. Binary layout, little-endian, 72 bytes:
//
//	offset 0  uint32   child type selector
//	offset 4  uint32   reserved, zero
//	offset 8  [64]byte IPC event pool handle
//
// The parent writes it exactly once before launching the child; the child
// reads it exactly once at startup. Launch ordering is the only
// synchronization.
type SharedData struct {
	Child     ChildType
	IpcHandle levelzero.IpcEventPoolHandle
}

// SharedDataSize is the wire size of the record and of the segment that
// carries it.
const SharedDataSize = 8 + levelzero.IpcHandleSize

// Encode writes the record into b, which must hold SharedDataSize bytes.
func (d *SharedData) Encode(b []byte) error {
	if len(b) < SharedDataSize {
		return fmt.Errorf("shared data needs %d bytes, got %d", SharedDataSize, len(b))
	}
	binary.LittleEndian.PutUint32(b[0:4], uint32(d.Child))
	binary.LittleEndian.PutUint32(b[4:8], 0)
	copy(b[8:8+levelzero.IpcHandleSize], d.IpcHandle[:])
	return nil
}

// DecodeSharedData reads a record previously written by Encode.
func DecodeSharedData(b []byte) (SharedData, error) {
	if len(b) < SharedDataSize {
		return SharedData{}, fmt.Errorf("shared data needs %d bytes, got %d", SharedDataSize, len(b))
	}
	var d SharedData
	d.Child = ChildType(binary.LittleEndian.Uint32(b[0:4]))
	if d.Child >= childTypeCount {
		return SharedData{}, fmt.Errorf("invalid child type %d", uint32(d.Child))
	}
	copy(d.IpcHandle[:], b[8:8+levelzero.IpcHandleSize])
	return d, nil
}
