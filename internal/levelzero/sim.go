package levelzero

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// simNamespace seeds deterministic device UUIDs so repeated enumerations
// return byte-identical properties.
var simNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

const simIpcMagic = "ZELZSIM1"

var handleCounter atomic.Uintptr

func newHandle() uintptr {
	return 0x1000 + handleCounter.Add(16)
}

type simMem struct {
	handle MemHandle
	props  MemProperties
	dev    *simDevice
	reads  atomic.Uint64
	writes atomic.Uint64
}

type simRas struct {
	handle RasHandle
	props  RasProperties
	state  RasState
}

type simDevice struct {
	handle DeviceHandle
	props  DeviceProperties

	mems []*simMem
	rass []*simRas

	mu        sync.Mutex
	total     uint64
	reserve   uint64
	allocated uint64
}

func (d *simDevice) free() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.total - d.allocated
}

type simEventPool struct {
	handle   EventPoolHandle
	flags    EventPoolFlags
	count    uint32
	state    []uint32 // one word per event index, 1 = signalled, atomic access only
	filePath string   // set for IPC-capable pools
	mapped   []byte   // mmap backing for IPC-capable pools
	imported bool     // opened from an IPC handle, not owned
}

type simEvent struct {
	handle EventHandle
	pool   *simEventPool
	index  uint32
}

type simCommandList struct {
	waits  []*simEvent
	closed bool
}

type simCommandQueue struct {
	handle   CommandQueueHandle
	executed []*simCommandList
}

type simAlloc struct {
	dev  *simDevice
	size uint64
	host bool
}

// Sim is a software rendition of the driver surface. Two devices are
// modelled: device 0 with two subdevices and a split memory topology,
// device 1 as a flat root device. Allocation bookkeeping is real, so the
// exhaustion path genuinely returns ResultErrorOutOfDeviceMemory.
type Sim struct {
	log *zap.Logger

	mu          sync.Mutex
	initialized bool
	devices     []*simDevice
	contexts    map[ContextHandle]struct{}
	pools       map[EventPoolHandle]*simEventPool
	events      map[EventHandle]*simEvent
	lists       map[CommandListHandle]*simCommandList
	queues      map[CommandQueueHandle]*simCommandQueue
	allocs      map[uintptr]*simAlloc
	sessions    map[DebugSessionHandle]int
	attached    map[int]struct{}
}

func NewSim(log *zap.Logger) *Sim {
	return &Sim{
		log:      log.Named("sim"),
		contexts: make(map[ContextHandle]struct{}),
		pools:    make(map[EventPoolHandle]*simEventPool),
		events:   make(map[EventHandle]*simEvent),
		lists:    make(map[CommandListHandle]*simCommandList),
		queues:   make(map[CommandQueueHandle]*simCommandQueue),
		allocs:   make(map[uintptr]*simAlloc),
		sessions: make(map[DebugSessionHandle]int),
		attached: make(map[int]struct{}),
	}
}

func (s *Sim) Name() string { return "sim" }

func (s *Sim) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}

	s.devices = []*simDevice{
		s.newDevice("ZeSim A0", 2, []memSpec{
			{location: MemLocationDevice, size: 256 << 20, busWidth: 128, channels: 8},
			{location: MemLocationDevice, size: 256 << 20, busWidth: 128, channels: 8, onSubdevice: true, subdeviceID: 0},
		}),
		s.newDevice("ZeSim B0", 0, []memSpec{
			{location: MemLocationSystem, size: 128 << 20, busWidth: -1, channels: -1},
		}),
	}
	s.initialized = true
	s.log.Debug("simulator initialized", zap.Int("devices", len(s.devices)))
	return nil
}

type memSpec struct {
	location    MemLocation
	size        uint64
	busWidth    int32
	channels    int32
	onSubdevice bool
	subdeviceID uint32
}

func (s *Sim) newDevice(name string, numSubdevices uint32, mems []memSpec) *simDevice {
	dev := &simDevice{
		handle: DeviceHandle(newHandle()),
		props: DeviceProperties{
			Name:            name,
			UUID:            [16]byte(uuid.NewSHA1(simNamespace, []byte(name))),
			NumSubdevices:   numSubdevices,
			MaxMemAllocSize: 64 << 20,
		},
	}
	for _, spec := range mems {
		m := &simMem{
			handle: MemHandle(newHandle()),
			dev:    dev,
			props: MemProperties{
				Type:         MemTypeHBM,
				OnSubdevice:  spec.onSubdevice,
				SubdeviceID:  spec.subdeviceID,
				Location:     spec.location,
				PhysicalSize: spec.size,
				BusWidth:     spec.busWidth,
				NumChannels:  spec.channels,
			},
		}
		dev.mems = append(dev.mems, m)
		dev.total += spec.size
	}
	// Reported free stays optimistic while the allocator holds back this
	// slice, the way real drivers reserve capacity for firmware. The
	// exhaustion path therefore hits out-of-device-memory before reported
	// free reaches zero.
	dev.reserve = dev.total / 32
	dev.rass = []*simRas{
		{handle: RasHandle(newHandle()), props: RasProperties{Type: RasErrorCorrectable}},
		{handle: RasHandle(newHandle()), props: RasProperties{Type: RasErrorUncorrectable}},
	}
	// correctable resets and cache errors observed at "boot"
	dev.rass[0].state.Categories[RasCategoryReset] = 1
	dev.rass[0].state.Categories[RasCategoryCacheErrors] = 3
	return dev
}

func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, pool := range s.pools {
		s.releasePoolLocked(pool)
	}
	s.initialized = false
	return nil
}

func (s *Sim) requireInit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ResultErrorUninitialized
	}
	return nil
}

func (s *Sim) device(h DeviceHandle) (*simDevice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return nil, ResultErrorUninitialized
	}
	for _, d := range s.devices {
		if d.handle == h {
			return d, nil
		}
	}
	return nil, ResultErrorInvalidNullHandle
}

func (s *Sim) Devices() ([]DeviceHandle, error) {
	if err := s.requireInit(); err != nil {
		return nil, err
	}
	handles := make([]DeviceHandle, len(s.devices))
	for i, d := range s.devices {
		handles[i] = d.handle
	}
	return handles, nil
}

func (s *Sim) DeviceProperties(dev DeviceHandle) (DeviceProperties, error) {
	d, err := s.device(dev)
	if err != nil {
		return DeviceProperties{}, err
	}
	return d.props, nil
}

func (s *Sim) EnumMemoryModules(dev DeviceHandle, count *uint32) ([]MemHandle, error) {
	d, err := s.device(dev)
	if err != nil {
		return nil, err
	}
	n := clampCount(count, uint32(len(d.mems)))
	handles := make([]MemHandle, 0, n)
	for _, m := range d.mems[:n] {
		handles = append(handles, m.handle)
	}
	return handles, nil
}

func (s *Sim) mem(h MemHandle) (*simMem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return nil, ResultErrorUninitialized
	}
	for _, d := range s.devices {
		for _, m := range d.mems {
			if m.handle == h {
				return m, nil
			}
		}
	}
	return nil, ResultErrorInvalidNullHandle
}

func (s *Sim) MemoryProperties(h MemHandle) (MemProperties, error) {
	m, err := s.mem(h)
	if err != nil {
		return MemProperties{}, err
	}
	return m.props, nil
}

func (s *Sim) MemoryState(h MemHandle) (MemState, error) {
	m, err := s.mem(h)
	if err != nil {
		return MemState{}, err
	}
	// Device-level accounting is attributed to modules proportionally so
	// free never exceeds a module's size.
	devFree := m.dev.free()
	free := uint64(float64(m.props.PhysicalSize) * float64(devFree) / float64(m.dev.total))
	return MemState{
		Health: MemHealthOK,
		Free:   free,
		Size:   m.props.PhysicalSize,
	}, nil
}

func (s *Sim) MemoryBandwidth(h MemHandle) (MemBandwidth, error) {
	m, err := s.mem(h)
	if err != nil {
		return MemBandwidth{}, err
	}
	return MemBandwidth{
		ReadCounter:  m.reads.Add(4096),
		WriteCounter: m.writes.Add(1024),
		MaxBandwidth: 1 << 37, // 128 GiB/s
		Timestamp:    uint64(time.Now().UnixMicro()),
	}, nil
}

func (s *Sim) EnumRasErrorSets(dev DeviceHandle, count *uint32) ([]RasHandle, error) {
	d, err := s.device(dev)
	if err != nil {
		return nil, err
	}
	n := clampCount(count, uint32(len(d.rass)))
	handles := make([]RasHandle, 0, n)
	for _, r := range d.rass[:n] {
		handles = append(handles, r.handle)
	}
	return handles, nil
}

func (s *Sim) ras(h RasHandle) (*simRas, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return nil, ResultErrorUninitialized
	}
	for _, d := range s.devices {
		for _, r := range d.rass {
			if r.handle == h {
				return r, nil
			}
		}
	}
	return nil, ResultErrorInvalidNullHandle
}

func (s *Sim) RasProperties(h RasHandle) (RasProperties, error) {
	r, err := s.ras(h)
	if err != nil {
		return RasProperties{}, err
	}
	return r.props, nil
}

func (s *Sim) RasState(h RasHandle, clear bool) (RasState, error) {
	r, err := s.ras(h)
	if err != nil {
		return RasState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state := r.state
	if clear {
		r.state = RasState{}
	}
	return state, nil
}

func (s *Sim) CreateContext() (ContextHandle, error) {
	if err := s.requireInit(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := ContextHandle(newHandle())
	s.contexts[ctx] = struct{}{}
	return ctx, nil
}

func (s *Sim) DestroyContext(ctx ContextHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contexts[ctx]; !ok {
		return ResultErrorInvalidNullHandle
	}
	delete(s.contexts, ctx)
	return nil
}

func (s *Sim) checkContext(ctx ContextHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ResultErrorUninitialized
	}
	if _, ok := s.contexts[ctx]; !ok {
		return ResultErrorInvalidNullHandle
	}
	return nil
}

func simShmDir() string {
	if st, err := os.Stat("/dev/shm"); err == nil && st.IsDir() {
		return "/dev/shm"
	}
	return os.TempDir()
}

func (s *Sim) CreateEventPool(ctx ContextHandle, flags EventPoolFlags, count uint32) (EventPoolHandle, error) {
	if err := s.checkContext(ctx); err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ResultErrorInvalidArgument
	}
	pool := &simEventPool{
		handle: EventPoolHandle(newHandle()),
		flags:  flags,
		count:  count,
	}
	if flags&EventPoolFlagIPC != 0 {
		// IPC-capable pools live in a file-backed mapping so a handle
		// opened in another process observes signals through the page
		// cache rather than this process's heap.
		path := filepath.Join(simShmDir(), fmt.Sprintf("zelz_sim_ev_%08x", uint32(pool.handle)))
		mapped, err := mapPoolFile(path, int(count)*4, true)
		if err != nil {
			return 0, ResultErrorOutOfHostMemory
		}
		pool.filePath = path
		pool.mapped = mapped
		pool.state = poolWords(mapped, count)
	} else {
		pool.state = make([]uint32, count)
	}
	s.mu.Lock()
	s.pools[pool.handle] = pool
	s.mu.Unlock()
	return pool.handle, nil
}

func mapPoolFile(path string, size int, create bool) ([]byte, error) {
	flags := os.O_RDWR
	if create {
		flags |= os.O_CREATE
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if create {
		if err := f.Truncate(int64(size)); err != nil {
			os.Remove(path)
			return nil, err
		}
	}
	mapped, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		if create {
			os.Remove(path)
		}
		return nil, err
	}
	return mapped, nil
}

// poolWords views the mapping as one 32-bit signal word per event index.
// mmap regions are page-aligned, so the cast is always aligned for the
// atomic loads and stores both processes perform on it.
func poolWords(b []byte, count uint32) []uint32 {
	return unsafe.Slice((*uint32)(unsafe.Pointer(&b[0])), count)
}

func (s *Sim) pool(h EventPoolHandle) (*simEventPool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pool, ok := s.pools[h]
	if !ok {
		return nil, ResultErrorInvalidNullHandle
	}
	return pool, nil
}

func (s *Sim) releasePoolLocked(pool *simEventPool) {
	if pool.mapped != nil {
		unix.Munmap(pool.mapped)
		pool.mapped = nil
	}
	if pool.filePath != "" && !pool.imported {
		os.Remove(pool.filePath)
	}
	delete(s.pools, pool.handle)
}

func (s *Sim) DestroyEventPool(h EventPoolHandle) error {
	pool, err := s.pool(h)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releasePoolLocked(pool)
	return nil
}

func (s *Sim) CreateEvent(h EventPoolHandle, desc EventDesc) (EventHandle, error) {
	pool, err := s.pool(h)
	if err != nil {
		return 0, err
	}
	if desc.Index >= pool.count {
		return 0, ResultErrorInvalidArgument
	}
	ev := &simEvent{
		handle: EventHandle(newHandle()),
		pool:   pool,
		index:  desc.Index,
	}
	s.mu.Lock()
	s.events[ev.handle] = ev
	s.mu.Unlock()
	return ev.handle, nil
}

func (s *Sim) event(h EventHandle) (*simEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.events[h]
	if !ok {
		return nil, ResultErrorInvalidNullHandle
	}
	return ev, nil
}

func (s *Sim) DestroyEvent(h EventHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[h]; !ok {
		return ResultErrorInvalidNullHandle
	}
	delete(s.events, h)
	return nil
}

func (s *Sim) SignalEvent(h EventHandle) error {
	ev, err := s.event(h)
	if err != nil {
		return err
	}
	atomic.StoreUint32(&ev.pool.state[ev.index], 1)
	return nil
}

func (s *Sim) SynchronizeEvent(h EventHandle, timeoutNs uint64) error {
	ev, err := s.event(h)
	if err != nil {
		return err
	}
	return waitSignalled(ev, timeoutNs)
}

// waitSignalled polls the pool's signal byte. IPC pools are file mappings
// shared with another process, so polling is the only portable wait.
func waitSignalled(ev *simEvent, timeoutNs uint64) error {
	var deadline time.Time
	if timeoutNs != InfiniteTimeout {
		deadline = time.Now().Add(time.Duration(timeoutNs))
	}
	for {
		if atomic.LoadUint32(&ev.pool.state[ev.index]) != 0 {
			return nil
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return ResultNotReady
		}
		time.Sleep(200 * time.Microsecond)
	}
}

func (s *Sim) GetIpcHandle(h EventPoolHandle) (IpcEventPoolHandle, error) {
	pool, err := s.pool(h)
	if err != nil {
		return IpcEventPoolHandle{}, err
	}
	if pool.flags&EventPoolFlagIPC == 0 {
		return IpcEventPoolHandle{}, ResultErrorInvalidSynchronizationObject
	}
	var ipc IpcEventPoolHandle
	copy(ipc[:8], simIpcMagic)
	binary.LittleEndian.PutUint32(ipc[8:12], pool.count)
	if len(pool.filePath) > len(ipc)-13 {
		return IpcEventPoolHandle{}, ResultErrorInvalidSize
	}
	copy(ipc[12:], pool.filePath)
	return ipc, nil
}

func (s *Sim) OpenIpcHandle(ctx ContextHandle, ipc IpcEventPoolHandle) (EventPoolHandle, error) {
	if err := s.checkContext(ctx); err != nil {
		return 0, err
	}
	if string(ipc[:8]) != simIpcMagic {
		return 0, ResultErrorInvalidArgument
	}
	count := binary.LittleEndian.Uint32(ipc[8:12])
	path := ipc[12:]
	n := 0
	for n < len(path) && path[n] != 0 {
		n++
	}
	mapped, err := mapPoolFile(string(path[:n]), int(count)*4, false)
	if err != nil {
		return 0, ResultErrorInvalidArgument
	}
	pool := &simEventPool{
		handle:   EventPoolHandle(newHandle()),
		flags:    EventPoolFlagHostVisible | EventPoolFlagIPC,
		count:    count,
		state:    poolWords(mapped, count),
		filePath: string(path[:n]),
		mapped:   mapped,
		imported: true,
	}
	s.mu.Lock()
	s.pools[pool.handle] = pool
	s.mu.Unlock()
	return pool.handle, nil
}

func (s *Sim) CloseIpcHandle(h EventPoolHandle) error {
	pool, err := s.pool(h)
	if err != nil {
		return err
	}
	if !pool.imported {
		return ResultErrorInvalidArgument
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releasePoolLocked(pool)
	return nil
}

func (s *Sim) CreateCommandList(ctx ContextHandle, dev DeviceHandle) (CommandListHandle, error) {
	if err := s.checkContext(ctx); err != nil {
		return 0, err
	}
	if _, err := s.device(dev); err != nil {
		return 0, err
	}
	list := &simCommandList{}
	h := CommandListHandle(newHandle())
	s.mu.Lock()
	s.lists[h] = list
	s.mu.Unlock()
	return h, nil
}

func (s *Sim) list(h CommandListHandle) (*simCommandList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.lists[h]
	if !ok {
		return nil, ResultErrorInvalidNullHandle
	}
	return list, nil
}

func (s *Sim) AppendWaitOnEvents(h CommandListHandle, events []EventHandle) error {
	list, err := s.list(h)
	if err != nil {
		return err
	}
	if list.closed {
		return ResultErrorInvalidArgument
	}
	for _, evh := range events {
		ev, err := s.event(evh)
		if err != nil {
			return err
		}
		list.waits = append(list.waits, ev)
	}
	return nil
}

func (s *Sim) CloseCommandList(h CommandListHandle) error {
	list, err := s.list(h)
	if err != nil {
		return err
	}
	list.closed = true
	return nil
}

func (s *Sim) DestroyCommandList(h CommandListHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lists[h]; !ok {
		return ResultErrorInvalidNullHandle
	}
	delete(s.lists, h)
	return nil
}

func (s *Sim) CreateCommandQueue(ctx ContextHandle, dev DeviceHandle) (CommandQueueHandle, error) {
	if err := s.checkContext(ctx); err != nil {
		return 0, err
	}
	if _, err := s.device(dev); err != nil {
		return 0, err
	}
	h := CommandQueueHandle(newHandle())
	s.mu.Lock()
	s.queues[h] = &simCommandQueue{handle: h}
	s.mu.Unlock()
	return h, nil
}

func (s *Sim) queue(h CommandQueueHandle) (*simCommandQueue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queues[h]
	if !ok {
		return nil, ResultErrorInvalidNullHandle
	}
	return q, nil
}

func (s *Sim) ExecuteCommandLists(h CommandQueueHandle, lists []CommandListHandle) error {
	q, err := s.queue(h)
	if err != nil {
		return err
	}
	for _, lh := range lists {
		list, err := s.list(lh)
		if err != nil {
			return err
		}
		if !list.closed {
			return ResultErrorInvalidArgument
		}
		q.executed = append(q.executed, list)
	}
	return nil
}

func (s *Sim) SynchronizeCommandQueue(h CommandQueueHandle, timeoutNs uint64) error {
	q, err := s.queue(h)
	if err != nil {
		return err
	}
	for _, list := range q.executed {
		for _, ev := range list.waits {
			if err := waitSignalled(ev, timeoutNs); err != nil {
				return err
			}
		}
	}
	q.executed = nil
	return nil
}

func (s *Sim) DestroyCommandQueue(h CommandQueueHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.queues[h]; !ok {
		return ResultErrorInvalidNullHandle
	}
	delete(s.queues, h)
	return nil
}

func (s *Sim) AllocDeviceMemory(ctx ContextHandle, dev DeviceHandle, size uint64) (uintptr, error) {
	if err := s.checkContext(ctx); err != nil {
		return 0, err
	}
	d, err := s.device(dev)
	if err != nil {
		return 0, err
	}
	if size == 0 {
		return 0, ResultErrorInvalidSize
	}
	if size > d.props.MaxMemAllocSize {
		return 0, ResultErrorUnsupportedSize
	}
	d.mu.Lock()
	if d.allocated+size > d.total-d.reserve {
		d.mu.Unlock()
		return 0, ResultErrorOutOfDeviceMemory
	}
	d.allocated += size
	d.mu.Unlock()

	ptr := newHandle()
	s.mu.Lock()
	s.allocs[ptr] = &simAlloc{dev: d, size: size}
	s.mu.Unlock()
	return ptr, nil
}

func (s *Sim) AllocHostMemory(ctx ContextHandle, size uint64) (uintptr, error) {
	if err := s.checkContext(ctx); err != nil {
		return 0, err
	}
	if size == 0 {
		return 0, ResultErrorInvalidSize
	}
	ptr := newHandle()
	s.mu.Lock()
	s.allocs[ptr] = &simAlloc{size: size, host: true}
	s.mu.Unlock()
	return ptr, nil
}

func (s *Sim) FreeMemory(ctx ContextHandle, ptr uintptr) error {
	if err := s.checkContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	alloc, ok := s.allocs[ptr]
	if !ok {
		s.mu.Unlock()
		return ResultErrorInvalidNullPointer
	}
	delete(s.allocs, ptr)
	s.mu.Unlock()

	if alloc.dev != nil {
		alloc.dev.mu.Lock()
		alloc.dev.allocated -= alloc.size
		alloc.dev.mu.Unlock()
	}
	return nil
}

func (s *Sim) MakeMemoryResident(ctx ContextHandle, dev DeviceHandle, ptr uintptr, size uint64) error {
	if err := s.checkContext(ctx); err != nil {
		return err
	}
	if _, err := s.device(dev); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.allocs[ptr]; !ok {
		return ResultErrorInvalidNullPointer
	}
	return nil
}

func (s *Sim) DebugAttach(dev DeviceHandle, pid int) (DebugSessionHandle, error) {
	if _, err := s.device(dev); err != nil {
		return 0, err
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return 0, ResultErrorNotAvailable
	}
	if err := proc.Signal(syscall.Signal(0)); err != nil {
		return 0, ResultErrorNotAvailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attached[pid]; ok {
		return 0, ResultErrorHandleObjectInUse
	}
	session := DebugSessionHandle(newHandle())
	s.sessions[session] = pid
	s.attached[pid] = struct{}{}
	return session, nil
}

func (s *Sim) DebugDetach(session DebugSessionHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pid, ok := s.sessions[session]
	if !ok {
		return ResultErrorInvalidNullHandle
	}
	delete(s.sessions, session)
	delete(s.attached, pid)
	return nil
}
