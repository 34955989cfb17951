//go:build linux || darwin

package levelzero

import (
	"os"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"
)

// defaultLibraryNames are probed in order when no explicit library path is
// configured.
var defaultLibraryNames = []string{
	"libze_loader.so.1",
	"libze_loader.so",
	"libze_loader.dylib",
}

// ze structure type tags consumed by the entry points we bind.
const (
	zeStructDeviceProperties   = 0x3
	zeStructContextDesc        = 0xd
	zeStructCommandQueueDesc   = 0xe
	zeStructCommandListDesc    = 0xf
	zeStructEventPoolDesc      = 0x10
	zeStructEventDesc          = 0x11
	zeStructDeviceMemAllocDesc = 0x15
	zeStructHostMemAllocDesc   = 0x16

	zesStructMemProperties = 0xb
	zesStructRasProperties = 0xf
	zesStructMemState      = 0x1e
	zesStructRasState      = 0x22
)

// C layouts. Field order and padding follow the driver headers; the layout
// tests lock these down.
type zeDevicePropertiesC struct {
	stype                    int32
	_                        int32
	pNext                    uintptr
	deviceType               int32
	vendorID                 uint32
	deviceID                 uint32
	flags                    uint32
	subdeviceID              uint32
	coreClockRate            uint32
	maxMemAllocSize          uint64
	maxHardwareContexts      uint32
	maxCommandQueuePriority  uint32
	numThreadsPerEU          uint32
	physicalEUSimdWidth      uint32
	numEUsPerSubslice        uint32
	numSubslicesPerSlice     uint32
	numSlices                uint32
	_                        uint32
	timerResolution          uint64
	timestampValidBits       uint32
	kernelTimestampValidBits uint32
	uuid                     [16]byte
	name                     [256]byte
}

type zesMemPropertiesC struct {
	stype        int32
	_            int32
	pNext        uintptr
	memType      int32
	onSubdevice  uint8
	_            [3]byte
	subdeviceID  uint32
	location     int32
	physicalSize uint64
	busWidth     int32
	numChannels  int32
}

type zesMemStateC struct {
	stype  int32
	_      int32
	pNext  uintptr
	health int32
	_      int32
	free   uint64
	size   uint64
}

type zesMemBandwidthC struct {
	readCounter  uint64
	writeCounter uint64
	maxBandwidth uint64
	timestamp    uint64
}

type zesRasPropertiesC struct {
	stype       int32
	_           int32
	pNext       uintptr
	rasType     int32
	onSubdevice uint8
	_           [3]byte
	subdeviceID uint32
	_           uint32
}

type zesRasStateC struct {
	stype    int32
	_        int32
	pNext    uintptr
	category [RasErrorCategoryCount]uint64
}

type zeContextDescC struct {
	stype int32
	_     int32
	pNext uintptr
	flags uint32
	_     uint32
}

type zeEventPoolDescC struct {
	stype int32
	_     int32
	pNext uintptr
	flags uint32
	count uint32
}

type zeEventDescC struct {
	stype  int32
	_      int32
	pNext  uintptr
	index  uint32
	signal uint32
	wait   uint32
	_      uint32
}

type zeCommandListDescC struct {
	stype                    int32
	_                        int32
	pNext                    uintptr
	commandQueueGroupOrdinal uint32
	flags                    uint32
}

type zeCommandQueueDescC struct {
	stype    int32
	_        int32
	pNext    uintptr
	ordinal  uint32
	index    uint32
	flags    uint32
	mode     int32
	priority int32
	_        uint32
}

type zeMemAllocDescC struct {
	stype   int32
	_       int32
	pNext   uintptr
	flags   uint32
	ordinal uint32
}

type zeIpcEventPoolHandleC struct {
	data [IpcHandleSize]byte
}

type zetDebugConfigC struct {
	pid uint32
}

// Native binds the Driver surface to the vendor loader library through
// purego, so no cgo toolchain is needed at build time.
type Native struct {
	log *zap.Logger
	lib uintptr

	zeInit              func(flags uint32) uint32
	zeDriverGet         func(count *uint32, drivers *uintptr) uint32
	zeDeviceGet         func(driver uintptr, count *uint32, devices *uintptr) uint32
	zeDeviceGetProps    func(device uintptr, props *zeDevicePropertiesC) uint32
	zeContextCreate     func(driver uintptr, desc *zeContextDescC, ctx *uintptr) uint32
	zeContextDestroy    func(ctx uintptr) uint32
	zeEventPoolCreate   func(ctx uintptr, desc *zeEventPoolDescC, numDevices uint32, devices *uintptr, pool *uintptr) uint32
	zeEventPoolDestroy  func(pool uintptr) uint32
	zeEventCreate       func(pool uintptr, desc *zeEventDescC, event *uintptr) uint32
	zeEventDestroy      func(event uintptr) uint32
	zeEventHostSignal   func(event uintptr) uint32
	zeEventHostSync     func(event uintptr, timeout uint64) uint32
	zeEventPoolGetIpc   func(pool uintptr, ipc *zeIpcEventPoolHandleC) uint32
	zeEventPoolOpenIpc  func(ctx uintptr, ipc zeIpcEventPoolHandleC, pool *uintptr) uint32
	zeEventPoolCloseIpc func(pool uintptr) uint32

	zeCommandListCreate      func(ctx uintptr, device uintptr, desc *zeCommandListDescC, list *uintptr) uint32
	zeCommandListAppendWait  func(list uintptr, numEvents uint32, events *uintptr) uint32
	zeCommandListClose       func(list uintptr) uint32
	zeCommandListDestroy     func(list uintptr) uint32
	zeCommandQueueCreate     func(ctx uintptr, device uintptr, desc *zeCommandQueueDescC, queue *uintptr) uint32
	zeCommandQueueExecute    func(queue uintptr, numLists uint32, lists *uintptr, fence uintptr) uint32
	zeCommandQueueSync       func(queue uintptr, timeout uint64) uint32
	zeCommandQueueDestroy    func(queue uintptr) uint32

	zeMemAllocDevice            func(ctx uintptr, desc *zeMemAllocDescC, size uint64, alignment uint64, device uintptr, ptr *uintptr) uint32
	zeMemAllocHost              func(ctx uintptr, desc *zeMemAllocDescC, size uint64, alignment uint64, ptr *uintptr) uint32
	zeMemFree                   func(ctx uintptr, ptr uintptr) uint32
	zeContextMakeMemoryResident func(ctx uintptr, device uintptr, ptr uintptr, size uint64) uint32

	zesDeviceEnumMemoryModules func(device uintptr, count *uint32, handles *uintptr) uint32
	zesMemoryGetProperties     func(handle uintptr, props *zesMemPropertiesC) uint32
	zesMemoryGetState          func(handle uintptr, state *zesMemStateC) uint32
	zesMemoryGetBandwidth      func(handle uintptr, bw *zesMemBandwidthC) uint32
	zesDeviceEnumRasErrorSets  func(device uintptr, count *uint32, handles *uintptr) uint32
	zesRasGetProperties        func(handle uintptr, props *zesRasPropertiesC) uint32
	zesRasGetState             func(handle uintptr, clear uint8, state *zesRasStateC) uint32
	zeDeviceGetSubDevices      func(device uintptr, count *uint32, subdevices *uintptr) uint32

	zetDebugAttach func(device uintptr, config *zetDebugConfigC, session *uintptr) uint32
	zetDebugDetach func(session uintptr) uint32

	driver  uintptr
	devices []DeviceHandle
}

// NewNative loads the loader library and resolves every entry point the
// suite calls. libraryPath may be empty, in which case the default names
// are probed.
func NewNative(libraryPath string, log *zap.Logger) (Driver, error) {
	paths := defaultLibraryNames
	if libraryPath != "" {
		paths = []string{libraryPath}
	}

	var lib uintptr
	var err error
	for _, path := range paths {
		lib, err = purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	n := &Native{log: log.Named("native"), lib: lib}
	n.register()
	return n, nil
}

func (n *Native) register() {
	purego.RegisterLibFunc(&n.zeInit, n.lib, "zeInit")
	purego.RegisterLibFunc(&n.zeDriverGet, n.lib, "zeDriverGet")
	purego.RegisterLibFunc(&n.zeDeviceGet, n.lib, "zeDeviceGet")
	purego.RegisterLibFunc(&n.zeDeviceGetProps, n.lib, "zeDeviceGetProperties")
	purego.RegisterLibFunc(&n.zeContextCreate, n.lib, "zeContextCreate")
	purego.RegisterLibFunc(&n.zeContextDestroy, n.lib, "zeContextDestroy")
	purego.RegisterLibFunc(&n.zeEventPoolCreate, n.lib, "zeEventPoolCreate")
	purego.RegisterLibFunc(&n.zeEventPoolDestroy, n.lib, "zeEventPoolDestroy")
	purego.RegisterLibFunc(&n.zeEventCreate, n.lib, "zeEventCreate")
	purego.RegisterLibFunc(&n.zeEventDestroy, n.lib, "zeEventDestroy")
	purego.RegisterLibFunc(&n.zeEventHostSignal, n.lib, "zeEventHostSignal")
	purego.RegisterLibFunc(&n.zeEventHostSync, n.lib, "zeEventHostSynchronize")
	purego.RegisterLibFunc(&n.zeEventPoolGetIpc, n.lib, "zeEventPoolGetIpcHandle")
	purego.RegisterLibFunc(&n.zeEventPoolOpenIpc, n.lib, "zeEventPoolOpenIpcHandle")
	purego.RegisterLibFunc(&n.zeEventPoolCloseIpc, n.lib, "zeEventPoolCloseIpcHandle")
	purego.RegisterLibFunc(&n.zeCommandListCreate, n.lib, "zeCommandListCreate")
	purego.RegisterLibFunc(&n.zeCommandListAppendWait, n.lib, "zeCommandListAppendWaitOnEvents")
	purego.RegisterLibFunc(&n.zeCommandListClose, n.lib, "zeCommandListClose")
	purego.RegisterLibFunc(&n.zeCommandListDestroy, n.lib, "zeCommandListDestroy")
	purego.RegisterLibFunc(&n.zeCommandQueueCreate, n.lib, "zeCommandQueueCreate")
	purego.RegisterLibFunc(&n.zeCommandQueueExecute, n.lib, "zeCommandQueueExecuteCommandLists")
	purego.RegisterLibFunc(&n.zeCommandQueueSync, n.lib, "zeCommandQueueSynchronize")
	purego.RegisterLibFunc(&n.zeCommandQueueDestroy, n.lib, "zeCommandQueueDestroy")
	purego.RegisterLibFunc(&n.zeMemAllocDevice, n.lib, "zeMemAllocDevice")
	purego.RegisterLibFunc(&n.zeMemAllocHost, n.lib, "zeMemAllocHost")
	purego.RegisterLibFunc(&n.zeMemFree, n.lib, "zeMemFree")
	purego.RegisterLibFunc(&n.zeContextMakeMemoryResident, n.lib, "zeContextMakeMemoryResident")
	purego.RegisterLibFunc(&n.zesDeviceEnumMemoryModules, n.lib, "zesDeviceEnumMemoryModules")
	purego.RegisterLibFunc(&n.zesMemoryGetProperties, n.lib, "zesMemoryGetProperties")
	purego.RegisterLibFunc(&n.zesMemoryGetState, n.lib, "zesMemoryGetState")
	purego.RegisterLibFunc(&n.zesMemoryGetBandwidth, n.lib, "zesMemoryGetBandwidth")
	purego.RegisterLibFunc(&n.zesDeviceEnumRasErrorSets, n.lib, "zesDeviceEnumRasErrorSets")
	purego.RegisterLibFunc(&n.zesRasGetProperties, n.lib, "zesRasGetProperties")
	purego.RegisterLibFunc(&n.zesRasGetState, n.lib, "zesRasGetState")
	purego.RegisterLibFunc(&n.zeDeviceGetSubDevices, n.lib, "zeDeviceGetSubDevices")
	purego.RegisterLibFunc(&n.zetDebugAttach, n.lib, "zetDebugAttach")
	purego.RegisterLibFunc(&n.zetDebugDetach, n.lib, "zetDebugDetach")
}

func (n *Native) Name() string { return "native" }

func (n *Native) Init() error {
	// Legacy sysman: the zes handle aliases the ze device handle.
	os.Setenv("ZES_ENABLE_SYSMAN", "1")
	if err := Result(n.zeInit(0)).AsError(); err != nil {
		return err
	}

	count := uint32(0)
	if err := Result(n.zeDriverGet(&count, nil)).AsError(); err != nil {
		return err
	}
	if count == 0 {
		return ResultErrorUninitialized
	}
	drivers := make([]uintptr, count)
	if err := Result(n.zeDriverGet(&count, &drivers[0])).AsError(); err != nil {
		return err
	}
	n.driver = drivers[0]

	count = 0
	if err := Result(n.zeDeviceGet(n.driver, &count, nil)).AsError(); err != nil {
		return err
	}
	devices := make([]uintptr, count)
	if count > 0 {
		if err := Result(n.zeDeviceGet(n.driver, &count, &devices[0])).AsError(); err != nil {
			return err
		}
	}
	n.devices = make([]DeviceHandle, count)
	for i := range n.devices {
		n.devices[i] = DeviceHandle(devices[i])
	}
	n.log.Info("native driver initialized", zap.Int("devices", len(n.devices)))
	return nil
}

func (n *Native) Close() error {
	return nil
}

func (n *Native) Devices() ([]DeviceHandle, error) {
	if n.driver == 0 {
		return nil, ResultErrorUninitialized
	}
	return append([]DeviceHandle(nil), n.devices...), nil
}

func (n *Native) DeviceProperties(dev DeviceHandle) (DeviceProperties, error) {
	var raw zeDevicePropertiesC
	raw.stype = zeStructDeviceProperties
	if err := Result(n.zeDeviceGetProps(uintptr(dev), &raw)).AsError(); err != nil {
		return DeviceProperties{}, err
	}
	props := DeviceProperties{
		Name:            cString(raw.name[:]),
		UUID:            raw.uuid,
		Flags:           DeviceFlags(raw.flags),
		SubdeviceID:     raw.subdeviceID,
		MaxMemAllocSize: raw.maxMemAllocSize,
	}
	// The core properties carry the subdevice flag; the subdevice count
	// comes from a separate enumeration.
	var count uint32
	if n.zeDeviceGetSubDevices(uintptr(dev), &count, nil) == uint32(ResultSuccess) {
		props.NumSubdevices = count
	}
	return props, nil
}

func (n *Native) enumHandles(dev DeviceHandle, count *uint32,
	enum func(device uintptr, count *uint32, handles *uintptr) uint32) ([]uintptr, error) {

	actual := uint32(0)
	if err := Result(enum(uintptr(dev), &actual, nil)).AsError(); err != nil {
		return nil, err
	}
	want := clampCount(count, actual)
	if want == 0 {
		return nil, nil
	}
	handles := make([]uintptr, want)
	if err := Result(enum(uintptr(dev), &want, &handles[0])).AsError(); err != nil {
		return nil, err
	}
	if count != nil {
		*count = want
	}
	return handles[:want], nil
}

func (n *Native) EnumMemoryModules(dev DeviceHandle, count *uint32) ([]MemHandle, error) {
	raw, err := n.enumHandles(dev, count, n.zesDeviceEnumMemoryModules)
	if err != nil {
		return nil, err
	}
	handles := make([]MemHandle, len(raw))
	for i, h := range raw {
		handles[i] = MemHandle(h)
	}
	return handles, nil
}

func (n *Native) MemoryProperties(h MemHandle) (MemProperties, error) {
	var raw zesMemPropertiesC
	raw.stype = zesStructMemProperties
	if err := Result(n.zesMemoryGetProperties(uintptr(h), &raw)).AsError(); err != nil {
		return MemProperties{}, err
	}
	return MemProperties{
		Type:         MemType(raw.memType),
		OnSubdevice:  raw.onSubdevice != 0,
		SubdeviceID:  raw.subdeviceID,
		Location:     MemLocation(raw.location),
		PhysicalSize: raw.physicalSize,
		BusWidth:     raw.busWidth,
		NumChannels:  raw.numChannels,
	}, nil
}

func (n *Native) MemoryState(h MemHandle) (MemState, error) {
	var raw zesMemStateC
	raw.stype = zesStructMemState
	if err := Result(n.zesMemoryGetState(uintptr(h), &raw)).AsError(); err != nil {
		return MemState{}, err
	}
	return MemState{
		Health: MemHealth(raw.health),
		Free:   raw.free,
		Size:   raw.size,
	}, nil
}

func (n *Native) MemoryBandwidth(h MemHandle) (MemBandwidth, error) {
	var raw zesMemBandwidthC
	if err := Result(n.zesMemoryGetBandwidth(uintptr(h), &raw)).AsError(); err != nil {
		return MemBandwidth{}, err
	}
	return MemBandwidth{
		ReadCounter:  raw.readCounter,
		WriteCounter: raw.writeCounter,
		MaxBandwidth: raw.maxBandwidth,
		Timestamp:    raw.timestamp,
	}, nil
}

func (n *Native) EnumRasErrorSets(dev DeviceHandle, count *uint32) ([]RasHandle, error) {
	raw, err := n.enumHandles(dev, count, n.zesDeviceEnumRasErrorSets)
	if err != nil {
		return nil, err
	}
	handles := make([]RasHandle, len(raw))
	for i, h := range raw {
		handles[i] = RasHandle(h)
	}
	return handles, nil
}

func (n *Native) RasProperties(h RasHandle) (RasProperties, error) {
	var raw zesRasPropertiesC
	raw.stype = zesStructRasProperties
	if err := Result(n.zesRasGetProperties(uintptr(h), &raw)).AsError(); err != nil {
		return RasProperties{}, err
	}
	return RasProperties{
		Type:        RasErrorType(raw.rasType),
		OnSubdevice: raw.onSubdevice != 0,
		SubdeviceID: raw.subdeviceID,
	}, nil
}

func (n *Native) RasState(h RasHandle, clear bool) (RasState, error) {
	var raw zesRasStateC
	raw.stype = zesStructRasState
	clearFlag := uint8(0)
	if clear {
		clearFlag = 1
	}
	if err := Result(n.zesRasGetState(uintptr(h), clearFlag, &raw)).AsError(); err != nil {
		return RasState{}, err
	}
	return RasState{Categories: raw.category}, nil
}

func (n *Native) CreateContext() (ContextHandle, error) {
	desc := zeContextDescC{stype: zeStructContextDesc}
	var ctx uintptr
	if err := Result(n.zeContextCreate(n.driver, &desc, &ctx)).AsError(); err != nil {
		return 0, err
	}
	return ContextHandle(ctx), nil
}

func (n *Native) DestroyContext(ctx ContextHandle) error {
	return Result(n.zeContextDestroy(uintptr(ctx))).AsError()
}

func (n *Native) CreateEventPool(ctx ContextHandle, flags EventPoolFlags, count uint32) (EventPoolHandle, error) {
	desc := zeEventPoolDescC{
		stype: zeStructEventPoolDesc,
		flags: uint32(flags),
		count: count,
	}
	var pool uintptr
	if err := Result(n.zeEventPoolCreate(uintptr(ctx), &desc, 0, nil, &pool)).AsError(); err != nil {
		return 0, err
	}
	return EventPoolHandle(pool), nil
}

func (n *Native) DestroyEventPool(pool EventPoolHandle) error {
	return Result(n.zeEventPoolDestroy(uintptr(pool))).AsError()
}

func (n *Native) CreateEvent(pool EventPoolHandle, ed EventDesc) (EventHandle, error) {
	desc := zeEventDescC{
		stype:  zeStructEventDesc,
		index:  ed.Index,
		signal: uint32(ed.Signal),
		wait:   uint32(ed.Wait),
	}
	var ev uintptr
	if err := Result(n.zeEventCreate(uintptr(pool), &desc, &ev)).AsError(); err != nil {
		return 0, err
	}
	return EventHandle(ev), nil
}

func (n *Native) DestroyEvent(ev EventHandle) error {
	return Result(n.zeEventDestroy(uintptr(ev))).AsError()
}

func (n *Native) SignalEvent(ev EventHandle) error {
	return Result(n.zeEventHostSignal(uintptr(ev))).AsError()
}

func (n *Native) SynchronizeEvent(ev EventHandle, timeoutNs uint64) error {
	return Result(n.zeEventHostSync(uintptr(ev), timeoutNs)).AsError()
}

func (n *Native) GetIpcHandle(pool EventPoolHandle) (IpcEventPoolHandle, error) {
	var raw zeIpcEventPoolHandleC
	if err := Result(n.zeEventPoolGetIpc(uintptr(pool), &raw)).AsError(); err != nil {
		return IpcEventPoolHandle{}, err
	}
	return IpcEventPoolHandle(raw.data), nil
}

func (n *Native) OpenIpcHandle(ctx ContextHandle, ipc IpcEventPoolHandle) (EventPoolHandle, error) {
	var pool uintptr
	raw := zeIpcEventPoolHandleC{data: ipc}
	if err := Result(n.zeEventPoolOpenIpc(uintptr(ctx), raw, &pool)).AsError(); err != nil {
		return 0, err
	}
	return EventPoolHandle(pool), nil
}

func (n *Native) CloseIpcHandle(pool EventPoolHandle) error {
	return Result(n.zeEventPoolCloseIpc(uintptr(pool))).AsError()
}

func (n *Native) CreateCommandList(ctx ContextHandle, dev DeviceHandle) (CommandListHandle, error) {
	desc := zeCommandListDescC{stype: zeStructCommandListDesc}
	var list uintptr
	if err := Result(n.zeCommandListCreate(uintptr(ctx), uintptr(dev), &desc, &list)).AsError(); err != nil {
		return 0, err
	}
	return CommandListHandle(list), nil
}

func (n *Native) AppendWaitOnEvents(list CommandListHandle, events []EventHandle) error {
	if len(events) == 0 {
		return nil
	}
	raw := make([]uintptr, len(events))
	for i, ev := range events {
		raw[i] = uintptr(ev)
	}
	return Result(n.zeCommandListAppendWait(uintptr(list), uint32(len(raw)), &raw[0])).AsError()
}

func (n *Native) CloseCommandList(list CommandListHandle) error {
	return Result(n.zeCommandListClose(uintptr(list))).AsError()
}

func (n *Native) DestroyCommandList(list CommandListHandle) error {
	return Result(n.zeCommandListDestroy(uintptr(list))).AsError()
}

func (n *Native) CreateCommandQueue(ctx ContextHandle, dev DeviceHandle) (CommandQueueHandle, error) {
	desc := zeCommandQueueDescC{stype: zeStructCommandQueueDesc}
	var queue uintptr
	if err := Result(n.zeCommandQueueCreate(uintptr(ctx), uintptr(dev), &desc, &queue)).AsError(); err != nil {
		return 0, err
	}
	return CommandQueueHandle(queue), nil
}

func (n *Native) ExecuteCommandLists(queue CommandQueueHandle, lists []CommandListHandle) error {
	if len(lists) == 0 {
		return nil
	}
	raw := make([]uintptr, len(lists))
	for i, l := range lists {
		raw[i] = uintptr(l)
	}
	return Result(n.zeCommandQueueExecute(uintptr(queue), uint32(len(raw)), &raw[0], 0)).AsError()
}

func (n *Native) SynchronizeCommandQueue(queue CommandQueueHandle, timeoutNs uint64) error {
	return Result(n.zeCommandQueueSync(uintptr(queue), timeoutNs)).AsError()
}

func (n *Native) DestroyCommandQueue(queue CommandQueueHandle) error {
	return Result(n.zeCommandQueueDestroy(uintptr(queue))).AsError()
}

func (n *Native) AllocDeviceMemory(ctx ContextHandle, dev DeviceHandle, size uint64) (uintptr, error) {
	desc := zeMemAllocDescC{stype: zeStructDeviceMemAllocDesc}
	var ptr uintptr
	if err := Result(n.zeMemAllocDevice(uintptr(ctx), &desc, size, 8, uintptr(dev), &ptr)).AsError(); err != nil {
		return 0, err
	}
	return ptr, nil
}

func (n *Native) AllocHostMemory(ctx ContextHandle, size uint64) (uintptr, error) {
	desc := zeMemAllocDescC{stype: zeStructHostMemAllocDesc}
	var ptr uintptr
	if err := Result(n.zeMemAllocHost(uintptr(ctx), &desc, size, 8, &ptr)).AsError(); err != nil {
		return 0, err
	}
	return ptr, nil
}

func (n *Native) FreeMemory(ctx ContextHandle, ptr uintptr) error {
	return Result(n.zeMemFree(uintptr(ctx), ptr)).AsError()
}

func (n *Native) MakeMemoryResident(ctx ContextHandle, dev DeviceHandle, ptr uintptr, size uint64) error {
	return Result(n.zeContextMakeMemoryResident(uintptr(ctx), uintptr(dev), ptr, size)).AsError()
}

func (n *Native) DebugAttach(dev DeviceHandle, pid int) (DebugSessionHandle, error) {
	config := zetDebugConfigC{pid: uint32(pid)}
	var session uintptr
	if err := Result(n.zetDebugAttach(uintptr(dev), &config, &session)).AsError(); err != nil {
		return 0, err
	}
	return DebugSessionHandle(session), nil
}

func (n *Native) DebugDetach(session DebugSessionHandle) error {
	return Result(n.zetDebugDetach(uintptr(session))).AsError()
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
