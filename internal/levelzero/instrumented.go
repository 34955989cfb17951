package levelzero

import (
	"errors"

	"github.com/wenju-he/level-zero-tests/internal/metrics"
)

// Instrumented wraps a Driver and counts every entry point invocation in
// the suite's Prometheus metrics, labelled by function and result code.
type Instrumented struct {
	Driver
}

func NewInstrumented(d Driver) *Instrumented {
	return &Instrumented{Driver: d}
}

func record(function string, err error) {
	result := ResultSuccess
	var r Result
	if errors.As(err, &r) {
		result = r
	} else if err != nil {
		result = ResultErrorUnknown
	}
	metrics.DriverCalls.WithLabelValues(function, result.String()).Inc()
}

func (i *Instrumented) Init() error {
	err := i.Driver.Init()
	record("zeInit", err)
	return err
}

func (i *Instrumented) Devices() ([]DeviceHandle, error) {
	devices, err := i.Driver.Devices()
	record("zeDeviceGet", err)
	if err == nil {
		metrics.DevicesDiscovered.Set(float64(len(devices)))
	}
	return devices, err
}

func (i *Instrumented) DeviceProperties(dev DeviceHandle) (DeviceProperties, error) {
	props, err := i.Driver.DeviceProperties(dev)
	record("zeDeviceGetProperties", err)
	return props, err
}

func (i *Instrumented) EnumMemoryModules(dev DeviceHandle, count *uint32) ([]MemHandle, error) {
	handles, err := i.Driver.EnumMemoryModules(dev, count)
	record("zesDeviceEnumMemoryModules", err)
	return handles, err
}

func (i *Instrumented) MemoryProperties(h MemHandle) (MemProperties, error) {
	props, err := i.Driver.MemoryProperties(h)
	record("zesMemoryGetProperties", err)
	return props, err
}

func (i *Instrumented) MemoryState(h MemHandle) (MemState, error) {
	state, err := i.Driver.MemoryState(h)
	record("zesMemoryGetState", err)
	return state, err
}

func (i *Instrumented) MemoryBandwidth(h MemHandle) (MemBandwidth, error) {
	bw, err := i.Driver.MemoryBandwidth(h)
	record("zesMemoryGetBandwidth", err)
	return bw, err
}

func (i *Instrumented) EnumRasErrorSets(dev DeviceHandle, count *uint32) ([]RasHandle, error) {
	handles, err := i.Driver.EnumRasErrorSets(dev, count)
	record("zesDeviceEnumRasErrorSets", err)
	return handles, err
}

func (i *Instrumented) RasProperties(h RasHandle) (RasProperties, error) {
	props, err := i.Driver.RasProperties(h)
	record("zesRasGetProperties", err)
	return props, err
}

func (i *Instrumented) RasState(h RasHandle, clear bool) (RasState, error) {
	state, err := i.Driver.RasState(h, clear)
	record("zesRasGetState", err)
	return state, err
}

func (i *Instrumented) CreateContext() (ContextHandle, error) {
	ctx, err := i.Driver.CreateContext()
	record("zeContextCreate", err)
	return ctx, err
}

func (i *Instrumented) DestroyContext(ctx ContextHandle) error {
	err := i.Driver.DestroyContext(ctx)
	record("zeContextDestroy", err)
	return err
}

func (i *Instrumented) CreateEventPool(ctx ContextHandle, flags EventPoolFlags, count uint32) (EventPoolHandle, error) {
	pool, err := i.Driver.CreateEventPool(ctx, flags, count)
	record("zeEventPoolCreate", err)
	return pool, err
}

func (i *Instrumented) DestroyEventPool(pool EventPoolHandle) error {
	err := i.Driver.DestroyEventPool(pool)
	record("zeEventPoolDestroy", err)
	return err
}

func (i *Instrumented) CreateEvent(pool EventPoolHandle, desc EventDesc) (EventHandle, error) {
	ev, err := i.Driver.CreateEvent(pool, desc)
	record("zeEventCreate", err)
	return ev, err
}

func (i *Instrumented) DestroyEvent(ev EventHandle) error {
	err := i.Driver.DestroyEvent(ev)
	record("zeEventDestroy", err)
	return err
}

func (i *Instrumented) SignalEvent(ev EventHandle) error {
	err := i.Driver.SignalEvent(ev)
	record("zeEventHostSignal", err)
	return err
}

func (i *Instrumented) SynchronizeEvent(ev EventHandle, timeoutNs uint64) error {
	err := i.Driver.SynchronizeEvent(ev, timeoutNs)
	record("zeEventHostSynchronize", err)
	return err
}

func (i *Instrumented) GetIpcHandle(pool EventPoolHandle) (IpcEventPoolHandle, error) {
	ipc, err := i.Driver.GetIpcHandle(pool)
	record("zeEventPoolGetIpcHandle", err)
	return ipc, err
}

func (i *Instrumented) OpenIpcHandle(ctx ContextHandle, ipc IpcEventPoolHandle) (EventPoolHandle, error) {
	pool, err := i.Driver.OpenIpcHandle(ctx, ipc)
	record("zeEventPoolOpenIpcHandle", err)
	return pool, err
}

func (i *Instrumented) CloseIpcHandle(pool EventPoolHandle) error {
	err := i.Driver.CloseIpcHandle(pool)
	record("zeEventPoolCloseIpcHandle", err)
	return err
}

func (i *Instrumented) CreateCommandList(ctx ContextHandle, dev DeviceHandle) (CommandListHandle, error) {
	list, err := i.Driver.CreateCommandList(ctx, dev)
	record("zeCommandListCreate", err)
	return list, err
}

func (i *Instrumented) AppendWaitOnEvents(list CommandListHandle, events []EventHandle) error {
	err := i.Driver.AppendWaitOnEvents(list, events)
	record("zeCommandListAppendWaitOnEvents", err)
	return err
}

func (i *Instrumented) CloseCommandList(list CommandListHandle) error {
	err := i.Driver.CloseCommandList(list)
	record("zeCommandListClose", err)
	return err
}

func (i *Instrumented) DestroyCommandList(list CommandListHandle) error {
	err := i.Driver.DestroyCommandList(list)
	record("zeCommandListDestroy", err)
	return err
}

func (i *Instrumented) CreateCommandQueue(ctx ContextHandle, dev DeviceHandle) (CommandQueueHandle, error) {
	queue, err := i.Driver.CreateCommandQueue(ctx, dev)
	record("zeCommandQueueCreate", err)
	return queue, err
}

func (i *Instrumented) ExecuteCommandLists(queue CommandQueueHandle, lists []CommandListHandle) error {
	err := i.Driver.ExecuteCommandLists(queue, lists)
	record("zeCommandQueueExecuteCommandLists", err)
	return err
}

func (i *Instrumented) SynchronizeCommandQueue(queue CommandQueueHandle, timeoutNs uint64) error {
	err := i.Driver.SynchronizeCommandQueue(queue, timeoutNs)
	record("zeCommandQueueSynchronize", err)
	return err
}

func (i *Instrumented) DestroyCommandQueue(queue CommandQueueHandle) error {
	err := i.Driver.DestroyCommandQueue(queue)
	record("zeCommandQueueDestroy", err)
	return err
}

func (i *Instrumented) AllocDeviceMemory(ctx ContextHandle, dev DeviceHandle, size uint64) (uintptr, error) {
	ptr, err := i.Driver.AllocDeviceMemory(ctx, dev, size)
	record("zeMemAllocDevice", err)
	return ptr, err
}

func (i *Instrumented) AllocHostMemory(ctx ContextHandle, size uint64) (uintptr, error) {
	ptr, err := i.Driver.AllocHostMemory(ctx, size)
	record("zeMemAllocHost", err)
	return ptr, err
}

func (i *Instrumented) FreeMemory(ctx ContextHandle, ptr uintptr) error {
	err := i.Driver.FreeMemory(ctx, ptr)
	record("zeMemFree", err)
	return err
}

func (i *Instrumented) MakeMemoryResident(ctx ContextHandle, dev DeviceHandle, ptr uintptr, size uint64) error {
	err := i.Driver.MakeMemoryResident(ctx, dev, ptr, size)
	record("zeContextMakeMemoryResident", err)
	return err
}

func (i *Instrumented) DebugAttach(dev DeviceHandle, pid int) (DebugSessionHandle, error) {
	session, err := i.Driver.DebugAttach(dev, pid)
	record("zetDebugAttach", err)
	return session, err
}

func (i *Instrumented) DebugDetach(session DebugSessionHandle) error {
	err := i.Driver.DebugDetach(session)
	record("zetDebugDetach", err)
	return err
}
