package levelzero

// Driver is the subset of the ze/zes/zet surface the conformance suite
// consumes. The native backend binds it to the vendor loader library; the
// simulator implements the same contracts in software so the suite can run
// without hardware.
//
// Enumeration calls follow the driver's count-correction convention: a
// *count of 0 asks for the actual number, a *count larger than the actual
// number is corrected down, and a smaller *count truncates the result. The
// value at *count always holds the number of handles returned.
type Driver interface {
	// Name identifies the backend ("native" or "sim").
	Name() string

	Init() error
	Close() error

	Devices() ([]DeviceHandle, error)
	DeviceProperties(dev DeviceHandle) (DeviceProperties, error)

	EnumMemoryModules(dev DeviceHandle, count *uint32) ([]MemHandle, error)
	MemoryProperties(h MemHandle) (MemProperties, error)
	MemoryState(h MemHandle) (MemState, error)
	MemoryBandwidth(h MemHandle) (MemBandwidth, error)

	EnumRasErrorSets(dev DeviceHandle, count *uint32) ([]RasHandle, error)
	RasProperties(h RasHandle) (RasProperties, error)
	RasState(h RasHandle, clear bool) (RasState, error)

	CreateContext() (ContextHandle, error)
	DestroyContext(ctx ContextHandle) error

	CreateEventPool(ctx ContextHandle, flags EventPoolFlags, count uint32) (EventPoolHandle, error)
	DestroyEventPool(pool EventPoolHandle) error
	CreateEvent(pool EventPoolHandle, desc EventDesc) (EventHandle, error)
	DestroyEvent(ev EventHandle) error
	SignalEvent(ev EventHandle) error
	SynchronizeEvent(ev EventHandle, timeoutNs uint64) error

	GetIpcHandle(pool EventPoolHandle) (IpcEventPoolHandle, error)
	OpenIpcHandle(ctx ContextHandle, ipc IpcEventPoolHandle) (EventPoolHandle, error)
	CloseIpcHandle(pool EventPoolHandle) error

	CreateCommandList(ctx ContextHandle, dev DeviceHandle) (CommandListHandle, error)
	AppendWaitOnEvents(list CommandListHandle, events []EventHandle) error
	CloseCommandList(list CommandListHandle) error
	DestroyCommandList(list CommandListHandle) error
	CreateCommandQueue(ctx ContextHandle, dev DeviceHandle) (CommandQueueHandle, error)
	ExecuteCommandLists(queue CommandQueueHandle, lists []CommandListHandle) error
	SynchronizeCommandQueue(queue CommandQueueHandle, timeoutNs uint64) error
	DestroyCommandQueue(queue CommandQueueHandle) error

	AllocDeviceMemory(ctx ContextHandle, dev DeviceHandle, size uint64) (uintptr, error)
	AllocHostMemory(ctx ContextHandle, size uint64) (uintptr, error)
	FreeMemory(ctx ContextHandle, ptr uintptr) error
	MakeMemoryResident(ctx ContextHandle, dev DeviceHandle, ptr uintptr, size uint64) error

	DebugAttach(dev DeviceHandle, pid int) (DebugSessionHandle, error)
	DebugDetach(session DebugSessionHandle) error
}

// clampCount applies the count-correction convention shared by both
// backends: never report more than actual, and treat 0 as "tell me".
func clampCount(count *uint32, actual uint32) uint32 {
	if count == nil {
		return actual
	}
	if *count == 0 || *count > actual {
		*count = actual
	}
	return *count
}
