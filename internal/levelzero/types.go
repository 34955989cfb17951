package levelzero

// Opaque driver handles. The native backend stores real driver pointers in
// these; the simulator fabricates unique non-zero values.
type (
	DeviceHandle       uintptr
	MemHandle          uintptr
	RasHandle          uintptr
	ContextHandle      uintptr
	EventPoolHandle    uintptr
	EventHandle        uintptr
	CommandListHandle  uintptr
	CommandQueueHandle uintptr
	DebugSessionHandle uintptr
)

// IpcHandleSize matches ZE_MAX_IPC_HANDLE_SIZE.
const IpcHandleSize = 64

// IpcEventPoolHandle is the opaque blob exported from an IPC-capable event
// pool. It is the only handle that may cross a process boundary.
type IpcEventPoolHandle [IpcHandleSize]byte

type DeviceFlags uint32

const (
	DeviceFlagIntegrated DeviceFlags = 1 << 0
	DeviceFlagSubdevice  DeviceFlags = 1 << 1
)

type DeviceProperties struct {
	Name            string
	UUID            [16]byte
	Flags           DeviceFlags
	NumSubdevices   uint32
	SubdeviceID     uint32
	MaxMemAllocSize uint64
}

type MemType int32

const (
	MemTypeHBM MemType = iota
	MemTypeDDR
	MemTypeDDR3
	MemTypeDDR4
	MemTypeDDR5
	MemTypeLPDDR
	MemTypeLPDDR3
	MemTypeLPDDR4
	MemTypeLPDDR5
	MemTypeSRAM
	MemTypeL1
	MemTypeL3
	MemTypeGRF
	MemTypeSLM
	MemTypeGDDR4
	MemTypeGDDR5
	MemTypeGDDR5X
	MemTypeGDDR6
	MemTypeGDDR6X
	MemTypeGDDR7
)

type MemLocation int32

const (
	MemLocationSystem MemLocation = 0
	MemLocationDevice MemLocation = 1
)

type MemHealth int32

const (
	MemHealthUnknown  MemHealth = 0
	MemHealthOK       MemHealth = 1
	MemHealthDegraded MemHealth = 2
	MemHealthCritical MemHealth = 3
	MemHealthReplace  MemHealth = 4
)

// MemProperties is immutable for the lifetime of a memory module handle.
// BusWidth and NumChannels report -1 when unknown and are never 0.
type MemProperties struct {
	Type         MemType
	OnSubdevice  bool
	SubdeviceID  uint32
	Location     MemLocation
	PhysicalSize uint64
	BusWidth     int32
	NumChannels  int32
}

type MemState struct {
	Health MemHealth
	Free   uint64
	Size   uint64
}

type MemBandwidth struct {
	ReadCounter  uint64
	WriteCounter uint64
	MaxBandwidth uint64
	Timestamp    uint64
}

type RasErrorType int32

const (
	RasErrorCorrectable   RasErrorType = 0
	RasErrorUncorrectable RasErrorType = 1
)

// RasErrorCategoryCount matches ZES_MAX_RAS_ERROR_CATEGORY_COUNT.
const RasErrorCategoryCount = 7

const (
	RasCategoryReset = iota
	RasCategoryProgrammingErrors
	RasCategoryDriverErrors
	RasCategoryComputeErrors
	RasCategoryNonComputeErrors
	RasCategoryCacheErrors
	RasCategoryDisplayErrors
)

type RasProperties struct {
	Type        RasErrorType
	OnSubdevice bool
	SubdeviceID uint32
}

type RasState struct {
	Categories [RasErrorCategoryCount]uint64
}

type EventPoolFlags uint32

const (
	EventPoolFlagHostVisible EventPoolFlags = 1 << 0
	EventPoolFlagIPC         EventPoolFlags = 1 << 1
)

type EventScopeFlags uint32

const (
	EventScopeNone   EventScopeFlags = 0
	EventScopeDevice EventScopeFlags = 1 << 1
	EventScopeHost   EventScopeFlags = 1 << 2
)

type EventDesc struct {
	Index  uint32
	Signal EventScopeFlags
	Wait   EventScopeFlags
}

// DefaultEventDesc is the descriptor used by the IPC event scenarios: wait
// scope covers the host so memory is coherent after the signal lands.
var DefaultEventDesc = EventDesc{
	Index:  5,
	Signal: EventScopeNone,
	Wait:   EventScopeHost,
}

// InfiniteTimeout requests indefinite blocking from synchronize calls.
const InfiniteTimeout = ^uint64(0)
