package levelzero

import "fmt"

// Result mirrors the driver's ze_result_t numeric values. It implements
// error so call sites can return driver status codes directly and tests can
// match them with errors.Is.
type Result uint32

const (
	ResultSuccess  Result = 0
	ResultNotReady Result = 1

	ResultErrorDeviceLost                   Result = 0x70000001
	ResultErrorOutOfHostMemory              Result = 0x70000002
	ResultErrorOutOfDeviceMemory            Result = 0x70000003
	ResultErrorModuleBuildFailure           Result = 0x70000004
	ResultErrorInsufficientPerms            Result = 0x70010000
	ResultErrorNotAvailable                 Result = 0x70010001
	ResultErrorUninitialized                Result = 0x78000001
	ResultErrorUnsupportedVersion           Result = 0x78000002
	ResultErrorUnsupportedFeature           Result = 0x78000003
	ResultErrorInvalidArgument              Result = 0x78000004
	ResultErrorInvalidNullHandle            Result = 0x78000005
	ResultErrorHandleObjectInUse            Result = 0x78000006
	ResultErrorInvalidNullPointer           Result = 0x78000007
	ResultErrorInvalidSize                  Result = 0x78000008
	ResultErrorUnsupportedSize              Result = 0x78000009
	ResultErrorInvalidEnumeration           Result = 0x7800000d
	ResultErrorInvalidSynchronizationObject Result = 0x78000011
	ResultErrorUnknown                      Result = 0x7ffffffe
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "ZE_RESULT_SUCCESS"
	case ResultNotReady:
		return "ZE_RESULT_NOT_READY"
	case ResultErrorDeviceLost:
		return "ZE_RESULT_ERROR_DEVICE_LOST"
	case ResultErrorOutOfHostMemory:
		return "ZE_RESULT_ERROR_OUT_OF_HOST_MEMORY"
	case ResultErrorOutOfDeviceMemory:
		return "ZE_RESULT_ERROR_OUT_OF_DEVICE_MEMORY"
	case ResultErrorModuleBuildFailure:
		return "ZE_RESULT_ERROR_MODULE_BUILD_FAILURE"
	case ResultErrorInsufficientPerms:
		return "ZE_RESULT_ERROR_INSUFFICIENT_PERMISSIONS"
	case ResultErrorNotAvailable:
		return "ZE_RESULT_ERROR_NOT_AVAILABLE"
	case ResultErrorUninitialized:
		return "ZE_RESULT_ERROR_UNINITIALIZED"
	case ResultErrorUnsupportedVersion:
		return "ZE_RESULT_ERROR_UNSUPPORTED_VERSION"
	case ResultErrorUnsupportedFeature:
		return "ZE_RESULT_ERROR_UNSUPPORTED_FEATURE"
	case ResultErrorInvalidArgument:
		return "ZE_RESULT_ERROR_INVALID_ARGUMENT"
	case ResultErrorInvalidNullHandle:
		return "ZE_RESULT_ERROR_INVALID_NULL_HANDLE"
	case ResultErrorHandleObjectInUse:
		return "ZE_RESULT_ERROR_HANDLE_OBJECT_IN_USE"
	case ResultErrorInvalidNullPointer:
		return "ZE_RESULT_ERROR_INVALID_NULL_POINTER"
	case ResultErrorInvalidSize:
		return "ZE_RESULT_ERROR_INVALID_SIZE"
	case ResultErrorUnsupportedSize:
		return "ZE_RESULT_ERROR_UNSUPPORTED_SIZE"
	case ResultErrorInvalidEnumeration:
		return "ZE_RESULT_ERROR_INVALID_ENUMERATION"
	case ResultErrorInvalidSynchronizationObject:
		return "ZE_RESULT_ERROR_INVALID_SYNCHRONIZATION_OBJECT"
	default:
		return fmt.Sprintf("ZE_RESULT(0x%x)", uint32(r))
	}
}

func (r Result) Error() string {
	return r.String()
}

// AsError maps a raw driver status to an error, with success as nil.
func (r Result) AsError() error {
	if r == ResultSuccess {
		return nil
	}
	return r
}
