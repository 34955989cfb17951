package levelzero

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult(t *testing.T) {
	t.Run("success maps to nil", func(t *testing.T) {
		assert.NoError(t, ResultSuccess.AsError())
	})

	t.Run("failures keep their identity", func(t *testing.T) {
		err := ResultErrorOutOfDeviceMemory.AsError()
		assert.ErrorIs(t, err, ResultErrorOutOfDeviceMemory)
		assert.NotErrorIs(t, err, ResultErrorOutOfHostMemory)
	})

	t.Run("wrapped results unwrap", func(t *testing.T) {
		err := fmt.Errorf("allocating scratch buffer: %w", ResultErrorUnsupportedSize)
		assert.ErrorIs(t, err, ResultErrorUnsupportedSize)

		var res Result
		assert.True(t, errors.As(err, &res))
		assert.Equal(t, ResultErrorUnsupportedSize, res)
	})

	t.Run("known codes print their name", func(t *testing.T) {
		assert.Equal(t, "ZE_RESULT_ERROR_UNINITIALIZED", ResultErrorUninitialized.String())
		assert.Equal(t, "ZE_RESULT_NOT_READY", ResultNotReady.Error())
	})

	t.Run("unknown codes print hex", func(t *testing.T) {
		assert.Equal(t, "ZE_RESULT(0x12345)", Result(0x12345).String())
	})
}
