package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCodeAndKind(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(ErrConfigOutOfRange, "terrain_ruggedness must be in [0.5, 2.0]", cause)

	assert.Equal(t, "CONFIG_OUT_OF_RANGE", err.Code)
	assert.Equal(t, KindValidation, err.Kind)
	assert.ErrorIs(t, err, ErrConfigOutOfRange)
	assert.ErrorIs(t, err, cause)
}

func TestWrapLayer(t *testing.T) {
	cause := fmt.Errorf("flow accumulation overflow")
	err := WrapLayer("hydrology", cause)

	assert.Equal(t, "hydrology", err.Layer)
	assert.Equal(t, KindLayerGeneration, err.Kind)
	assert.Contains(t, err.Error(), "hydrology")
	assert.ErrorIs(t, err, ErrLayerFailed)

	var appErr *AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, cause, appErr.Unwrap())
}

func TestDependency(t *testing.T) {
	err := Dependency("vegetation", "hydrology layer is nil")
	assert.Equal(t, KindDependency, err.Kind)
	assert.ErrorIs(t, err, ErrLayerMissing)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(ErrDimensionsOutOfRange))
	assert.Equal(t, KindLayerGeneration, KindOf(WrapLayer("geology", fmt.Errorf("x"))))
	assert.Equal(t, Kind(""), KindOf(fmt.Errorf("plain")))
	wrapped := fmt.Errorf("outer: %w", ErrContextInvalid)
	assert.Equal(t, KindValidation, KindOf(wrapped))
}
