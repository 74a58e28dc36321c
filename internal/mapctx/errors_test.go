package mapctx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidInputErrorMessage(t *testing.T) {
	err := &InvalidInputError{Field: "size", Msg: "must be positive"}
	assert.Equal(t, `invalid input "size": must be positive`, err.Error())
}

func TestExternalFetchErrorUnwraps(t *testing.T) {
	inner := errors.New("connection refused")
	err := &ExternalFetchError{Source: "overpass", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "overpass")
}

func TestMaskWriteErrorUnwraps(t *testing.T) {
	inner := errors.New("disk full")
	err := &MaskWriteError{Path: "/tmp/mask.png", Err: inner}
	assert.ErrorIs(t, err, inner)
}

func TestFormatWriteErrorUnwraps(t *testing.T) {
	inner := errors.New("encoding failed")
	err := &FormatWriteError{Path: "/tmp/map.i3d", Err: inner}
	assert.ErrorIs(t, err, inner)
}

func TestErrorsAsDispatch(t *testing.T) {
	var err error = fmt.Errorf("wrapping: %w", &SchemaLimitReachedError{Schema: "farmlands", Limit: 254})

	var schemaErr *SchemaLimitReachedError
	assert.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "farmlands", schemaErr.Schema)
	assert.Equal(t, 254, schemaErr.Limit)
}

func TestInternalInvariantErrorMessage(t *testing.T) {
	err := &InternalInvariantError{Msg: "nil DEM after Background component"}
	assert.Equal(t, "internal invariant violated: nil DEM after Background component", err.Error())
}
