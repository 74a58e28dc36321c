package cliapp

import (
	"errors"
	"testing"

	"github.com/MeKo-Tech/mapgen/internal/mapctx"
	"github.com/stretchr/testify/assert"
)

func TestExitCodeForNilIsZero(t *testing.T) {
	assert.Equal(t, 0, exitCodeFor(nil))
}

func TestExitCodeForKnownErrorClasses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid input", &mapctx.InvalidInputError{Field: "lat", Msg: "bad"}, 2},
		{"external fetch", &mapctx.ExternalFetchError{Source: "overpass", Err: errors.New("boom")}, 3},
		{"format write", &mapctx.FormatWriteError{Path: "/x", Err: errors.New("boom")}, 4},
		{"internal invariant", &mapctx.InternalInvariantError{Msg: "boom"}, 5},
		{"generic", errors.New("flag parse error"), 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, exitCodeFor(c.err), c.name)
	}
}

func TestExitCodeForWrappedError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), &mapctx.InvalidInputError{Field: "size", Msg: "bad"})
	assert.Equal(t, 2, exitCodeFor(wrapped))
}
