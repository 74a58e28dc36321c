package cliapp

import (
	"errors"

	"github.com/MeKo-Tech/mapgen/internal/mapctx"
)

// exitCodeFor maps a pipeline error to the process exit code for its
// class: 0 success, 2 invalid input, 3 external fetch
// failure, 4 format write failure, 5 internal invariant violation, 1 any
// other error (flag parsing, unsupported provider name).
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var invalidErr *mapctx.InvalidInputError
	var fetchErr *mapctx.ExternalFetchError
	var writeErr *mapctx.FormatWriteError
	var invariantErr *mapctx.InternalInvariantError
	switch {
	case errors.As(err, &invalidErr):
		return 2
	case errors.As(err, &fetchErr):
		return 3
	case errors.As(err, &writeErr):
		return 4
	case errors.As(err, &invariantErr):
		return 5
	default:
		return 1
	}
}
