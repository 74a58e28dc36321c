package mapctx

import "fmt"

// InvalidInputError reports a malformed or out-of-range request parameter
// (bad coordinate, unknown game profile, non-positive size). The driver
// treats it as fatal and aborts the run.
type InvalidInputError struct {
	Field string
	Msg   string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Field, e.Msg)
}

// ExternalFetchError wraps a failure reaching Overpass, a DTM provider, or a
// satellite tile source. The driver treats it as fatal and aborts the run;
// it does not retry.
type ExternalFetchError struct {
	Source string
	Err    error
}

func (e *ExternalFetchError) Error() string {
	return fmt.Sprintf("fetching from %s: %v", e.Source, e.Err)
}

func (e *ExternalFetchError) Unwrap() error { return e.Err }

// GeometryOutOfBoundsError reports a feature, polygon, or point that fell
// entirely outside the map's working bounding box after projection.
type GeometryOutOfBoundsError struct {
	Feature string
}

func (e *GeometryOutOfBoundsError) Error() string {
	return fmt.Sprintf("geometry out of bounds: %s", e.Feature)
}

// MaskWriteError reports a failure encoding or persisting a weight mask or
// info-layer raster to disk.
type MaskWriteError struct {
	Path string
	Err  error
}

func (e *MaskWriteError) Error() string {
	return fmt.Sprintf("writing mask %s: %v", e.Path, e.Err)
}

func (e *MaskWriteError) Unwrap() error { return e.Err }

// SchemaLimitReachedError reports that a fixed-size schema (the farmland ID
// space, a channel count) was exhausted partway through generation. The
// driver logs a warning and continues, since a partial result is still
// usable in-game.
type SchemaLimitReachedError struct {
	Schema string
	Limit  int
}

func (e *SchemaLimitReachedError) Error() string {
	return fmt.Sprintf("schema %s reached its limit of %d", e.Schema, e.Limit)
}

// InternalInvariantError reports a condition the pipeline assumes can never
// happen (a nil Assets field a later component depends on, a malformed
// schema loaded from disk). It always aborts the run.
type InternalInvariantError struct {
	Msg string
}

func (e *InternalInvariantError) Error() string {
	return "internal invariant violated: " + e.Msg
}

// FormatWriteError reports a failure serializing a mesh, XML descriptor, or
// other output file to its final on-disk format.
type FormatWriteError struct {
	Path string
	Err  error
}

func (e *FormatWriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *FormatWriteError) Unwrap() error { return e.Err }
