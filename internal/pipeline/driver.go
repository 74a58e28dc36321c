// Package pipeline sequences the seven map-generation components over a
// shared MapContext.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/mapgen/internal/mapctx"
)

// Component is a single named stage of the generation pipeline.
type Component interface {
	// Name identifies the component in logs and progress callbacks.
	Name() string
	// Preprocess runs before Process, for setup that must not count
	// against the component's progress weight (schema resolution,
	// directory creation).
	Preprocess(mc *mapctx.MapContext) error
	// Process performs the component's main work.
	Process(ctx context.Context, mc *mapctx.MapContext) error
	// Previews returns paths to any preview images the component wants
	// surfaced to the caller. May return nil.
	Previews(mc *mapctx.MapContext) []string
}

// Stage pairs a Component with the percentage of total progress it
// represents.
type Stage struct {
	Component Component
	Percent   int
}

// DefaultStages returns the seven-component pipeline in its fixed order
// with its fixed progress weights: Satellite 5, Texture 25,
// Background 35 (DEM sub-pipeline included), GRLE 10, I3D 10, Config 5,
// Road 10.
func DefaultStages(components Components) []Stage {
	return []Stage{
		{components.Satellite, 5},
		{components.Texture, 25},
		{components.Background, 35},
		{components.GRLE, 10},
		{components.I3D, 10},
		{components.Config, 5},
		{components.Road, 10},
	}
}

// Components holds one instance of each pipeline component, wired by the
// caller (typically internal/cliapp) before Run.
type Components struct {
	Satellite  Component
	Texture    Component
	Background Component
	GRLE       Component
	I3D        Component
	Config     Component
	Road       Component
}

// Run executes every stage in order, sequentially and single-threaded;
// a single map package is one indivisible unit of output, so there is no
// worker pool. onStep is invoked after each stage completes with its name and
// the cumulative percentage of total pipeline progress; it may be nil.
//
// A stage's error is classified via errors.As against the typed errors
// in internal/mapctx/errors.go to decide whether it aborts the whole run
// or is merely logged and skipped:
//   - InvalidInputError, InternalInvariantError, FormatWriteError,
//     ExternalFetchError: abort, returned to the caller wrapped with the
//     component's name (errors.As still finds the typed error).
//   - GeometryOutOfBoundsError, SchemaLimitReachedError: logged at Warn
//     and the stage is considered to have made partial progress; the run
//     continues.
//   - MaskWriteError: logged at Warn and the run continues, since a
//     single failed mask write should not void an otherwise complete map
//     package.
func Run(ctx context.Context, mc *mapctx.MapContext, components Components, onStep func(name string, pct int), logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	stages := DefaultStages(components)
	cumulative := 0

	for _, stage := range stages {
		if stage.Component == nil {
			cumulative += stage.Percent
			continue
		}
		name := stage.Component.Name()

		logger.Info("stage starting", "component", name)

		if err := stage.Component.Preprocess(mc); err != nil {
			return fmt.Errorf("%s: preprocess: %w", name, err)
		}

		if err := stage.Component.Process(ctx, mc); err != nil {
			if !isRecoverable(err) {
				return fmt.Errorf("%s: %w", name, err)
			}
			logger.Warn("stage completed with recoverable error", "component", name, "error", err)
		}

		cumulative += stage.Percent
		logger.Info("stage finished", "component", name, "progress_pct", cumulative)

		if onStep != nil {
			onStep(name, cumulative)
		}
	}

	return nil
}

// isRecoverable reports whether err belongs to one of the error classes
// the driver treats as skip-and-continue rather than abort.
func isRecoverable(err error) bool {
	var geomErr *mapctx.GeometryOutOfBoundsError
	var limitErr *mapctx.SchemaLimitReachedError
	var maskErr *mapctx.MaskWriteError
	return errors.As(err, &geomErr) || errors.As(err, &limitErr) || errors.As(err, &maskErr)
}
