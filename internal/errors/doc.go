// Package errors provides standardized error handling for the battlemap
// generation pipeline.
//
// # Core Types
//
//   - AppError: application-level error with a machine-readable code and kind
//
// # Usage
//
// Using predefined errors:
//
//	if width < MinDimension {
//	    return errors.ErrDimensionsOutOfRange
//	}
//
// Wrapping errors with context:
//
//	if err := generateStreams(...); err != nil {
//	    return errors.WrapLayer("hydrology", err)
//	}
//
// # Error Kinds
//
// Every error carries one of four kinds matching the pipeline's propagation
// policy:
//   - Validation: caller input outside allowed ranges (dimensions, seed, context tuple)
//   - Configuration: internal invariant violated (a bug, e.g. a biome with no rock types)
//   - LayerGeneration: a failure inside a named layer, wrapping the cause
//   - Dependency: a later layer observed a missing or malformed earlier layer
package errors
