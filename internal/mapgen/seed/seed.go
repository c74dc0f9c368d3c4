// Package seed normalizes user-supplied map seeds.
//
// A seed arrives as either an integer or a free-form string. Both collapse to
// a uint32: integers are truncated; strings are trimmed and lower-cased, then
// a numeric string is truncated like an integer and any other string is run
// through FNV-1a. The hash algorithm is wire-stable — saved maps reference
// their seed by normalized value, so changing it would break reproducibility.
package seed

import (
	"fmt"
	"strconv"
	"strings"

	"tacmap-backend/internal/rng"
)

// Input is a raw seed as supplied by the caller.
type Input struct {
	// Text holds a string seed. Used when IsText is true.
	Text string
	// Number holds an integer seed. Used when IsText is false.
	Number int64
	IsText bool
}

// FromString builds a string seed input.
func FromString(s string) Input {
	return Input{Text: s, IsText: true}
}

// FromInt builds an integer seed input.
func FromInt(n int64) Input {
	return Input{Number: n}
}

// Normalize collapses an input seed to its canonical uint32 value.
func Normalize(in Input) uint32 {
	if !in.IsText {
		return uint32(in.Number)
	}

	trimmed := strings.ToLower(strings.TrimSpace(in.Text))

	// Numeric strings count as integer seeds.
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return uint32(n)
	}

	return rng.HashString(trimmed)
}

// Serialize renders a seed input the way the map metadata stores it.
func Serialize(in Input) string {
	if in.IsText {
		return in.Text
	}
	return strconv.FormatInt(in.Number, 10)
}

// Result reports the outcome of seed validation.
type Result struct {
	Valid      bool     `json:"valid"`
	Normalized uint32   `json:"normalized_seed"`
	Warnings   []string `json:"warnings,omitempty"`
	Err        error    `json:"-"`
}

// Validate checks a seed input and reports its normalized value plus any
// warnings. It has no side effects.
func Validate(in Input) Result {
	res := Result{}

	if in.IsText {
		trimmed := strings.TrimSpace(in.Text)
		if trimmed == "" {
			res.Err = fmt.Errorf("seed string is empty")
			return res
		}
		if len(trimmed) < 4 {
			res.Warnings = append(res.Warnings, "seed is suspiciously short")
		}
		if _, err := strconv.ParseInt(strings.ToLower(trimmed), 10, 64); err != nil {
			res.Warnings = append(res.Warnings, "string seed normalized to integer")
		}
	}

	res.Valid = true
	res.Normalized = Normalize(in)
	return res
}
