// Package erecerr defines the sentinel error kinds shared across erecon's
// packages. Callers should wrap these with fmt.Errorf("...: %w", Err...)
// rather than constructing new error strings, so behavior can be tested
// with errors.Is regardless of the wrapping context.
package erecerr

import "errors"

var (
	// ErrInvalidConfig covers malformed field definitions, incompatible
	// comparators, and missing required spec fields. Raised at construction
	// time; never recovered internally.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrIO covers settings/training file missing, unreadable, or corrupt.
	ErrIO = errors.New("io error")

	// ErrOracleProtocol covers an oracle returning a wrong shape: unknown
	// pair, unknown label bucket, or malformed response.
	ErrOracleProtocol = errors.New("oracle protocol error")

	// ErrEmptyInput covers zero labeled pairs reaching the Trainer. Scorer
	// treats zero candidates as an empty result, not this error.
	ErrEmptyInput = errors.New("empty input")

	// ErrNumerical covers a solver failing to converge within its
	// iteration cap.
	ErrNumerical = errors.New("numerical error")

	// ErrNotFound covers lookups that are absent rather than malformed.
	// No erecon package returns it: a LabeledPairStore answers an unknown
	// session with an empty result.
	ErrNotFound = errors.New("not found")
)
