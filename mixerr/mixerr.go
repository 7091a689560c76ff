// Package mixerr defines the error taxonomy shared by every sub-argument
// service: structural failures are raised synchronously as wrapped
// sentinel errors, while a failed verification is reported as a value
// (see the VerificationResult type in the mixnet package), never as an
// error.
package mixerr

import "errors"

var (
	// ErrNullInput is raised when a required argument is missing.
	ErrNullInput = errors.New("null input")
	// ErrShapeMismatch is raised when vector/matrix sizes violate a
	// documented precondition (row/column counts, m*n != N, and so on).
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrGroupMismatch is raised when an element belongs to a different
	// group than the rest of a statement or witness.
	ErrGroupMismatch = errors.New("group mismatch")
	// ErrBoundsViolation is raised when N, m, n, l or a hash length fall
	// outside their documented ranges.
	ErrBoundsViolation = errors.New("bounds violation")
	// ErrWitnessInconsistent is raised by a prover when the supplied
	// witness does not in fact satisfy the statement.
	ErrWitnessInconsistent = errors.New("witness inconsistent")
)
