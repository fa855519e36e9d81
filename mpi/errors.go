package mpi

import tlserrors "github.com/packetgate/tlscore/errors"

// Sentinel errors returned by mpi operations. These mirror the stable
// small-negative error codes of spec.md §6; callers that need to match
// on a specific condition should use errors.Is against these values.
var (
	ErrBadInput       = tlserrors.New("mpi: bad input data").AtError()
	ErrBufferTooSmall = tlserrors.New("mpi: buffer too small").AtError()
	ErrRandomFailed   = tlserrors.New("mpi: random source failed").AtError()
	ErrDivByZero      = tlserrors.New("mpi: division by zero").AtError()
	ErrNotInvertible  = tlserrors.New("mpi: value has no modular inverse").AtError()
)
