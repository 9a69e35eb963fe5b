package booking

import "errors"

// User-facing failure modes of the booking lifecycle. A caller losing a
// reservation race gets ErrSlotAlreadyReserved and is expected to re-fetch
// availability; the operation is never retried on their behalf.
var (
	ErrSlotNotFound           = errors.New("slot not found")
	ErrSlotAlreadyReserved    = errors.New("slot no longer available")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrInvalidStateTransition = errors.New("invalid booking state transition")
)
