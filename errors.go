package xipo

import "errors"

// Sentinel errors returned by the byte codec and message framer. Callers distinguish
// "nothing to read" (ErrNoByte, ErrAlreadyConsumed) from "something went
// wrong" (ErrProbe, ErrParity, ErrTruncated) so that polling loops can back
// off instead of aborting.
var (
	// ErrNoByte means the reservation bit was clear: no byte was written at
	// this frame.
	ErrNoByte = errors.New("xipo: no byte reserved at this frame")

	// ErrAlreadyConsumed means the guard bit was already set: a prior
	// reader (possibly this same reader, re-reading) consumed this frame.
	ErrAlreadyConsumed = errors.New("xipo: byte already consumed")

	// ErrParity means the decoded data bits are inconsistent with the
	// parity bit.
	ErrParity = errors.New("xipo: parity mismatch")

	// ErrProbe wraps a transport failure from the Bit Probe. Use
	// errors.Is(err, ErrProbe) to detect it; the underlying cause is wrapped
	// alongside it and is reachable via errors.Is / errors.As (not via
	// errors.Unwrap, which does not follow multi-error wrapping).
	ErrProbe = errors.New("xipo: probe error")

	// ErrTruncated means a message's length byte was read successfully but
	// a later byte in the message failed.
	ErrTruncated = errors.New("xipo: message truncated")

	// ErrDomain means a caller attempted to write a message whose length is
	// outside [1, 255].
	ErrDomain = errors.New("xipo: message length out of range [1,255]")
)
