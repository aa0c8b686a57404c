// Package bitprobe defines the pluggable collaborator that maps a single DNS
// name and bit value onto one round-trip with a recursive resolver.
//
// The protocol core never talks to a resolver directly; it only ever calls
// through a Probe. This keeps the choice of transport (UDP, TCP, DoH, DoT)
// and the concrete resolver endpoint entirely outside the codec and session
// logic in the xipo package.
package bitprobe

import "context"

// Probe writes and reads single bits against a resolver's cache state.
//
// Implementations MUST make every query actually reach the resolver (no
// client-side short-circuiting), because the destructive-read property that
// the byte codec's guard bit depends on only holds if every ReadBit call is
// a real query.
type Probe interface {
	// WriteBit sets or clears the bit encoded by name. When set is false,
	// implementations perform no network I/O: clearing a bit is simply the
	// absence of a query.
	WriteBit(ctx context.Context, name string, set bool) error

	// ReadBit queries name and classifies the response as cached ("set") or
	// not ("clear"). The query itself inserts name into the resolver's
	// cache, so a second ReadBit for the same name will observe "set"
	// regardless of the first call's result.
	ReadBit(ctx context.Context, name string) (bool, error)
}
