// Package xipo implements the xipology byte codec and message framer: the
// per-byte eleven-bit frame (reservation, guard, eight data bits, parity)
// and the length-prefixed message built on top of it, both driven by a
// bitprobe.Probe and an internal/namegen.Generator supplied by a Channel
// Session in the writer or reader package.
package xipo

import (
	"context"
	"fmt"
	"math/bits"
	"sync"

	"github.com/rcoop/xipology/internal/bitprobe"
	"github.com/rcoop/xipology/internal/namegen"
)

// frameLen is the number of names (and bit positions) consumed per framed
// byte: reservation, guard, 8 data bits, parity.
const frameLen = 11

// WriteByte encodes value into the next eleven names drawn from gen,
// writing reservation (set), guard (left untouched), eight data bits
// MSB-first, and even parity. Per the write-byte contract, the guard name is
// drawn from the stream but never queried.
//
// Bits that are set are written concurrently, since a cache insertion is
// commutative: the order in which "set" queries land does not change their
// effect. A small worker pool fires the remaining slots and collects the
// first error, if any.
func WriteByte(ctx context.Context, probe bitprobe.Probe, gen *namegen.Generator, value byte) error {
	nameR, err := gen.Next()
	if err != nil {
		return fmt.Errorf("xipo: drawing reservation name: %w", err)
	}

	// Guard is drawn from the stream but MUST NOT be queried by a writer.
	if _, err := gen.Next(); err != nil {
		return fmt.Errorf("xipo: drawing guard name: %w", err)
	}

	type slot struct {
		name string
		set  bool
	}
	slots := make([]slot, 0, frameLen-2)

	for bit := 7; bit >= 0; bit-- {
		name, err := gen.Next()
		if err != nil {
			return fmt.Errorf("xipo: drawing data-bit-%d name: %w", bit, err)
		}
		slots = append(slots, slot{name: name, set: (value>>uint(bit))&1 == 1})
	}

	nameP, err := gen.Next()
	if err != nil {
		return fmt.Errorf("xipo: drawing parity name: %w", err)
	}
	parity := bits.OnesCount8(value)%2 == 1
	slots = append(slots, slot{name: nameP, set: parity})

	// Reservation is always written before the rest: it gates whether any
	// reader bothers paying for the remaining ten probes, so it goes first
	// and blocking, exactly as original_source prioritizes it.
	if err := probe.WriteBit(ctx, nameR, true); err != nil {
		return fmt.Errorf("xipo: %w: writing reservation bit: %w", ErrProbe, err)
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(slots))
	for _, s := range slots {
		wg.Add(1)
		go func(s slot) {
			defer wg.Done()
			if err := probe.WriteBit(ctx, s.name, s.set); err != nil {
				errCh <- err
			}
		}(s)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return fmt.Errorf("xipo: %w: writing data/parity bit: %w", ErrProbe, err)
		}
	}
	return nil
}

// ReadByte reads the next eleven-name frame from gen via probe and decodes
// it. Regardless of which of ErrNoByte, ErrAlreadyConsumed, ErrProbe, or
// ErrParity is returned (or none, on success), ReadByte always advances gen
// by exactly eleven names: once an outcome is decided, any remaining names
// in the frame are drawn from the generator to preserve stream alignment
// but are never queried against the resolver, matching the "reservation is
// a cheap pre-flight" economy the frame design is built around.
func ReadByte(ctx context.Context, probe bitprobe.Probe, gen *namegen.Generator) (byte, error) {
	nameR, err := gen.Next()
	if err != nil {
		return 0, fmt.Errorf("xipo: drawing reservation name: %w", err)
	}
	rSet, err := probe.ReadBit(ctx, nameR)
	if err != nil {
		drainNames(gen, frameLen-1)
		return 0, fmt.Errorf("xipo: %w: reading reservation bit: %w", ErrProbe, err)
	}
	if !rSet {
		if derr := drainNames(gen, frameLen-1); derr != nil {
			return 0, derr
		}
		return 0, ErrNoByte
	}

	nameG, err := gen.Next()
	if err != nil {
		return 0, fmt.Errorf("xipo: drawing guard name: %w", err)
	}
	gSet, err := probe.ReadBit(ctx, nameG)
	if err != nil {
		drainNames(gen, frameLen-2)
		return 0, fmt.Errorf("xipo: %w: reading guard bit: %w", ErrProbe, err)
	}
	if gSet {
		if derr := drainNames(gen, frameLen-2); derr != nil {
			return 0, derr
		}
		return 0, ErrAlreadyConsumed
	}

	var value byte
	var parity bool
	for bit := 7; bit >= 0; bit-- {
		name, err := gen.Next()
		if err != nil {
			return 0, fmt.Errorf("xipo: drawing data-bit-%d name: %w", bit, err)
		}
		set, err := probe.ReadBit(ctx, name)
		if err != nil {
			drainNames(gen, bit+1)
			return 0, fmt.Errorf("xipo: %w: reading data bit %d: %w", ErrProbe, bit, err)
		}
		if set {
			value |= 1 << uint(bit)
			parity = !parity
		}
	}

	nameP, err := gen.Next()
	if err != nil {
		return 0, fmt.Errorf("xipo: drawing parity name: %w", err)
	}
	pSet, err := probe.ReadBit(ctx, nameP)
	if err != nil {
		return 0, fmt.Errorf("xipo: %w: reading parity bit: %w", ErrProbe, err)
	}

	if pSet != parity {
		return 0, ErrParity
	}
	return value, nil
}

// drainNames advances gen by n names without issuing any probe, preserving
// the name-stream alignment invariant after an outcome has already been
// decided.
func drainNames(gen *namegen.Generator, n int) error {
	for i := 0; i < n; i++ {
		if _, err := gen.Next(); err != nil {
			return fmt.Errorf("xipo: draining name stream: %w", err)
		}
	}
	return nil
}
