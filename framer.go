package xipo

import (
	"context"
	"fmt"

	"github.com/rcoop/xipology/internal/bitprobe"
	"github.com/rcoop/xipology/internal/namegen"
)

// WriteMessage writes a length-prefixed message: one framed byte carrying
// len(payload), followed by one framed byte per element of payload.
// len(payload) must be in [1, 255]; any other length is ErrDomain.
func WriteMessage(ctx context.Context, probe bitprobe.Probe, gen *namegen.Generator, payload []byte) error {
	if len(payload) < 1 || len(payload) > 255 {
		return fmt.Errorf("xipo: %w: got length %d", ErrDomain, len(payload))
	}

	if err := WriteByte(ctx, probe, gen, byte(len(payload))); err != nil {
		return fmt.Errorf("xipo: writing length byte: %w", err)
	}

	for i, b := range payload {
		if err := WriteByte(ctx, probe, gen, b); err != nil {
			return fmt.Errorf("xipo: writing payload byte %d: %w", i, err)
		}
	}
	return nil
}

// ReadMessage reads a length-prefixed message. If the length byte's
// read-byte outcome is ErrNoByte or ErrAlreadyConsumed, that error is
// returned unchanged: there is no message to read. Any failure among the
// payload bytes (ErrParity, ErrProbe, or an unexpected ErrNoByte /
// ErrAlreadyConsumed mid-message) is reported as ErrTruncated, wrapping the
// byte-level cause.
func ReadMessage(ctx context.Context, probe bitprobe.Probe, gen *namegen.Generator) ([]byte, error) {
	length, err := ReadByte(ctx, probe, gen)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 0, length)
	for i := 0; i < int(length); i++ {
		b, err := ReadByte(ctx, probe, gen)
		if err != nil {
			return nil, fmt.Errorf("xipo: %w: payload byte %d: %w", ErrTruncated, i, err)
		}
		payload = append(payload, b)
	}
	return payload, nil
}
