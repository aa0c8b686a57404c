// Package reader implements the reader half of a xipology Channel Session:
// it binds a secret, a zone suffix, and a Bit Probe to a fresh Name
// Generator and exposes exactly one operation, Receive.
//
// Reading is inherently destructive (every probed name gets inserted into
// the resolver's cache, reservation included), so there is no
// retry-the-whole-session recovery path on failure: a failed
// Receive has already consumed part of the name stream and cannot be
// replayed against the same secret and suffix.
package reader

import (
	"context"
	"errors"
	"fmt"

	xipo "github.com/rcoop/xipology"
	"github.com/rcoop/xipology/internal/bitprobe"
	"github.com/rcoop/xipology/internal/namegen"
	"github.com/rcoop/xipology/internal/xlog"
)

// ErrSessionExhausted is returned by Receive if called more than once on
// the same Reader.
var ErrSessionExhausted = errors.New("reader: session already received a message")

// Config configures a Reader.
type Config struct {
	// Secret seeds the Name Generator. Must match the writer's secret.
	Secret []byte
	// Suffix is the zone suffix appended to every generated name. Defaults
	// to namegen.DefaultSuffix.
	Suffix string
	// Probe performs the DNS cache reads.
	Probe bitprobe.Probe
	// DecoyBits is the number of chaff bits to expect on the decoy
	// generator's name stream per message. The decoy generator is always
	// derived so it is reachable from the session, but Receive never
	// queries it and does not read this field, whatever its value.
	DecoyBits int
}

// Reader is the reader half of a Channel Session.
type Reader struct {
	cfg   Config
	gen   *namegen.Generator
	decoy *namegen.Generator
	log   *xlog.Session
	used  bool
}

// New constructs a Reader with a fresh Name Generator derived from
// cfg.Secret and cfg.Suffix, plus its associated decoy generator. For a
// successful exchange this must match the corresponding writer.New call
// exactly: same secret, same suffix.
func New(cfg Config) *Reader {
	gen := namegen.New(cfg.Secret, cfg.Suffix)
	decoy, err := namegen.NewDecoy(gen)
	if err != nil {
		panic(fmt.Sprintf("reader: deriving decoy generator: %v", err))
	}
	return &Reader{
		cfg:   cfg,
		gen:   gen,
		decoy: decoy,
		log:   xlog.New(xlog.NewTag()),
	}
}

// Receive reads one framed message from the channel: a length byte
// followed by that many framed payload bytes. It is the Reader's only
// operation; calling it again returns ErrSessionExhausted.
//
// Receive returns xipo.ErrNoByte if the writer has not yet reserved the
// next byte's frame, so callers polling for a message should treat that
// error as "not yet" and retry later rather than as a hard failure.
func (r *Reader) Receive(ctx context.Context) ([]byte, error) {
	if r.used {
		return nil, ErrSessionExhausted
	}
	r.used = true

	r.log.Printf("receiving message")
	payload, err := xipo.ReadMessage(ctx, r.cfg.Probe, r.gen)
	if err != nil {
		if errors.Is(err, xipo.ErrNoByte) {
			r.log.Printf("no message available yet")
		} else {
			r.log.Printf("receive failed: %v", err)
		}
		return nil, fmt.Errorf("reader: receive: %w", err)
	}
	r.log.Printf("received %d-byte message", len(payload))
	return payload, nil
}
