// Package writer implements the writer half of a xipology Channel Session:
// it binds a secret, a zone suffix, and a Bit Probe to a fresh Name
// Generator and exposes exactly one operation, Send.
//
// There is no file chunking or acknowledgement protocol here: a message is
// a single write-message call over the protocol core in the repository
// root package.
package writer

import (
	"context"
	"errors"
	"fmt"

	xipo "github.com/rcoop/xipology"
	"github.com/rcoop/xipology/internal/bitprobe"
	"github.com/rcoop/xipology/internal/namegen"
	"github.com/rcoop/xipology/internal/xlog"
)

// ErrSessionExhausted is returned by Send if called more than once on the
// same Writer: per the Channel Session contract, a session transmits at
// most one message and is exhausted once Send returns.
var ErrSessionExhausted = errors.New("writer: session already sent a message")

// Config configures a Writer.
type Config struct {
	// Secret seeds the Name Generator. Must match the reader's secret.
	Secret []byte
	// Suffix is the zone suffix appended to every generated name. Defaults
	// to namegen.DefaultSuffix.
	Suffix string
	// Probe performs the DNS cache writes.
	Probe bitprobe.Probe
	// DecoyBits is the number of chaff bits to scatter across the decoy
	// generator's name stream per message. The decoy generator is always
	// derived so it is reachable from the session, but Send never queries
	// it and does not read this field, whatever its value.
	DecoyBits int
}

// Writer is the writer half of a Channel Session.
type Writer struct {
	cfg   Config
	gen   *namegen.Generator
	decoy *namegen.Generator
	log   *xlog.Session
	used  bool
}

// New constructs a Writer with a fresh Name Generator derived from
// cfg.Secret and cfg.Suffix, plus its associated decoy generator.
func New(cfg Config) *Writer {
	gen := namegen.New(cfg.Secret, cfg.Suffix)
	decoy, err := namegen.NewDecoy(gen)
	if err != nil {
		// rawBlock only fails if the keystream is exhausted, which cannot
		// happen on a freshly constructed generator.
		panic(fmt.Sprintf("writer: deriving decoy generator: %v", err))
	}
	return &Writer{
		cfg:   cfg,
		gen:   gen,
		decoy: decoy,
		log:   xlog.New(xlog.NewTag()),
	}
}

// Send writes payload (1 to 255 bytes) to the channel: one framed length
// byte followed by one framed byte per element of payload. It is the
// Writer's only operation; calling it again returns ErrSessionExhausted.
func (w *Writer) Send(ctx context.Context, payload []byte) error {
	if w.used {
		return ErrSessionExhausted
	}
	w.used = true

	w.log.Printf("sending %d-byte message", len(payload))
	if err := xipo.WriteMessage(ctx, w.cfg.Probe, w.gen, payload); err != nil {
		w.log.Printf("send failed: %v", err)
		return fmt.Errorf("writer: send: %w", err)
	}
	w.log.Printf("send complete")
	return nil
}
