// Package namegen produces the deterministic, keyed sequence of DNS names
// that both ends of a xipology channel must walk in lockstep.
//
// Scheme version xipo/v1: HKDF-SHA-512 Extract runs once over the caller's
// secret with an empty salt, producing a pseudorandom key that is cached for
// the Generator's lifetime. Each name then gets its own HKDF-Expand call
// against that cached key, keyed by an info parameter built from the zone
// suffix and a monotonically-increasing block counter. RFC 5869 caps a
// single Expand call at 255*HashLen bytes (16320 bytes for SHA-512, i.e. 510
// names) if drawn from one continuous stream; a fresh Expand call with a
// distinct info per block instead of draining one unbounded stream —
// standing in for the per-block re-keying original_source/lib/xipology.rs's
// NameDerivator performs —
// means a Generator can run for as many names as the block counter allows
// (2^64), not 510. A future incompatible derivation bumps the version
// string below.
package namegen

import (
	"crypto/sha512"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Version identifies the derivation scheme implemented by this package.
const Version = "xipo/v1"

// DefaultSuffix is the zone suffix appended to every generated name when the
// caller does not configure one of their own.
const DefaultSuffix = "xipology.example.com."

const (
	chunkLen = 16 // bytes per label before encoding
	blockLen = 2 * chunkLen
)

// Generator is a stateful, deterministic producer of an infinite sequence of
// fully-qualified DNS names. Two generators constructed with New(secret,
// suffix) for the same (secret, suffix) pair emit identical sequences.
//
// A Generator is not safe for concurrent use: names must be consumed in
// strict order by a single Channel Session.
type Generator struct {
	suffix string
	prk    []byte
	index  uint64
}

// New derives a fresh Generator from secret. An empty secret is accepted;
// HKDF does not require non-empty input keying material.
func New(secret []byte, suffix string) *Generator {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &Generator{
		suffix: suffix,
		prk:    hkdf.Extract(sha512.New, secret, nil),
	}
}

// NewDecoy derives a second, independent Generator by running one block of
// the primary keystream through a fresh HKDF-Extract as a new secret. This
// mirrors original_source/lib/xipology.rs's decoy name derivator; it is
// reachable from a session, but no session queries a decoy generator,
// whatever the Channel Session's DecoyBits field is set to. Deriving the
// decoy consumes one block of primary's keystream.
func NewDecoy(primary *Generator) (*Generator, error) {
	seed, err := primary.rawBlock()
	if err != nil {
		return nil, fmt.Errorf("deriving decoy seed: %w", err)
	}
	return New(seed, primary.suffix), nil
}

// Next produces the next DNS name in the sequence and advances the
// Generator's state. It never fails on a correctly-constructed Generator;
// the error return exists because the underlying keystream read can in
// principle be exhausted, which golang.org/x/crypto/hkdf signals as an
// error rather than a panic.
func (g *Generator) Next() (string, error) {
	block, err := g.rawBlock()
	if err != nil {
		return "", fmt.Errorf("reading keystream: %w", err)
	}

	label1 := base64.RawURLEncoding.EncodeToString(block[:chunkLen])
	label2 := base64.RawURLEncoding.EncodeToString(block[chunkLen:])
	return fmt.Sprintf("%s.%s.%s", label1, label2, g.suffix), nil
}

// rawBlock derives the next 32-byte keystream block via a fresh
// HKDF-Expand call against the Generator's cached pseudorandom key, keyed
// by the current block counter, then advances the counter. Expanding afresh
// per block this way means no single Expand call ever approaches RFC
// 5869's 255*HashLen output cap, however many names a Generator emits.
func (g *Generator) rawBlock() ([]byte, error) {
	expander := hkdf.Expand(sha512.New, g.prk, blockInfo(g.suffix, g.index))
	g.index++

	block := make([]byte, blockLen)
	if _, err := io.ReadFull(expander, block); err != nil {
		return nil, err
	}
	return block, nil
}

// blockInfo builds the per-block HKDF info parameter: the zone suffix
// followed by the block's big-endian counter, so that every block a
// Generator ever derives uses a distinct Expand context.
func blockInfo(suffix string, index uint64) []byte {
	info := make([]byte, len(suffix)+8)
	copy(info, suffix)
	binary.BigEndian.PutUint64(info[len(suffix):], index)
	return info
}

// Suffix reports the zone suffix this Generator appends to every name.
func (g *Generator) Suffix() string {
	return g.suffix
}
