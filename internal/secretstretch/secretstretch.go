// Package secretstretch turns a human-memorable passphrase into the fixed
// secret a xipology Channel Session derives its name stream from, using
// Argon2id. It is an optional hardening step ahead of internal/namegen, not
// part of the protocol core: two endpoints can just as well agree on a raw
// secret and skip this package entirely.
//
// Only the Argon2id key-derivation half is needed here; an AES-GCM
// encryption half has no role since the protocol core carries no
// ciphertext, only cache-presence bits.
package secretstretch

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// SaltLen is the length, in bytes, of a generated salt.
	SaltLen = 16

	// SecretLen is the length, in bytes, of the stretched secret.
	SecretLen = 32

	argonTime  = 1
	argonMem   = 64 * 1024 // 64 MB in KiB
	argonLanes = 4
)

// DefaultSalt is a fixed, publicly documented salt for callers that want
// --stretch to work without exchanging a salt out of band: both endpoints
// hard-code the same passphrase and arrive at the same stretched secret.
// Using a shared constant salt instead of a random one trades away the
// usual defense a salt buys (rainbow-table resistance across sites) in
// exchange for that convenience; callers who don't need it can generate
// their own salt with GenerateSalt and distribute it like the secret.
var DefaultSalt = []byte("xipology-default-stretch-salt-v1")[:SaltLen]

// GenerateSalt returns a cryptographically random salt suitable for Stretch.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	return salt, nil
}

// Stretch derives a SecretLen-byte secret from passphrase and salt using
// Argon2id. Both endpoints must agree on salt out of band (just as they must
// agree on the raw secret in unstretched mode); a fixed, documented salt is
// the typical choice, since the whole point is to avoid exchanging anything
// beyond the passphrase itself.
func Stretch(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, argonTime, argonMem, argonLanes, SecretLen)
}
