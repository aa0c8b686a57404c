// Package xlog is a thin session-ID-prefixed wrapper around the standard
// log package, producing "[%s] detail" lines so a writer's and reader's
// interleaved output stays attributable to a single session.
package xlog

import (
	"crypto/rand"
	"fmt"
	"log"
	"time"
)

// Session logs lines prefixed with a short correlation tag. The tag carries
// no protocol meaning; it exists purely so that a reader's or writer's
// interleaved log output can be told apart across concurrent runs.
type Session struct {
	tag string
}

// New returns a Session logger tagged with tag.
func New(tag string) *Session {
	return &Session{tag: tag}
}

// Printf logs a formatted line prefixed with the session's tag.
func (s *Session) Printf(format string, args ...any) {
	log.Printf("[%s] "+format, append([]any{s.tag}, args...)...)
}

// NewTag generates a short correlation tag for a new session: four random
// bytes, falling back to a nanosecond timestamp if the system CSPRNG is
// unavailable.
func NewTag() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		t := time.Now().UnixNano()
		b[0] = byte(t >> 24)
		b[1] = byte(t >> 16)
		b[2] = byte(t >> 8)
		b[3] = byte(t)
	}
	return fmt.Sprintf("%08x", b)
}
