package writer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rcoop/xipology/internal/namegen"
)

// memProbe is a faithful in-memory cache oracle: any query, read or write,
// inserts the name.
type memProbe struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemProbe() *memProbe {
	return &memProbe{seen: make(map[string]bool)}
}

func (p *memProbe) WriteBit(ctx context.Context, name string, set bool) error {
	if !set {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen[name] = true
	return nil
}

func (p *memProbe) ReadBit(ctx context.Context, name string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	was := p.seen[name]
	p.seen[name] = true
	return was, nil
}

func TestWriterSendSucceeds(t *testing.T) {
	probe := newMemProbe()
	w := New(Config{Secret: []byte("shared-secret"), Suffix: namegen.DefaultSuffix, Probe: probe})

	if err := w.Send(context.Background(), []byte("hello")); err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestWriterSendTwiceFails(t *testing.T) {
	probe := newMemProbe()
	w := New(Config{Secret: []byte("shared-secret"), Suffix: namegen.DefaultSuffix, Probe: probe})

	if err := w.Send(context.Background(), []byte("hello")); err != nil {
		t.Fatalf("first Send: %v", err)
	}
	err := w.Send(context.Background(), []byte("world"))
	if !errors.Is(err, ErrSessionExhausted) {
		t.Fatalf("second Send: got %v, want ErrSessionExhausted", err)
	}
}

func TestWriterSendRejectsOversizedPayload(t *testing.T) {
	probe := newMemProbe()
	w := New(Config{Secret: []byte("shared-secret"), Suffix: namegen.DefaultSuffix, Probe: probe})

	big := make([]byte, 256)
	if err := w.Send(context.Background(), big); err == nil {
		t.Fatal("expected an error for a 256-byte payload")
	}
}
