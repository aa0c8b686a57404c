package dnsprobe

import (
	"sync"
	"time"

	"github.com/miekg/dns"
)

// TestCache simulates a recursive resolver's cache: a name is a "hit" if it
// was seen within the configured TTL, a "miss" otherwise, in which case the
// lookup records the name as seen and reports missDelay, which TestHandler
// sleeps before answering (standing in for the extra round trip a real
// resolver pays to an upstream authority).
//
// It is a mutex-guarded map plus a periodic cleanup goroutine, tracking
// "names recently resolved" rather than file chunks, which is exactly the
// resolver behavior the protocol core depends on.
type TestCache struct {
	mu        sync.Mutex
	seen      map[string]time.Time
	ttl       time.Duration
	missDelay time.Duration
}

// NewTestCache constructs a TestCache with the given TTL and artificial
// miss latency.
func NewTestCache(ttl, missDelay time.Duration) *TestCache {
	return &TestCache{
		seen:      make(map[string]time.Time),
		ttl:       ttl,
		missDelay: missDelay,
	}
}

// Lookup reports whether name is currently cached, inserting it (as a side
// effect) if it was not. It also returns the delay the caller should
// observe: zero for a hit, missDelay for a miss.
func (c *TestCache) Lookup(name string) (hit bool, delay time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.seen[name]; ok && time.Since(t) < c.ttl {
		return true, 0
	}
	c.seen[name] = time.Now()
	return false, c.missDelay
}

// StartCleanup launches a background goroutine that evicts entries past
// their TTL via a ticker-driven sweep. It stops when done is closed.
func (c *TestCache) StartCleanup(interval time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

func (c *TestCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := time.Now().Add(-c.ttl)
	for name, t := range c.seen {
		if t.Before(cutoff) {
			delete(c.seen, name)
		}
	}
}

// TestHandler is a minimal authoritative dns.Handler backed by a TestCache,
// used by the integration test to exercise a real Resolver against real UDP
// sockets without depending on an external recursive resolver. It answers
// every query with a single placeholder SRV record, after sleeping
// Cache.missDelay on a cold name, the way a genuine resolver's extra
// upstream round trip would show up as added latency.
type TestHandler struct {
	Cache *TestCache
}

// ServeDNS implements dns.Handler.
func (h *TestHandler) ServeDNS(w dns.ResponseWriter, r *dns.Msg) {
	m := new(dns.Msg)
	m.SetReply(r)
	m.Authoritative = true

	if len(r.Question) == 0 {
		_ = w.WriteMsg(m)
		return
	}

	q := r.Question[0]
	_, delay := h.Cache.Lookup(q.Name)
	if delay > 0 {
		time.Sleep(delay)
	}

	m.Answer = append(m.Answer, &dns.SRV{
		Hdr: dns.RR_Header{
			Name:   q.Name,
			Rrtype: dns.TypeSRV,
			Class:  dns.ClassINET,
			Ttl:    0,
		},
		Priority: 0,
		Weight:   0,
		Port:     0,
		Target:   "target.invalid.",
	})

	if err := w.WriteMsg(m); err != nil {
		// Best-effort: the test harness observes failure via the client
		// side's own timeout/error handling.
		return
	}
}
