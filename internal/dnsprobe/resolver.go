// Package dnsprobe is the concrete, production-usable implementation of the
// bitprobe.Probe interface: it writes and reads bits by issuing real SRV
// queries against a configured recursive resolver over github.com/miekg/dns,
// classifying a read as "cached" by comparing its round-trip latency
// against a calibrated hit/miss baseline.
//
// The query/retry plumbing (dns.Client, exponential backoff, bounded
// retries) and the calibration approach (paired miss/hit timing trials)
// are generalized from "parse the answer" to "time the round trip".
package dnsprobe

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/miekg/dns"
)

// Config configures a Resolver.
type Config struct {
	// Server is the resolver address, e.g. "127.0.0.1:53".
	Server string
	// Net is "udp" (default) or "tcp".
	Net string
	// Timeout is the per-query timeout.
	Timeout time.Duration
	// MaxRetries is the number of retries after an initial failed query.
	MaxRetries int
	// CalibrationSuffix is the zone under which random calibration probe
	// names are queried. It SHOULD resolve against the same server as the
	// channel's own names so the latency baseline is representative.
	CalibrationSuffix string
}

func (c Config) withDefaults() Config {
	if c.Net == "" {
		c.Net = "udp"
	}
	if c.Timeout == 0 {
		c.Timeout = 2 * time.Second
	}
	if c.CalibrationSuffix == "" {
		c.CalibrationSuffix = "xipoconf.invalid."
	}
	return c
}

// QueryTimes is the latency baseline a Resolver calibrates once per session,
// mirroring original_source/lib/autoconf.rs's QueryTimes struct.
type QueryTimes struct {
	Miss float64 // average microseconds for a cold (uncached) query
	Hit  float64 // average microseconds for a warm (cached) query
}

// Resolver implements bitprobe.Probe by querying a real recursive resolver.
type Resolver struct {
	cfg Config

	calOnce sync.Once
	calErr  error
	times   QueryTimes
}

// New constructs a Resolver. cfg.Server is required; all other fields have
// sane defaults.
func New(cfg Config) *Resolver {
	return &Resolver{cfg: cfg.withDefaults()}
}

// WriteBit implements bitprobe.Probe. When set is false it performs no I/O.
func (r *Resolver) WriteBit(ctx context.Context, name string, set bool) error {
	if !set {
		return nil
	}
	_, err := r.queryOnce(ctx, name)
	return err
}

// ReadBit implements bitprobe.Probe: it queries name, times the round trip,
// and classifies the result against the session's calibrated hit/miss
// baseline — whichever of the two the observed latency sits closer to.
func (r *Resolver) ReadBit(ctx context.Context, name string) (bool, error) {
	times, err := r.calibrated(ctx)
	if err != nil {
		return false, fmt.Errorf("calibrating latency baseline: %w", err)
	}

	elapsed, err := r.queryOnce(ctx, name)
	if err != nil {
		return false, err
	}

	delay := float64(elapsed.Microseconds())
	missDist := math.Abs(times.Miss - delay)
	hitDist := math.Abs(times.Hit - delay)
	return hitDist < missDist, nil
}

// Calibrate forces the Resolver's latency baseline measurement and returns
// it, for callers (such as an auto-configuration helper) that want to
// report or persist the baseline without performing an actual bit read.
// Like ReadBit's implicit calibration, it runs at most once per Resolver.
func (r *Resolver) Calibrate(ctx context.Context) (QueryTimes, error) {
	return r.calibrated(ctx)
}

// calibrated returns the Resolver's latency baseline, measuring it on first
// use and caching it for the rest of the Resolver's lifetime, across every
// session that shares this Resolver.
func (r *Resolver) calibrated(ctx context.Context) (QueryTimes, error) {
	r.calOnce.Do(func() {
		r.times, r.calErr = r.measureBaseline(ctx)
	})
	return r.times, r.calErr
}

// measureBaseline runs paired miss/hit queries against fresh random names:
// query an unseen name once (a cold miss), then again immediately (a warm
// hit), and average both over several trials.
func (r *Resolver) measureBaseline(ctx context.Context) (QueryTimes, error) {
	const trials = 20

	var missSum, hitSum float64
	for i := 0; i < trials; i++ {
		name, err := randomCalibrationName(r.cfg.CalibrationSuffix)
		if err != nil {
			return QueryTimes{}, fmt.Errorf("generating calibration name: %w", err)
		}

		miss, err := r.queryOnce(ctx, name)
		if err != nil {
			return QueryTimes{}, fmt.Errorf("calibration miss query: %w", err)
		}
		hit, err := r.queryOnce(ctx, name)
		if err != nil {
			return QueryTimes{}, fmt.Errorf("calibration hit query: %w", err)
		}

		missSum += float64(miss.Microseconds())
		hitSum += float64(hit.Microseconds())
	}

	return QueryTimes{
		Miss: missSum / trials,
		Hit:  hitSum / trials,
	}, nil
}

// queryOnce issues a single SRV query for name, retrying with exponential
// backoff on transport failure, and returns the round-trip latency of the
// query that succeeded.
func (r *Resolver) queryOnce(ctx context.Context, name string) (time.Duration, error) {
	c := &dns.Client{Net: r.cfg.Net, Timeout: r.cfg.Timeout}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), dns.TypeSRV)
	m.RecursionDesired = true

	var lastErr error
	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(backoff):
			}
		}

		start := time.Now()
		_, _, err := c.ExchangeContext(ctx, m, r.cfg.Server)
		elapsed := time.Since(start)
		if err != nil {
			lastErr = err
			continue
		}
		return elapsed, nil
	}

	return 0, fmt.Errorf("after %d retries: %w", r.cfg.MaxRetries, lastErr)
}

// randomCalibrationName builds a fresh, never-before-queried name under
// suffix, so the first of a measureBaseline pair is guaranteed to be a cold
// miss.
func randomCalibrationName(suffix string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating random label: %w", err)
	}
	return fmt.Sprintf("%s.%s", base64.RawURLEncoding.EncodeToString(buf), suffix), nil
}
