// Command xipo-probe is an auto-configuration helper: it measures a
// resolver's cache hit/miss latency baseline and reports it, so an operator
// can sanity-check a resolver before trusting xipo-write/xipo-read against
// it (a resolver with noisy or negligible hit/miss separation makes a poor
// channel).
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/rcoop/xipology/internal/dnsprobe"
)

func main() {
	resolver := flag.String("resolver", "127.0.0.1:53", "DNS resolver address (ip:port)")
	netProto := flag.String("net", "udp", "Transport: udp or tcp")
	timeout := flag.Duration("timeout", 2*time.Second, "Per-query timeout")
	retries := flag.Int("retry", 3, "Maximum retries per query")
	flag.Parse()

	r := dnsprobe.New(dnsprobe.Config{
		Server:     *resolver,
		Net:        *netProto,
		Timeout:    *timeout,
		MaxRetries: *retries,
	})

	log.Printf("calibrating against %s ...", *resolver)
	times, err := r.Calibrate(context.Background())
	if err != nil {
		log.Fatalf("calibration failed: %v", err)
	}

	separation := times.Miss - times.Hit
	log.Printf("miss: %.1fus  hit: %.1fus  separation: %.1fus", times.Miss, times.Hit, separation)
	if separation <= 0 {
		log.Printf("warning: no measurable hit/miss separation against this resolver; reads will be unreliable")
	}
}
