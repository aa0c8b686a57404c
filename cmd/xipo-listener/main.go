// Command xipo-listener runs a minimal authoritative DNS server backed by
// an in-memory cache, standing in for a real recursive resolver during
// local testing: any name queried once becomes a cache hit on every
// subsequent query until its TTL expires. It lets xipo-write/xipo-read be
// exercised end to end without an external resolver.
package main

import (
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miekg/dns"

	"github.com/rcoop/xipology/internal/dnsprobe"
)

func main() {
	listen := flag.String("listen", "127.0.0.1:5353", "Address to listen on")
	ttl := flag.Duration("ttl", time.Minute, "Simulated cache entry lifetime")
	missDelay := flag.Duration("miss-delay", 25*time.Millisecond, "Artificial extra latency on a cold name")
	flag.Parse()

	conn, err := net.ListenPacket("udp", *listen)
	if err != nil {
		log.Fatalf("listening on %s: %v", *listen, err)
	}

	cache := dnsprobe.NewTestCache(*ttl, *missDelay)
	done := make(chan struct{})
	cache.StartCleanup(*ttl, done)

	srv := &dns.Server{PacketConn: conn, Handler: &dnsprobe.TestHandler{Cache: cache}}

	go func() {
		log.Printf("listening on %s (ttl=%s, miss-delay=%s)", *listen, *ttl, *missDelay)
		if err := srv.ActivateAndServe(); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("shutting down...")
	close(done)
	srv.Shutdown()
}
