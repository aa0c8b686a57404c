// Command xipo-read receives a byte string over a xipology channel: it
// drives a reader.Reader against a configured DNS resolver and writes the
// recovered message to a file or stdout.
//
// Because a Channel Session transmits at most one message and is exhausted
// after a single receive, polling for a not-yet-written message means
// opening a fresh session each attempt: -attempts governs how many fresh
// sessions xipo-read opens (pausing -retry-interval between them) before
// giving up. This loop lives entirely at the CLI layer; the protocol core
// has no notion of retrying a session.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	xipo "github.com/rcoop/xipology"
	"github.com/rcoop/xipology/internal/dnsprobe"
	"github.com/rcoop/xipology/internal/namegen"
	"github.com/rcoop/xipology/internal/secretstretch"
	"github.com/rcoop/xipology/reader"
)

func main() {
	secret := flag.String("secret", "", "Shared secret (required unless -stretch is set)")
	stretch := flag.String("stretch", "", "Passphrase to stretch into a secret via Argon2id, instead of -secret")
	suffix := flag.String("suffix", namegen.DefaultSuffix, "Zone suffix appended to generated names")
	resolver := flag.String("resolver", "127.0.0.1:53", "DNS resolver address (ip:port)")
	netProto := flag.String("net", "udp", "Transport: udp or tcp")
	timeout := flag.Duration("timeout", 2*time.Second, "Per-query timeout")
	retries := flag.Int("retry", 3, "Maximum retries per query")
	attempts := flag.Int("attempts", 1, "Number of fresh sessions to try if no message has arrived yet")
	retryInterval := flag.Duration("retry-interval", 2*time.Second, "Pause between attempts")
	outputFile := flag.String("output-file", "", "File to write the received message to (default: stdout)")
	flag.Parse()

	if *secret == "" && *stretch == "" {
		fmt.Fprintln(os.Stderr, "Usage: xipo-read -secret <secret> [flags]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var key []byte
	if *stretch != "" {
		key = secretstretch.Stretch(*stretch, secretstretch.DefaultSalt)
	} else {
		key = []byte(*secret)
	}

	probe := dnsprobe.New(dnsprobe.Config{
		Server:     *resolver,
		Net:        *netProto,
		Timeout:    *timeout,
		MaxRetries: *retries,
	})

	ctx := context.Background()

	var payload []byte
	var err error
	for attempt := 1; attempt <= *attempts; attempt++ {
		r := reader.New(reader.Config{
			Secret: key,
			Suffix: *suffix,
			Probe:  probe,
		})

		log.Printf("attempt %d/%d: waiting for message via %s", attempt, *attempts, *resolver)
		payload, err = r.Receive(ctx)
		if err == nil {
			break
		}
		if !errors.Is(err, xipo.ErrNoByte) {
			log.Fatalf("receive failed: %v", err)
		}
		if attempt < *attempts {
			time.Sleep(*retryInterval)
		}
	}
	if err != nil {
		log.Fatalf("no message received after %d attempts: %v", *attempts, err)
	}

	if *outputFile == "" {
		os.Stdout.Write(payload)
		return
	}
	if err := os.WriteFile(*outputFile, payload, 0644); err != nil {
		log.Fatalf("writing output file: %v", err)
	}
	log.Printf("wrote %d-byte message to %s", len(payload), *outputFile)
}
