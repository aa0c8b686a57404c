// Command xipo-write sends a byte string over a xipology channel: it reads
// a message from a file or stdin, derives a Name Generator from a secret,
// and drives a writer.Writer against a configured DNS resolver.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/rcoop/xipology/internal/dnsprobe"
	"github.com/rcoop/xipology/internal/namegen"
	"github.com/rcoop/xipology/internal/secretstretch"
	"github.com/rcoop/xipology/writer"
)

func main() {
	secret := flag.String("secret", "", "Shared secret (required unless -stretch is set)")
	stretch := flag.String("stretch", "", "Passphrase to stretch into a secret via Argon2id, instead of -secret")
	suffix := flag.String("suffix", namegen.DefaultSuffix, "Zone suffix appended to generated names")
	resolver := flag.String("resolver", "127.0.0.1:53", "DNS resolver address (ip:port)")
	netProto := flag.String("net", "udp", "Transport: udp or tcp")
	timeout := flag.Duration("timeout", 2*time.Second, "Per-query timeout")
	retries := flag.Int("retry", 3, "Maximum retries per query")
	file := flag.String("f", "", "File to send (default: read from stdin)")
	flag.Parse()

	if *secret == "" && *stretch == "" {
		fmt.Fprintln(os.Stderr, "Usage: xipo-write -secret <secret> [-f file] [flags]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var key []byte
	if *stretch != "" {
		key = secretstretch.Stretch(*stretch, secretstretch.DefaultSalt)
	} else {
		key = []byte(*secret)
	}

	payload, err := readPayload(*file)
	if err != nil {
		log.Fatalf("reading message: %v", err)
	}

	probe := dnsprobe.New(dnsprobe.Config{
		Server:     *resolver,
		Net:        *netProto,
		Timeout:    *timeout,
		MaxRetries: *retries,
	})

	w := writer.New(writer.Config{
		Secret: key,
		Suffix: *suffix,
		Probe:  probe,
	})

	log.Printf("sending %d-byte message via %s", len(payload), *resolver)
	if err := w.Send(context.Background(), payload); err != nil {
		log.Fatalf("send failed: %v", err)
	}
	log.Printf("send complete")
}

func readPayload(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
