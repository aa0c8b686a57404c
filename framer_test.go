package xipo

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rcoop/xipology/internal/namegen"
)

func TestWriteReadMessageRoundTrip(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		secret  string
		payload []byte
	}{
		{"single byte", "s", []byte{0x5A}},
		{"short text", "message-secret", []byte("hello, xipology")},
		{"full alphabet", "abc", fullAlphabetPayload()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := newCacheOracle()
			writer := namegen.New([]byte(tt.secret), "")
			if err := WriteMessage(ctx, oracle, writer, tt.payload); err != nil {
				t.Fatalf("WriteMessage: %v", err)
			}

			reader := namegen.New([]byte(tt.secret), "")
			got, err := ReadMessage(ctx, oracle, reader)
			if err != nil {
				t.Fatalf("ReadMessage: %v", err)
			}
			if !bytes.Equal(got, tt.payload) {
				t.Fatalf("round trip mismatch:\n  want: %x\n  got:  %x", tt.payload, got)
			}
		})
	}
}

func fullAlphabetPayload() []byte {
	payload := make([]byte, 255)
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	return payload
}

func TestWriteMessageDomainError(t *testing.T) {
	ctx := context.Background()
	oracle := newCacheOracle()
	gen := namegen.New([]byte("domain-secret"), "")

	if err := WriteMessage(ctx, oracle, gen, nil); !errors.Is(err, ErrDomain) {
		t.Fatalf("empty payload: expected ErrDomain, got %v", err)
	}

	tooLong := make([]byte, 256)
	if err := WriteMessage(ctx, oracle, gen, tooLong); !errors.Is(err, ErrDomain) {
		t.Fatalf("256-byte payload: expected ErrDomain, got %v", err)
	}
}

func TestReadMessageNoMessage(t *testing.T) {
	ctx := context.Background()
	oracle := newCacheOracle()
	reader := namegen.New([]byte("empty-channel-secret"), "")

	_, err := ReadMessage(ctx, oracle, reader)
	if !errors.Is(err, ErrNoByte) {
		t.Fatalf("expected ErrNoByte, got %v", err)
	}
}

func TestReadMessageTruncated(t *testing.T) {
	ctx := context.Background()
	oracle := newCacheOracle()
	secret := []byte("truncation-secret")

	writer := namegen.New(secret, "")
	// Announce a length of 3 but only ever write two payload bytes.
	if err := WriteByte(ctx, oracle, writer, 3); err != nil {
		t.Fatalf("WriteByte(length): %v", err)
	}
	if err := WriteByte(ctx, oracle, writer, 0xAA); err != nil {
		t.Fatalf("WriteByte(payload[0]): %v", err)
	}
	if err := WriteByte(ctx, oracle, writer, 0xBB); err != nil {
		t.Fatalf("WriteByte(payload[1]): %v", err)
	}

	reader := namegen.New(secret, "")
	_, err := ReadMessage(ctx, oracle, reader)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if !errors.Is(err, ErrNoByte) {
		t.Fatalf("expected truncation cause to be ErrNoByte, got %v", err)
	}
}
