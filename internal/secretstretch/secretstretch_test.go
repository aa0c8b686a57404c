package secretstretch

import (
	"bytes"
	"testing"
)

func TestStretchDeterministic(t *testing.T) {
	salt := []byte("0123456789abcdef") // 16 bytes
	s1 := Stretch("correct horse battery staple", salt)
	s2 := Stretch("correct horse battery staple", salt)

	if !bytes.Equal(s1, s2) {
		t.Error("same passphrase+salt should produce the same stretched secret")
	}
	if len(s1) != SecretLen {
		t.Fatalf("secret length: got %d, want %d", len(s1), SecretLen)
	}
}

func TestStretchDifferentPassphrasesDiverge(t *testing.T) {
	salt := []byte("0123456789abcdef")
	s1 := Stretch("passphrase one", salt)
	s2 := Stretch("passphrase two", salt)

	if bytes.Equal(s1, s2) {
		t.Error("different passphrases should not collide")
	}
}

func TestGenerateSaltLength(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	if len(salt) != SaltLen {
		t.Fatalf("salt length: got %d, want %d", len(salt), SaltLen)
	}
}
