package namegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeterministic(t *testing.T) {
	tests := []struct {
		name   string
		secret []byte
		suffix string
	}{
		{"basic", []byte("hunter2"), ""},
		{"empty secret", []byte{}, ""},
		{"custom suffix", []byte("abc"), "covert.example.net."},
		{"binary secret", []byte{0x00, 0xff, 0x10, 0x20}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g1 := New(tt.secret, tt.suffix)
			g2 := New(tt.secret, tt.suffix)

			for k := 0; k < 8; k++ {
				n1, err := g1.Next()
				require.NoError(t, err)
				n2, err := g2.Next()
				require.NoError(t, err)
				require.Equal(t, n1, n2, "name %d diverged between two generators seeded alike", k)
			}
		})
	}
}

func TestNamesAreWellFormed(t *testing.T) {
	g := New([]byte("a shared secret"), "")
	for i := 0; i < 16; i++ {
		name, err := g.Next()
		require.NoError(t, err)

		require.True(t, strings.HasSuffix(name, "."+DefaultSuffix))
		parts := strings.Split(strings.TrimSuffix(name, "."+DefaultSuffix), ".")
		require.Len(t, parts, 2)
		for _, label := range parts {
			require.NotEmpty(t, label)
			require.NotContains(t, label, "+")
			require.NotContains(t, label, "/")
			require.NotContains(t, label, "=")
		}
	}
}

func TestDifferentSecretsDiverge(t *testing.T) {
	g1 := New([]byte("secret-one"), "")
	g2 := New([]byte("secret-two"), "")

	n1, err := g1.Next()
	require.NoError(t, err)
	n2, err := g2.Next()
	require.NoError(t, err)
	require.NotEqual(t, n1, n2)
}

func TestDifferentSuffixesDiverge(t *testing.T) {
	g1 := New([]byte("same secret"), "one.example.")
	g2 := New([]byte("same secret"), "two.example.")

	n1, err := g1.Next()
	require.NoError(t, err)
	n2, err := g2.Next()
	require.NoError(t, err)
	require.NotEqual(t, strings.SplitN(n1, ".", 3)[0], strings.SplitN(n2, ".", 3)[0])
}

func TestMonotonicNoRewind(t *testing.T) {
	g := New([]byte("rolling"), "")
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		name, err := g.Next()
		require.NoError(t, err)
		require.False(t, seen[name], "name repeated at step %d", i)
		seen[name] = true
	}
}

func TestSurvivesPastSingleExpandLimit(t *testing.T) {
	// A single HKDF-Expand call over SHA-512 tops out at 255*64 = 16320
	// bytes, i.e. 510 names at 32 bytes each. A Generator that drew every
	// name from one Expand stream would error on name 511; a fresh Expand
	// per block must not.
	g1 := New([]byte("long-haul-secret"), "")
	g2 := New([]byte("long-haul-secret"), "")

	const names = 600 // well past the 510-name single-Expand boundary
	for i := 0; i < names; i++ {
		n1, err := g1.Next()
		require.NoError(t, err, "name %d", i)
		n2, err := g2.Next()
		require.NoError(t, err, "name %d", i)
		require.Equal(t, n1, n2, "name %d diverged between two generators seeded alike", i)
	}
}

func TestDecoyGeneratorIndependent(t *testing.T) {
	primary := New([]byte("primary-secret"), "")
	decoy, err := NewDecoy(primary)
	require.NoError(t, err)

	primaryName, err := primary.Next()
	require.NoError(t, err)
	decoyName, err := decoy.Next()
	require.NoError(t, err)

	require.NotEqual(t, primaryName, decoyName)

	// Decoy derivation is itself deterministic given the same primary state.
	primary2 := New([]byte("primary-secret"), "")
	decoy2, err := NewDecoy(primary2)
	require.NoError(t, err)
	decoyName2, err := decoy2.Next()
	require.NoError(t, err)
	require.Equal(t, decoyName, decoyName2)
}
