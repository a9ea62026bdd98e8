package qr

import (
	"bytes"
	"testing"
)

func TestRandomGenerator_ShapeAndCharset(t *testing.T) {
	g := NewRandomGenerator()

	for i := 0; i < 200; i++ {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
		if !ValidCode(code) {
			t.Fatalf("code %q is not %d uppercase alphanumerics", code, CodeLength)
		}
	}
}

func TestRandomGenerator_NoRepeatsInSample(t *testing.T) {
	g := NewRandomGenerator()
	seen := make(map[string]struct{})

	for i := 0; i < 5000; i++ {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
		if _, dup := seen[code]; dup {
			t.Fatalf("duplicate code %q after %d draws", code, i)
		}
		seen[code] = struct{}{}
	}
}

func TestRandomGenerator_ShortReaderFails(t *testing.T) {
	g := &RandomGenerator{reader: bytes.NewReader(nil)}

	if _, err := g.Generate(); err == nil {
		t.Fatalf("expected error from exhausted random source")
	}
}

func TestValidCode(t *testing.T) {
	cases := map[string]bool{
		"ABC123XYZ012":  true,
		"abc123xyz012":  false,
		"ABC123XYZ01":   false,
		"ABC123XYZ0123": false,
		"ABC-23XYZ012":  false,
		"":              false,
	}
	for in, want := range cases {
		if got := ValidCode(in); got != want {
			t.Errorf("ValidCode(%q) = %v, want %v", in, got, want)
		}
	}
}
