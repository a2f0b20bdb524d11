package common

import (
	"strings"
	"testing"
)

// ---------- MakeRandString ----------

func TestMakeRandString_Length(t *testing.T) {
	const n = IDLength
	s, err := MakeRandString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != n {
		t.Fatalf("expected length %d, got %d", n, len(s))
	}
}

func TestMakeRandString_Alphabet(t *testing.T) {
	s, err := MakeRandString(200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range s {
		if !strings.ContainsRune(idAlphabet, r) {
			t.Fatalf("character %q is outside the id alphabet", r)
		}
	}
}

func TestMakeRandString_ZeroLength(t *testing.T) {
	s, err := MakeRandString(0)
	if err != nil {
		t.Fatalf("unexpected error for length=0: %v", err)
	}
	if s != "" {
		t.Fatalf("expected empty string for length=0, got %q", s)
	}
}

func TestMakeRandString_EntropyHint(t *testing.T) {
	a, err := MakeRandString(IDLength)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := MakeRandString(IDLength)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a == b {
		t.Logf("warning: two MakeRandString(%d) results are identical; extremely unlikely", IDLength)
	}
}
