package domain_test

import (
	"testing"

	"go.trai.ch/weld/internal/core/domain"
)

func TestInternedString_Equality(t *testing.T) {
	a := domain.NewInternedString(":b1:jar")
	b := domain.NewInternedString(":b1:jar")
	c := domain.NewInternedString(":b2:jar")

	if a != b {
		t.Error("expected equal interned strings to compare equal")
	}
	if a == c {
		t.Error("expected different interned strings to compare unequal")
	}
	if a.String() != ":b1:jar" {
		t.Errorf("unexpected value: %s", a.String())
	}
}

func TestInternedString_ZeroValue(t *testing.T) {
	var zero domain.InternedString
	if zero.String() != "" {
		t.Errorf("expected empty string for zero value, got %q", zero.String())
	}
}

func TestInternedString_TextRoundTrip(t *testing.T) {
	orig := domain.NewInternedString(":assemble")
	data, err := orig.MarshalText()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded domain.InternedString
	if err := decoded.UnmarshalText(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded != orig {
		t.Errorf("expected %v, got %v", orig, decoded)
	}
}
