package strength

import (
	"strings"
	"testing"
)

func TestGenerateDefaults(t *testing.T) {
	t.Parallel()
	for i := 0; i < 20; i++ {
		pw, err := Generate(DefaultGenerateOptions())
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(pw) != 16 {
			t.Fatalf("length %d: %q", len(pw), pw)
		}
		min := MeetsMinimum(pw)
		if !min.Meets {
			t.Fatalf("generated password fails minimum: %q %+v", pw, min.Requirements)
		}
	}
}

func TestGenerateSingleClass(t *testing.T) {
	t.Parallel()
	pw, err := Generate(GenerateOptions{Length: 12, Digits: true})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, r := range pw {
		if !strings.ContainsRune(genDigits, r) {
			t.Fatalf("unexpected rune %q in %q", r, pw)
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()
	if _, err := Generate(GenerateOptions{Length: 10}); err == nil {
		t.Fatalf("want error with no classes")
	}
	if _, err := Generate(GenerateOptions{Length: 2, Upper: true, Lower: true, Digits: true}); err == nil {
		t.Fatalf("want error when length < classes")
	}
}

func TestGenerateNotConstant(t *testing.T) {
	t.Parallel()
	a, _ := Generate(DefaultGenerateOptions())
	b, _ := Generate(DefaultGenerateOptions())
	if a == b {
		t.Fatalf("two generations identical: %q", a)
	}
}
