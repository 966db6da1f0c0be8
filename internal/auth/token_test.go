package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/vrushal09/passnext/internal/errs"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()
	m := NewTokenManager([]byte("test-sign-key"), time.Hour)
	owner := uuid.Must(uuid.NewV4())

	tok, exp, err := m.Issue(owner)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if tok == "" || time.Until(exp) < 30*time.Minute {
		t.Fatalf("unexpected token/expiry: %q %v", tok, exp)
	}

	got, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != owner {
		t.Fatalf("owner mismatch: %s != %s", got, owner)
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	t.Parallel()
	issuer := NewTokenManager([]byte("key-a"), time.Hour)
	verifier := NewTokenManager([]byte("key-b"), time.Hour)

	tok, _, _ := issuer.Issue(uuid.Must(uuid.NewV4()))
	if _, err := verifier.Verify(tok); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()
	m := NewTokenManager([]byte("test-sign-key"), -2*time.Minute)

	tok, _, _ := m.Issue(uuid.Must(uuid.NewV4()))
	if _, err := m.Verify(tok); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized for expired token, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()
	m := NewTokenManager([]byte("test-sign-key"), time.Hour)
	if _, err := m.Verify("not.a.jwt"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()
	if tok, err := BearerToken("Bearer abc.def.ghi"); err != nil || tok != "abc.def.ghi" {
		t.Fatalf("got %q, %v", tok, err)
	}
	if tok, err := BearerToken("bearer  abc "); err != nil || tok != "abc" {
		t.Fatalf("case/space handling: got %q, %v", tok, err)
	}
	for _, bad := range []string{"", "Bearer ", "Basic abc", "abc"} {
		if _, err := BearerToken(bad); err == nil {
			t.Fatalf("want error for %q", bad)
		}
	}
}
