package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKindsMatchWithErrorsIs(t *testing.T) {
	cause := fmt.Errorf("connection refused")

	cases := []struct {
		err  error
		kind error
	}{
		{NetworkError("fetch prices", cause), ErrNetwork},
		{AuthError("fetch news", cause), ErrAuth},
		{MalformedResponseError("parse prices", cause), ErrMalformedResponse},
		{StoreError("insert news", cause), ErrStore},
		{MailError("send digest", cause), ErrMail},
	}

	for _, tc := range cases {
		if !errors.Is(tc.err, tc.kind) {
			t.Fatalf("expected %v to match kind %v", tc.err, tc.kind)
		}
		if !errors.Is(tc.err, cause) {
			t.Fatalf("expected %v to keep its cause", tc.err)
		}
	}
}

func TestErrorKindsAreDisjoint(t *testing.T) {
	err := StoreError("insert prices", errors.New("boom"))
	if errors.Is(err, ErrNetwork) || errors.Is(err, ErrMail) {
		t.Fatalf("store error should not match other kinds: %v", err)
	}
	if !strings.Contains(err.Error(), "insert prices") {
		t.Fatalf("expected op in message, got %q", err.Error())
	}
}

func TestEveryTrackedSymbolHasKeyword(t *testing.T) {
	for sym := range CoinGeckoID {
		if NewsKeyword[sym] == "" {
			t.Fatalf("symbol %s has no news keyword", sym)
		}
	}
}
