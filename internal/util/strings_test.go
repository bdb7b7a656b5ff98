package util_test

import (
	"testing"

	"github.com/sipio/sipproxy/internal/util"
)

func TestCutScheme(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, scheme, want string
	}{
		{"tel:+1555", "tel", "+1555"},
		{"TEL:+1555", "tel", "+1555"},
		{"+1555", "tel", "+1555"},
		{"tel", "tel", "tel"},
		{"sip:alice@example.com", "tel", "sip:alice@example.com"},
	}
	for _, c := range cases {
		if got := util.CutScheme(c.in, c.scheme); got != c.want {
			t.Errorf("util.CutScheme(%q, %q) = %q, want %q", c.in, c.scheme, got, c.want)
		}
	}
}

func TestRandToken(t *testing.T) {
	t.Parallel()

	a, b := util.RandToken(10), util.RandToken(10)
	if len(a) != 10 {
		t.Errorf("len(util.RandToken(10)) = %d, want 10", len(a))
	}
	if a == b {
		t.Errorf("util.RandToken(10) returned the same token twice: %q", a)
	}
	if got := util.RandToken(0); len(got) != 32 {
		t.Errorf("len(util.RandToken(0)) = %d, want 32", len(got))
	}
}
