package errorutil_test

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/sipio/sipproxy/internal/errorutil"
)

func TestNewWrapperError(t *testing.T) {
	t.Parallel()

	const sentinel errorutil.Error = "sentinel"
	cause := errors.New("cause")

	cases := []struct {
		name    string
		args    []any
		wantMsg string
	}{
		{"no args", nil, "sentinel"},
		{"error", []any{cause}, "sentinel: cause"},
		{"already wrapped", []any{fmt.Errorf("ctx: %w", sentinel)}, "ctx: sentinel"},
		{"message", []any{"bad value"}, "sentinel: bad value"},
		{"format", []any{"bad value %d", 42}, "sentinel: bad value 42"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got := errorutil.NewWrapperError(sentinel, c.args...)
			if diff := cmp.Diff(got, error(sentinel), cmpopts.EquateErrors()); diff != "" {
				t.Errorf("errors.Is(err, sentinel) = false\ndiff (-got +want):\n%v", diff)
			}
			if got.Error() != c.wantMsg {
				t.Errorf("err.Error() = %q, want %q", got.Error(), c.wantMsg)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	if err := errorutil.Join(nil, nil); err != nil {
		t.Errorf("errorutil.Join(nil, nil) = %v, want nil", err)
	}

	e1 := errors.New("first")
	if err := errorutil.Join(nil, e1); err != e1 { //nolint:errorlint
		t.Errorf("errorutil.Join(nil, e1) = %v, want %v", err, e1)
	}

	e2 := errors.New("second")
	err := errorutil.Join(e1, nil, e2)
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Errorf("errorutil.Join(e1, nil, e2) = %v, want to wrap both errors", err)
	}
	if want := "multiple errors:\n  - first\n  - second"; err.Error() != want {
		t.Errorf("err.Error() = %q, want %q", err.Error(), want)
	}
}

func TestNetErrorClassification(t *testing.T) {
	t.Parallel()

	refused := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}
	unreach := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.EHOSTUNREACH)}

	if !errorutil.IsConnRefused(refused) {
		t.Errorf("errorutil.IsConnRefused(%v) = false, want true", refused)
	}
	if errorutil.IsConnRefused(unreach) {
		t.Errorf("errorutil.IsConnRefused(%v) = true, want false", unreach)
	}
	if !errorutil.IsUnreachable(unreach) {
		t.Errorf("errorutil.IsUnreachable(%v) = false, want true", unreach)
	}
	if !errorutil.IsNetError(refused) {
		t.Errorf("errorutil.IsNetError(%v) = false, want true", refused)
	}
	if errorutil.IsNetError(errors.New("plain")) {
		t.Error("errorutil.IsNetError(plain) = true, want false")
	}
}
