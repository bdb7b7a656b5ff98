package txctx_test

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/sipio/sipproxy/header"
	"github.com/sipio/sipproxy/sip"
	"github.com/sipio/sipproxy/txctx"
	"github.com/sipio/sipproxy/uri"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubTx string

func (tx stubTx) Key() string                               { return string(tx) }
func (stubTx) Send(context.Context) error                   { return nil }
func (stubTx) Respond(context.Context, *sip.Response) error { return nil }

func newContext(key string) *txctx.Context {
	req := &sip.Request{
		Method: sip.RequestMethodInvite,
		URI:    &uri.SIP{User: "1002", Addr: uri.Host("sip.local")},
		Proto:  sip.ProtoSIP20,
		Headers: make(sip.Headers).
			Append(header.Via{{
				Proto:     sip.ProtoSIP20,
				Transport: sip.TransportProtoUDP,
				Addr:      uri.HostPort("10.0.0.2", 5060),
				Params:    make(header.Values).Set("branch", sip.GenerateBranch()),
			}}).
			Append(header.CallID("call-1")).
			Append(&header.CSeq{SeqNum: 1, Method: sip.RequestMethodInvite}),
	}
	in := sip.NewInboundRequest(req, netip.MustParseAddrPort("10.0.0.1:5060"), netip.MustParseAddrPort("10.0.0.2:5060"))
	return &txctx.Context{
		Method:   sip.RequestMethodInvite,
		Inbound:  in,
		Outbound: sip.NewOutboundRequest(in).Request(),
		Client:   stubTx(key),
		Server:   stubTx("server"),
	}
}

func TestMemoryStore_SaveGetRetire(t *testing.T) {
	t.Parallel()

	s, err := txctx.NewMemoryStore(nil)
	if err != nil {
		t.Fatalf("txctx.NewMemoryStore(nil) error = %v, want nil", err)
	}

	c := newContext("leg-1")
	if err := s.Save(context.Background(), c); err != nil {
		t.Fatalf("s.Save(ctx, c) error = %v, want nil", err)
	}
	if got, ok := s.Get("leg-1"); !ok || got != c {
		t.Errorf("s.Get(\"leg-1\") = (%v, %v), want (%v, true)", got, ok, c)
	}
	if _, ok := s.Get("leg-2"); ok {
		t.Error("s.Get(\"leg-2\") found, want miss")
	}
	if !s.Retire("leg-1") {
		t.Error("s.Retire(\"leg-1\") = false, want true")
	}
	if got := s.Len(); got != 0 {
		t.Errorf("s.Len() = %d, want 0", got)
	}
}

func TestMemoryStore_Save_Invalid(t *testing.T) {
	t.Parallel()

	s, _ := txctx.NewMemoryStore(nil)
	c := newContext("leg-1")
	c.Server = nil
	if err := s.Save(context.Background(), c); !errors.Is(err, txctx.ErrInvalidContext) {
		t.Errorf("s.Save(ctx, c) error = %v, want %v", err, txctx.ErrInvalidContext)
	}
	if err := s.Save(context.Background(), nil); !errors.Is(err, txctx.ErrInvalidContext) {
		t.Errorf("s.Save(ctx, nil) error = %v, want %v", err, txctx.ErrInvalidContext)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Save(ctx, newContext("leg-2")); !errors.Is(err, context.Canceled) {
		t.Errorf("s.Save(canceled, c) error = %v, want %v", err, context.Canceled)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	opts := &txctx.MemoryOptions{TTL: time.Second}
	opts.SetClock(func() time.Time { return now })
	s, _ := txctx.NewMemoryStore(opts)

	if err := s.Save(context.Background(), newContext("leg-1")); err != nil {
		t.Fatalf("s.Save(ctx, c) error = %v, want nil", err)
	}
	now = now.Add(500 * time.Millisecond)
	if _, ok := s.Get("leg-1"); !ok {
		t.Error("s.Get(\"leg-1\") missed before TTL, want hit")
	}
	now = now.Add(time.Second)
	if _, ok := s.Get("leg-1"); ok {
		t.Error("s.Get(\"leg-1\") hit after TTL, want miss")
	}
	if got := s.Len(); got != 0 {
		t.Errorf("s.Len() = %d after expiry, want 0", got)
	}
}

func TestMemoryStore_Bounded(t *testing.T) {
	t.Parallel()

	s, _ := txctx.NewMemoryStore(&txctx.MemoryOptions{Size: 2})
	for i := range 3 {
		if err := s.Save(context.Background(), newContext(fmt.Sprintf("leg-%d", i))); err != nil {
			t.Fatalf("s.Save(ctx, leg-%d) error = %v, want nil", i, err)
		}
	}
	if got := s.Len(); got != 2 {
		t.Errorf("s.Len() = %d, want 2", got)
	}
	if _, ok := s.Get("leg-0"); ok {
		t.Error("s.Get(\"leg-0\") hit, want oldest evicted")
	}
}

func TestMemoryStore_ConcurrentSave(t *testing.T) {
	t.Parallel()

	s, _ := txctx.NewMemoryStore(nil)
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Save(context.Background(), newContext(fmt.Sprintf("leg-%d", i))); err != nil {
				t.Errorf("s.Save(ctx, leg-%d) error = %v, want nil", i, err)
			}
		}()
	}
	wg.Wait()
	if got := s.Len(); got != 16 {
		t.Errorf("s.Len() = %d, want 16", got)
	}
}
