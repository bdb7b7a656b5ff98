package proxy_test

import (
	"context"
	"errors"
	"net/netip"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"

	"github.com/sipio/sipproxy/directory"
	"github.com/sipio/sipproxy/header"
	"github.com/sipio/sipproxy/internal/testutil/proxymock"
	"github.com/sipio/sipproxy/location"
	"github.com/sipio/sipproxy/lookup"
	"github.com/sipio/sipproxy/proxy"
	"github.com/sipio/sipproxy/sip"
	"github.com/sipio/sipproxy/uri"
)

func newResolver(t *testing.T, cfg proxy.Config, dids directory.DIDs) *proxy.AddressResolver {
	t.Helper()

	dir := newDirectory(t)
	if dids == nil {
		dids = dir
	}
	stack := proxymock.NewMockStack(gomock.NewController(t))
	listenOn(stack)
	loc := location.NewMemory(&location.MemoryOptions{Gateways: dir, DIDs: dir, Domains: dir})
	r, err := proxy.NewAddressResolver(cfg, loc, dids, stack, nil)
	if err != nil {
		t.Fatalf("proxy.NewAddressResolver() error = %v, want nil", err)
	}
	return r
}

func TestNewAddressResolver_InvalidConfig(t *testing.T) {
	t.Parallel()

	stack := proxymock.NewMockStack(gomock.NewController(t))
	cases := []struct {
		name string
		cfg  proxy.Config
	}{
		{"extern address", proxy.Config{ExternAddr: "203.0.113.1:port"}},
		{"local network", proxy.Config{LocalNets: []netip.Prefix{{}}}},
		{"fork concurrency", proxy.Config{ForkConcurrency: -1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			_, err := proxy.NewAddressResolver(c.cfg, location.NewMemory(nil), directory.NewMemory(), stack, nil)
			if !errors.Is(err, proxy.ErrInvalidArgument) {
				t.Errorf("proxy.NewAddressResolver() error = %v, want %v", err, proxy.ErrInvalidArgument)
			}
		})
	}
}

func TestAddressResolver_AddressOfRecord(t *testing.T) {
	t.Parallel()

	cfg := proxy.Config{AddressInfo: []string{"X-Called-Number", "DIDRef"}}
	cases := []struct {
		name string
		hdrs []header.Header
		want string
	}{
		{"to uri", nil, "sip:1002@sip.local"},
		{"empty info header", []header.Header{&header.Any{Name: "X-Called-Number", Value: " "}}, "sip:1002@sip.local"},
		{"info header", []header.Header{&header.Any{Name: "DIDRef", Value: "17066041487"}}, "tel:17066041487"},
		{
			"first configured wins",
			[]header.Header{
				&header.Any{Name: "DIDRef", Value: "17066041487"},
				&header.Any{Name: "X-Called-Number", Value: "+15551234"},
			},
			"tel:+15551234",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			req := newRequest(sip.RequestMethodInvite, sipURI("1001", "sip.local"), sipURI("1002", "sip.local"))
			req.Headers.Append(c.hdrs...)
			got := newResolver(t, cfg, nil).AddressOfRecord(inbound(req, callerAddr))
			if got == nil || got.String() != c.want {
				t.Errorf("r.AddressOfRecord() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestAddressResolver_IsLocal(t *testing.T) {
	t.Parallel()

	localNets := []netip.Prefix{netip.MustParsePrefix("198.51.100.0/24"), netip.MustParsePrefix("2001:db8::/32")}
	cases := []struct {
		sentBy      string
		want        bool
		wantNetsSet bool
	}{
		{"", false, false},
		{"pbx.example.org", false, false},
		{"192.168.1.22", true, false},
		{"10.1.2.3", true, false},
		{"127.0.0.1", true, false},
		{"169.254.0.10", true, false},
		{"::ffff:192.168.1.22", true, false},
		{"198.51.100.20", false, true},
		{"2001:db8::1", false, true},
		{"203.0.113.1", false, false},
	}

	def := newResolver(t, proxy.Config{}, nil)
	nets := newResolver(t, proxy.Config{LocalNets: localNets}, nil)
	for _, c := range cases {
		route := &location.Route{SentByAddress: c.sentBy}
		if got := def.IsLocal(route); got != c.want {
			t.Errorf("r.IsLocal(%q) = %v, want %v", c.sentBy, got, c.want)
		}
		if got := nets.IsLocal(route); got != c.wantNetsSet {
			t.Errorf("r.IsLocal(%q) with local nets = %v, want %v", c.sentBy, got, c.wantNetsSet)
		}
	}
	if def.IsLocal(nil) {
		t.Errorf("r.IsLocal(nil) = true, want false")
	}
}

type failingDIDs struct{}

func (failingDIDs) DIDByTelURL(context.Context, *uri.Tel) lookup.Result[*directory.DID] {
	return lookup.Error[*directory.DID](errors.New("backend down"))
}

func TestAddressResolver_ResolvePeerEgress(t *testing.T) {
	t.Parallel()

	aor := sipURI("+15551234", "sip.local")
	cases := []struct {
		name       string
		from       string
		didHdr     string
		dids       directory.DIDs
		wantStatus lookup.Status
		wantDID    string
	}{
		{"did header", "ast", "17066041487", nil, lookup.StatusOK, "17066041487"},
		{"from user", "17066041487", "", nil, lookup.StatusOK, "17066041487"},
		{"unknown number", "+19995550000", "", nil, lookup.StatusNotFound, ""},
		{"no number", "ast", "", nil, lookup.StatusNotFound, ""},
		{"lookup error", "17066041487", "", failingDIDs{}, lookup.StatusError, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			req := newRequest(sip.RequestMethodInvite, sipURI(c.from, "10.0.0.5"), aor)
			if c.didHdr != "" {
				req.Headers.Append(&header.Any{Name: "DIDRef", Value: c.didHdr})
			}
			res := newResolver(t, proxy.Config{}, c.dids).ResolvePeerEgress(context.Background(), inbound(req, callerAddr), aor)
			if res.Status != c.wantStatus {
				t.Fatalf("r.ResolvePeerEgress() status = %v, want %v", res.Status, c.wantStatus)
			}
			if res.Status != lookup.StatusOK {
				return
			}

			got := []any{res.Value.ContactURI.String(), res.Value.ThruGateway, res.Value.GatewayRef, res.Value.DID}
			want := []any{"sip:+15551234@sip.provider.net;transport=udp", true, "gw01", c.wantDID}
			if diff := cmp.Diff(got, want); diff != "" {
				t.Errorf("r.ResolvePeerEgress() = %v, want %v\ndiff (-got +want):\n%v", got, want, diff)
			}
		})
	}
}

func TestAddressResolver_CustomDIDHeader(t *testing.T) {
	t.Parallel()

	aor := sipURI("+15551234", "sip.local")
	req := newRequest(sip.RequestMethodInvite, sipURI("ast", "10.0.0.5"), aor)
	req.Headers.Append(&header.Any{Name: "X-DID", Value: "17066041487"})
	res := newResolver(t, proxy.Config{DIDHeader: "X-DID"}, nil).ResolvePeerEgress(context.Background(), inbound(req, callerAddr), aor)
	if !res.IsOK() || res.Value.DID != "17066041487" {
		t.Errorf("r.ResolvePeerEgress() = %v, want route through gw01", res)
	}
}

func TestAddressResolver_LocalAddr(t *testing.T) {
	t.Parallel()

	r := newResolver(t, proxy.Config{}, nil)
	if got, err := r.LocalAddr(sip.TransportProtoTCP); err != nil || got != localAddr {
		t.Errorf("r.LocalAddr(TCP) = %v, %v, want %v, nil", got, err, localAddr)
	}
	if _, err := r.LocalAddr(sip.TransportProtoTLS); !errors.Is(err, proxy.ErrNoListeningPoint) {
		t.Errorf("r.LocalAddr(TLS) error = %v, want %v", err, proxy.ErrNoListeningPoint)
	}
}
