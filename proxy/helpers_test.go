package proxy_test

import (
	"context"
	"net/netip"
	"slices"
	"sync"
	"testing"

	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/sipio/sipproxy/acl"
	"github.com/sipio/sipproxy/digest"
	"github.com/sipio/sipproxy/directory"
	"github.com/sipio/sipproxy/header"
	"github.com/sipio/sipproxy/internal/testutil/proxymock"
	"github.com/sipio/sipproxy/location"
	"github.com/sipio/sipproxy/proxy"
	"github.com/sipio/sipproxy/routing"
	"github.com/sipio/sipproxy/sip"
	"github.com/sipio/sipproxy/txctx"
	"github.com/sipio/sipproxy/uri"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	localAddr  = netip.MustParseAddrPort("10.0.0.1:5060")
	callerAddr = netip.MustParseAddrPort("192.168.1.10:5060")
	deniedAddr = netip.MustParseAddrPort("10.0.0.66:5060")
	trunkAddr  = netip.MustParseAddrPort("203.0.113.9:5060")
)

func sipURI(user, host string) *uri.SIP { return &uri.SIP{User: user, Addr: uri.Host(host)} }

func contact(user, host string, port uint16) *uri.SIP {
	return &uri.SIP{User: user, Addr: uri.HostPort(host, port)}
}

func newRequest(method sip.RequestMethod, from, to *uri.SIP) *sip.Request {
	return &sip.Request{
		Method: method,
		URI:    to.Clone(),
		Proto:  sip.ProtoSIP20,
		Headers: make(sip.Headers).Append(
			header.Via{{
				Proto:     sip.ProtoSIP20,
				Transport: sip.TransportProtoUDP,
				Addr:      uri.HostPort("192.168.1.10", 5060),
				Params:    make(header.Values).Set("branch", "z9hG4bKcaller"),
			}},
			&header.From{URI: from, Params: make(header.Values).Set("tag", "caller-tag")},
			&header.To{URI: to},
			header.CallID("call-1@192.168.1.10"),
			&header.CSeq{SeqNum: 1, Method: method},
			header.MaxForwards(70),
		),
	}
}

func sign(req *sip.Request, username, secret string) *sip.Request {
	crd := &header.DigestCredentials{
		Username:   username,
		Realm:      digest.DefaultRealm,
		Nonce:      "nonce-1",
		URI:        req.URI.String(),
		QOP:        "auth",
		NonceCount: 1,
		CNonce:     "cnonce-1",
	}
	crd.Response = digest.Response(req.Method, crd, secret)
	req.Headers.Set(&header.ProxyAuthorization{DigestCredentials: crd})
	return req
}

func inbound(req *sip.Request, raddr netip.AddrPort) *sip.InboundRequest {
	return sip.NewInboundRequest(req, localAddr, raddr)
}

func newDirectory(t *testing.T) *directory.Memory {
	t.Helper()

	dir := directory.NewMemory()
	for _, err := range []error{
		dir.AddDomain(&directory.Domain{URI: "sip.local", ACL: directory.ACL{Deny: []string{"10.0.0.66"}}}),
		dir.AddAgent(&directory.Agent{Credentials: directory.Credentials{Username: "1001", Secret: "1234"}, Domains: []string{"sip.local"}}),
		dir.AddAgent(&directory.Agent{Credentials: directory.Credentials{Username: "1002", Secret: "5678"}, Domains: []string{"sip.local"}}),
		dir.AddPeer(&directory.Peer{Credentials: directory.Credentials{Username: "ast", Secret: "astsecret"}}),
		dir.AddGateway(&directory.Gateway{
			Ref:         "gw01",
			Host:        "sip.provider.net",
			Transport:   "udp",
			Credentials: directory.Credentials{Username: "trunk01", Secret: "trunksecret"},
		}),
		dir.AddDID(&directory.DID{TelURL: "tel:17066041487", GatewayRef: "gw01", AORLink: "sip:1001@sip.local"}),
	} {
		if err != nil {
			t.Fatalf("directory setup error = %v, want nil", err)
		}
	}
	return dir
}

// listenOn makes the stack listen on localAddr for UDP and TCP.
func listenOn(stack *proxymock.MockStack) {
	stack.EXPECT().
		ListeningPoint(gomock.Any()).
		DoAndReturn(func(proto sip.TransportProto) (netip.AddrPort, bool) {
			switch proto.ToUpper() {
			case sip.TransportProtoUDP, sip.TransportProtoTCP:
				return localAddr, true
			default:
				return netip.AddrPort{}, false
			}
		}).
		AnyTimes()
}

type testEnv struct {
	ctrl       *gomock.Controller
	stack      *proxymock.MockStack
	classifier *proxymock.MockClassifier
	register   *proxymock.MockRegisterHandler
	cancel     *proxymock.MockCancelHandler
	srvTx      *proxymock.MockServerTransaction
	dir        *directory.Memory
	loc        *location.Memory
	store      *txctx.MemoryStore

	// sendErr decides the outcome of a forwarded leg, nil means success.
	sendErr func(req *sip.Request) error

	mu        sync.Mutex
	responses []*sip.Response
	legs      []*sip.Request
	sent      []*sip.Request
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	dir := newDirectory(t)
	store, err := txctx.NewMemoryStore(nil)
	if err != nil {
		t.Fatalf("txctx.NewMemoryStore() error = %v, want nil", err)
	}
	e := &testEnv{
		ctrl:       ctrl,
		stack:      proxymock.NewMockStack(ctrl),
		classifier: proxymock.NewMockClassifier(ctrl),
		register:   proxymock.NewMockRegisterHandler(ctrl),
		cancel:     proxymock.NewMockCancelHandler(ctrl),
		srvTx:      proxymock.NewMockServerTransaction(ctrl),
		dir:        dir,
		loc:        location.NewMemory(&location.MemoryOptions{Gateways: dir, DIDs: dir, Domains: dir}),
		store:      store,
	}

	listenOn(e.stack)
	e.srvTx.EXPECT().Key().Return("server-1").AnyTimes()
	e.srvTx.EXPECT().
		Respond(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, res *sip.Response) error {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.responses = append(e.responses, res)
			return nil
		}).
		AnyTimes()
	e.stack.EXPECT().
		NewClientTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *sip.Request) (sip.ClientTransaction, error) {
			e.mu.Lock()
			e.legs = append(e.legs, req)
			key := "client-" + req.URI.String()
			e.mu.Unlock()

			tx := proxymock.NewMockClientTransaction(ctrl)
			tx.EXPECT().Key().Return(key).AnyTimes()
			tx.EXPECT().Send(gomock.Any()).DoAndReturn(func(context.Context) error {
				if e.sendErr != nil {
					return e.sendErr(req)
				}
				return nil
			}).MaxTimes(1)
			return tx, nil
		}).
		AnyTimes()
	e.stack.EXPECT().
		SendRequest(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *sip.Request) error {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.sent = append(e.sent, req)
			return nil
		}).
		AnyTimes()
	return e
}

func (e *testEnv) processor(t *testing.T, cfg proxy.Config, dir directory.Directory) *proxy.Processor {
	t.Helper()
	return e.processorWithOptions(t, cfg, dir, nil)
}

func (e *testEnv) processorWithOptions(t *testing.T, cfg proxy.Config, dir directory.Directory, opts *proxy.Options) *proxy.Processor {
	t.Helper()

	if dir == nil {
		dir = e.dir
	}
	eval, err := acl.NewEvaluator(acl.List{}, nil)
	if err != nil {
		t.Fatalf("acl.NewEvaluator() error = %v, want nil", err)
	}
	p, err := proxy.NewProcessor(cfg, proxy.Dependencies{
		Stack:      e.stack,
		Classifier: e.classifier,
		Auth:       digest.New(nil),
		ACL:        eval,
		Trusted:    e.loc,
		Locator:    e.loc,
		Directory:  dir,
		Contexts:   e.store,
		Register:   e.register,
		Cancel:     e.cancel,
	}, opts)
	if err != nil {
		t.Fatalf("proxy.NewProcessor() error = %v, want nil", err)
	}
	return p
}

func (e *testEnv) statuses() []sip.ResponseStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	sts := make([]sip.ResponseStatus, 0, len(e.responses))
	for _, res := range e.responses {
		sts = append(sts, res.Status)
	}
	return sts
}

// legURIs returns the sorted request URIs of the client transactions opened so far.
func (e *testEnv) legURIs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	uris := make([]string, 0, len(e.legs))
	for _, req := range e.legs {
		uris = append(uris, req.URI.String())
	}
	slices.Sort(uris)
	return uris
}

func (e *testEnv) classifyAs(typ routing.Type) {
	e.classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).Return(typ).Times(1)
}
