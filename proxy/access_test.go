package proxy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sipio/sipproxy/digest"
	"github.com/sipio/sipproxy/directory"
	"github.com/sipio/sipproxy/lookup"
	"github.com/sipio/sipproxy/proxy"
	"github.com/sipio/sipproxy/sip"
)

func newAccessController(t *testing.T, peers directory.Peers, agents directory.Agents) *proxy.AccessController {
	t.Helper()

	ac, err := proxy.NewAccessController(peers, agents, digest.New(nil), nil)
	if err != nil {
		t.Fatalf("proxy.NewAccessController() error = %v, want nil", err)
	}
	return ac
}

func TestAccessController_Authorize(t *testing.T) {
	t.Parallel()

	to := sipURI("1002", "sip.local")
	cases := []struct {
		name       string
		req        *sip.Request
		want       proxy.AuthResult
		wantStatus []sip.ResponseStatus
	}{
		{
			"agent",
			sign(newRequest(sip.RequestMethodInvite, sipURI("1001", "sip.local"), to), "1001", "1234"),
			proxy.AuthGranted,
			nil,
		},
		{
			"peer",
			sign(newRequest(sip.RequestMethodInvite, sipURI("+15551234", "10.0.0.5"), to), "ast", "astsecret"),
			proxy.AuthGranted,
			nil,
		},
		// an agent named like a peer is shadowed by the peer
		{
			"peer before agent",
			sign(newRequest(sip.RequestMethodInvite, sipURI("ast", "sip.local"), to), "ast", "agentsecret"),
			proxy.AuthChallenged,
			[]sip.ResponseStatus{sip.ResponseStatusProxyAuthenticationRequired},
		},
		{
			"missing credentials",
			newRequest(sip.RequestMethodInvite, sipURI("1001", "sip.local"), to),
			proxy.AuthChallenged,
			[]sip.ResponseStatus{sip.ResponseStatusProxyAuthenticationRequired},
		},
		{
			"wrong realm",
			func() *sip.Request {
				req := sign(newRequest(sip.RequestMethodInvite, sipURI("1001", "sip.local"), to), "1001", "1234")
				pa, _ := req.Headers.ProxyAuthorization()
				pa.Realm = "other"
				pa.Response = digest.Response(req.Method, pa.DigestCredentials, "1234")
				return req
			}(),
			proxy.AuthChallenged,
			[]sip.ResponseStatus{sip.ResponseStatusProxyAuthenticationRequired},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			e := newTestEnv(t)
			if err := e.dir.AddAgent(&directory.Agent{
				Credentials: directory.Credentials{Username: "ast", Secret: "agentsecret"},
				Domains:     []string{"sip.local"},
			}); err != nil {
				t.Fatalf("e.dir.AddAgent() error = %v, want nil", err)
			}
			ac := newAccessController(t, e.dir, e.dir)

			got, err := ac.Authorize(context.Background(), inbound(c.req, callerAddr), e.srvTx)
			if err != nil {
				t.Fatalf("ac.Authorize() error = %v, want nil", err)
			}
			if got != c.want {
				t.Errorf("ac.Authorize() = %v, want %v", got, c.want)
			}
			if sts := e.statuses(); len(sts) != len(c.wantStatus) || (len(sts) > 0 && sts[0] != c.wantStatus[0]) {
				t.Errorf("responses = %v, want %v", sts, c.wantStatus)
			}
		})
	}
}

type failingPeers struct{}

func (failingPeers) Peer(context.Context, string) lookup.Result[*directory.Peer] {
	return lookup.Error[*directory.Peer](errors.New("backend down"))
}

func TestAccessController_IdentityLookupError(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	ac := newAccessController(t, failingPeers{}, e.dir)

	req := sign(newRequest(sip.RequestMethodInvite, sipURI("1001", "sip.local"), sipURI("1002", "sip.local")), "1001", "1234")
	got, err := ac.Authorize(context.Background(), inbound(req, callerAddr), e.srvTx)
	if err != nil {
		t.Fatalf("ac.Authorize() error = %v, want nil", err)
	}
	if got != proxy.AuthDenied {
		t.Errorf("ac.Authorize() = %v, want %v", got, proxy.AuthDenied)
	}
	if sts := e.statuses(); len(sts) != 0 {
		t.Errorf("responses = %v, want none", sts)
	}
}

func TestAccessController_ChallengeWithoutTransaction(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	ac := newAccessController(t, e.dir, e.dir)

	req := newRequest(sip.RequestMethodInvite, sipURI("1001", "sip.local"), sipURI("1002", "sip.local"))
	got, err := ac.Authorize(context.Background(), inbound(req, callerAddr), nil)
	if !errors.Is(err, proxy.ErrInvalidArgument) {
		t.Errorf("ac.Authorize() error = %v, want %v", err, proxy.ErrInvalidArgument)
	}
	if got != proxy.AuthDenied {
		t.Errorf("ac.Authorize() = %v, want %v", got, proxy.AuthDenied)
	}
}

func TestNewAccessController_MissingDependencies(t *testing.T) {
	t.Parallel()

	dir := directory.NewMemory()
	if _, err := proxy.NewAccessController(dir, dir, nil, nil); !errors.Is(err, proxy.ErrInvalidArgument) {
		t.Errorf("proxy.NewAccessController() error = %v, want %v", err, proxy.ErrInvalidArgument)
	}
}
