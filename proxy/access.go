package proxy

import (
	"context"
	"log/slog"

	"braces.dev/errtrace"

	"github.com/sipio/sipproxy/directory"
	"github.com/sipio/sipproxy/internal/errorutil"
	"github.com/sipio/sipproxy/lookup"
	"github.com/sipio/sipproxy/metrics"
	"github.com/sipio/sipproxy/sip"
	"github.com/sipio/sipproxy/uri"
)

// AuthResult is the outcome of request authorization.
type AuthResult int

// Authorization results.
const (
	// AuthGranted means the identity was resolved and the digest verified.
	AuthGranted AuthResult = iota + 1
	// AuthChallenged means a 407 challenge was already sent on the server transaction.
	AuthChallenged
	// AuthDenied means the request can not be authorized and no response was sent.
	AuthDenied
)

func (r AuthResult) String() string {
	switch r {
	case AuthGranted:
		return "granted"
	case AuthChallenged:
		return "challenged"
	case AuthDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// AccessController authenticates requests with digest credentials of peers and agents.
// Every request is authorized on its own, failed attempts are challenged again.
type AccessController struct {
	peers   directory.Peers
	agents  directory.Agents
	auth    Authenticator
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewAccessController creates an access controller.
func NewAccessController(
	peers directory.Peers,
	agents directory.Agents,
	auth Authenticator,
	opts *Options,
) (*AccessController, error) {
	if peers == nil || agents == nil || auth == nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("missing peers, agents or authenticator"))
	}
	return &AccessController{
		peers:   peers,
		agents:  agents,
		auth:    auth,
		log:     opts.log(),
		metrics: opts.metrics(),
	}, nil
}

// Authorize checks the Proxy-Authorization credentials of the request.
// When the credentials are missing or wrong, a 407 challenge is sent on tx and [AuthChallenged] is returned.
// The returned error is the failure to send the challenge.
func (ac *AccessController) Authorize(ctx context.Context, req *sip.InboundRequest, tx sip.ServerTransaction) (AuthResult, error) {
	hdr, ok := req.ProxyAuthorization()
	if !ok || !hdr.IsValid() {
		return errtrace.Wrap2(ac.challenge(ctx, req, tx))
	}
	crd := hdr.DigestCredentials

	res := ac.identity(ctx, req, crd.Username)
	id, ok := res.Get()
	switch {
	case res.IsError():
		ac.log.LogAttrs(ctx, slog.LevelError, "identity lookup failed",
			slog.String("username", crd.Username),
			slog.Any("error", res.Err),
			slog.Any("request", req),
		)
		return AuthDenied, nil
	case !ok:
		ac.log.LogAttrs(ctx, slog.LevelDebug, "unknown identity", slog.String("username", crd.Username))
		return errtrace.Wrap2(ac.challenge(ctx, req, tx))
	}

	if !ac.auth.Verify(req.Method(), crd, id.Creds().Secret) {
		ac.log.LogAttrs(ctx, slog.LevelDebug, "digest mismatch",
			slog.String("username", crd.Username),
			slog.String("kind", id.Kind()),
		)
		return errtrace.Wrap2(ac.challenge(ctx, req, tx))
	}
	return AuthGranted, nil
}

// identity resolves the credential owner, peers first, then agents of the From domain.
func (ac *AccessController) identity(ctx context.Context, req *sip.InboundRequest, username string) lookup.Result[directory.Identity] {
	pres := ac.peers.Peer(ctx, username)
	if !pres.IsNotFound() {
		return lookup.Map(pres, func(p *directory.Peer) directory.Identity { return p })
	}

	from, ok := req.From()
	if !ok {
		return lookup.NotFound[directory.Identity]()
	}
	host, ok := uri.HostOf(from.URI)
	if !ok {
		return lookup.NotFound[directory.Identity]()
	}
	ares := ac.agents.Agent(ctx, host.Host(), username)
	return lookup.Map(ares, func(a *directory.Agent) directory.Identity { return a })
}

func (ac *AccessController) challenge(ctx context.Context, req *sip.InboundRequest, tx sip.ServerTransaction) (AuthResult, error) {
	res, err := req.NewResponse(sip.ResponseStatusProxyAuthenticationRequired, &sip.ResponseOptions{
		Headers: make(sip.Headers).Append(ac.auth.Challenge()),
	})
	if err != nil {
		return AuthDenied, errtrace.Wrap(err)
	}
	if tx == nil {
		return AuthDenied, errtrace.Wrap(errorutil.NewInvalidArgumentError("no server transaction"))
	}
	if err := tx.Respond(ctx, res); err != nil {
		return AuthDenied, errtrace.Wrap(err)
	}
	ac.metrics.Response(int(res.Status))
	return AuthChallenged, nil
}
