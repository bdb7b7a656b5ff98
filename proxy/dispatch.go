package proxy

import (
	"context"
	"log/slog"

	"braces.dev/errtrace"
	"golang.org/x/sync/errgroup"

	"github.com/sipio/sipproxy/internal/errorutil"
	"github.com/sipio/sipproxy/location"
	"github.com/sipio/sipproxy/metrics"
	"github.com/sipio/sipproxy/sip"
	"github.com/sipio/sipproxy/txctx"
)

// DispatchKind classifies a leg dispatch failure.
type DispatchKind int

// Dispatch failure kinds.
const (
	DispatchOK DispatchKind = iota
	// DispatchConnRefused means the next hop refused the connection.
	DispatchConnRefused
	// DispatchNoRoute means the next hop host or network is unreachable.
	DispatchNoRoute
	// DispatchOther is any other failure.
	DispatchOther
)

func (k DispatchKind) String() string {
	switch k {
	case DispatchOK:
		return "ok"
	case DispatchConnRefused:
		return "connection refused"
	case DispatchNoRoute:
		return "no route to host"
	default:
		return "other"
	}
}

func (k DispatchKind) outcome() string {
	switch k {
	case DispatchOK:
		return metrics.LegSent
	case DispatchConnRefused:
		return metrics.LegConnRefused
	case DispatchNoRoute:
		return metrics.LegNoRoute
	default:
		return metrics.LegFailed
	}
}

// ClassifyDispatchError returns the kind of the dispatch error.
func ClassifyDispatchError(err error) DispatchKind {
	switch {
	case err == nil:
		return DispatchOK
	case errorutil.IsConnRefused(err):
		return DispatchConnRefused
	case errorutil.IsUnreachable(err):
		return DispatchNoRoute
	default:
		return DispatchOther
	}
}

// Leg is a transformed request ready to be sent along its route.
type Leg struct {
	Route   location.Route
	Request *sip.OutboundRequest
}

// DispatchResult is the outcome of one leg.
type DispatchResult struct {
	Route location.Route
	// Key is the client transaction key, empty for stateless sends.
	Key  string
	Err  error
	Kind DispatchKind
}

// OK reports whether the leg was sent.
func (r DispatchResult) OK() bool { return r.Err == nil }

// LogValue implements [slog.LogValuer].
func (r DispatchResult) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Any("route", r.Route),
		slog.String("kind", r.Kind.String()),
	}
	if r.Key != "" {
		attrs = append(attrs, slog.String("key", r.Key))
	}
	if r.Err != nil {
		attrs = append(attrs, slog.Any("error", r.Err))
	}
	return slog.GroupValue(attrs...)
}

// Dispatcher forwards legs concurrently. A failed leg never aborts its siblings.
type Dispatcher struct {
	stack   Stack
	store   txctx.Store
	limit   int
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewDispatcher creates a dispatcher saving the context of every stateful leg to the store.
func NewDispatcher(cfg Config, stack Stack, store txctx.Store, opts *Options) (*Dispatcher, error) {
	if stack == nil || store == nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("missing stack or context store"))
	}
	return &Dispatcher{
		stack:   stack,
		store:   store,
		limit:   cfg.ForkConcurrency,
		log:     opts.log(),
		metrics: opts.metrics(),
	}, nil
}

// Dispatch sends all legs and returns one result per leg in the order of legs.
// ACK legs are sent statelessly. Other legs get their own client transaction,
// and the transaction context is saved before the request is sent.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	in *sip.InboundRequest,
	srvTx sip.ServerTransaction,
	legs []Leg,
) []DispatchResult {
	results := make([]DispatchResult, len(legs))

	var g errgroup.Group
	if d.limit > 0 {
		g.SetLimit(d.limit)
	}
	for i := range legs {
		g.Go(func() error {
			results[i] = d.dispatch(ctx, in, srvTx, &legs[i])
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (d *Dispatcher) dispatch(ctx context.Context, in *sip.InboundRequest, srvTx sip.ServerTransaction, leg *Leg) DispatchResult {
	res := DispatchResult{Route: leg.Route}
	res.Key, res.Err = d.send(ctx, in, srvTx, leg)
	res.Kind = ClassifyDispatchError(res.Err)
	d.metrics.Leg(res.Kind.outcome())

	if res.Err != nil {
		d.log.LogAttrs(ctx, slog.LevelWarn, "failed to dispatch request leg",
			slog.Any("leg", res),
			slog.Any("request", leg.Request),
		)
	} else {
		d.log.LogAttrs(ctx, slog.LevelDebug, "request leg dispatched", slog.Any("leg", res))
	}
	return res
}

func (d *Dispatcher) send(ctx context.Context, in *sip.InboundRequest, srvTx sip.ServerTransaction, leg *Leg) (string, error) {
	// every leg needs its own message, the transaction layer keeps a reference to it
	req := leg.Request.Clone().Request()
	if req.Method.Equal(sip.RequestMethodAck) {
		return "", errtrace.Wrap(d.stack.SendRequest(ctx, req))
	}

	clTx, err := d.stack.NewClientTransaction(ctx, req)
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	tc := &txctx.Context{
		Method:   req.Method,
		Inbound:  in,
		Outbound: req,
		Client:   clTx,
		Server:   srvTx,
	}
	if err := d.store.Save(ctx, tc); err != nil {
		return clTx.Key(), errtrace.Wrap(err)
	}
	return clTx.Key(), errtrace.Wrap(clTx.Send(ctx))
}
