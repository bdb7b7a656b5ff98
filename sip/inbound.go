package sip

import (
	"log/slog"
	"net/netip"
	"time"

	"braces.dev/errtrace"

	"github.com/sipio/sipproxy/header"
	"github.com/sipio/sipproxy/internal/types"
)

// InboundRequest is an immutable view over a request received by the stack.
// All getters return copies.
type InboundRequest struct {
	msg     *Request
	msgTime time.Time
	locAddr netip.AddrPort
	rmtAddr netip.AddrPort
}

// NewInboundRequest creates an inbound request from a snapshot of req
// received on laddr from raddr.
func NewInboundRequest(req *Request, laddr, raddr netip.AddrPort) *InboundRequest {
	return &InboundRequest{
		msg:     req.Clone(),
		msgTime: time.Now(),
		locAddr: laddr,
		rmtAddr: raddr,
	}
}

// Method returns the request method.
func (r *InboundRequest) Method() RequestMethod {
	if r == nil || r.msg == nil {
		return ""
	}
	return r.msg.Method
}

// URI returns a copy of the request URI.
func (r *InboundRequest) URI() URI {
	if r == nil || r.msg == nil {
		return nil
	}
	return types.Clone[URI](r.msg.URI)
}

// Request returns a copy of the underlying request.
func (r *InboundRequest) Request() *Request {
	if r == nil {
		return nil
	}
	return r.msg.Clone()
}

// Header returns a copy of the topmost header with the given name.
func (r *InboundRequest) Header(name HeaderName) (Header, bool) {
	if r == nil || r.msg == nil {
		return nil, false
	}
	h, ok := r.msg.Headers.First(name)
	if !ok {
		return nil, false
	}
	return h.Clone(), true
}

// HeaderValue returns the raw value of the topmost header with the given name.
func (r *InboundRequest) HeaderValue(name HeaderName) (string, bool) {
	if r == nil || r.msg == nil {
		return "", false
	}
	return r.msg.Headers.Value(name)
}

// From returns a copy of the From header.
func (r *InboundRequest) From() (*header.From, bool) {
	if r == nil || r.msg == nil {
		return nil, false
	}
	from, ok := r.msg.Headers.From()
	if !ok {
		return nil, false
	}
	return from.Clone().(*header.From), true //nolint:forcetypeassert
}

// To returns a copy of the To header.
func (r *InboundRequest) To() (*header.To, bool) {
	if r == nil || r.msg == nil {
		return nil, false
	}
	to, ok := r.msg.Headers.To()
	if !ok {
		return nil, false
	}
	return to.Clone().(*header.To), true //nolint:forcetypeassert
}

// FirstVia returns a copy of the topmost Via hop.
func (r *InboundRequest) FirstVia() (header.ViaHop, bool) {
	if r == nil || r.msg == nil {
		return header.ViaHop{}, false
	}
	hop, ok := r.msg.Headers.FirstVia()
	return hop.Clone(), ok
}

// Route returns a copy of all Route hops.
func (r *InboundRequest) Route() header.Route {
	if r == nil || r.msg == nil {
		return nil
	}
	route := r.msg.Headers.Route()
	if route == nil {
		return nil
	}
	return route.Clone().(header.Route) //nolint:forcetypeassert
}

// ProxyAuthorization returns a copy of the first Proxy-Authorization header.
func (r *InboundRequest) ProxyAuthorization() (*header.ProxyAuthorization, bool) {
	if r == nil || r.msg == nil {
		return nil, false
	}
	hdr, ok := r.msg.Headers.ProxyAuthorization()
	if !ok {
		return nil, false
	}
	return hdr.Clone().(*header.ProxyAuthorization), true //nolint:forcetypeassert
}

// Transport returns the transport the request was received over, taken from the topmost Via.
// UDP is assumed when the request has no Via.
func (r *InboundRequest) Transport() TransportProto {
	if hop, ok := r.FirstVia(); ok && hop.Transport != "" {
		return hop.Transport.ToUpper()
	}
	return TransportProtoUDP
}

// LocalAddr returns the address the request was received on.
func (r *InboundRequest) LocalAddr() netip.AddrPort {
	if r == nil {
		return netip.AddrPort{}
	}
	return r.locAddr
}

// RemoteAddr returns the address the request was received from.
func (r *InboundRequest) RemoteAddr() netip.AddrPort {
	if r == nil {
		return netip.AddrPort{}
	}
	return r.rmtAddr
}

// Time returns the time the request was received.
func (r *InboundRequest) Time() time.Time {
	if r == nil {
		return time.Time{}
	}
	return r.msgTime
}

// NewResponse builds a response to the request.
// See [Request.NewResponse].
func (r *InboundRequest) NewResponse(sts ResponseStatus, opts *ResponseOptions) (*Response, error) {
	if r == nil {
		return nil, errtrace.Wrap(NewInvalidArgumentError("invalid request"))
	}
	return errtrace.Wrap2(r.msg.NewResponse(sts, opts))
}

// String returns the string representation of the request.
func (r *InboundRequest) String() string {
	if r == nil {
		return "<nil>"
	}
	return r.msg.String()
}

// LogValue implements [slog.LogValuer] for structured logging.
func (r *InboundRequest) LogValue() slog.Value {
	if r == nil {
		return slog.Value{}
	}
	return slog.GroupValue(
		slog.Any("request", r.msg),
		slog.Any("local_addr", r.locAddr),
		slog.Any("remote_addr", r.rmtAddr),
	)
}
