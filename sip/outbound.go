package sip

import (
	"log/slog"
	"sync"

	"braces.dev/errtrace"

	"github.com/sipio/sipproxy/header"
	"github.com/sipio/sipproxy/internal/types"
)

// DefaultMaxForwards is the Max-Forwards value added to requests that have none (RFC 3261 Section 16.6).
const DefaultMaxForwards header.MaxForwards = 70

// OutboundRequest is a mutable working copy of a request that is going to be forwarded.
// It is safe for concurrent use.
type OutboundRequest struct {
	mu  sync.RWMutex
	msg *Request
}

// NewOutboundRequest creates a working copy of the inbound request.
func NewOutboundRequest(in *InboundRequest) *OutboundRequest {
	return &OutboundRequest{msg: in.Request()}
}

// Method returns the request method.
func (r *OutboundRequest) Method() RequestMethod {
	if r == nil {
		return ""
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.msg.Method
}

// URI returns a copy of the request URI.
func (r *OutboundRequest) URI() URI {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return types.Clone[URI](r.msg.URI)
}

// SetURI replaces the request URI with a copy of u.
func (r *OutboundRequest) SetURI(u URI) *OutboundRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msg.URI = types.Clone[URI](u)
	return r
}

// Header returns a copy of the topmost header with the given name.
func (r *OutboundRequest) Header(name HeaderName) (Header, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.msg.Headers.First(name)
	if !ok {
		return nil, false
	}
	return h.Clone(), true
}

// Headers returns a copy of all headers with the given name.
func (r *OutboundRequest) Headers(name HeaderName) []Header {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hs := r.msg.Headers.Get(name)
	if hs == nil {
		return nil
	}
	hs2 := make([]Header, len(hs))
	for i := range hs {
		hs2[i] = hs[i].Clone()
	}
	return hs2
}

// PrependHeader adds the header before the existing ones with the same name.
func (r *OutboundRequest) PrependHeader(h Header) *OutboundRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.headers().Prepend(h)
	return r
}

// AppendHeader adds the header after the existing ones with the same name.
func (r *OutboundRequest) AppendHeader(h Header) *OutboundRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.headers().Append(h)
	return r
}

// SetHeader replaces all headers with the header's name.
func (r *OutboundRequest) SetHeader(h Header) *OutboundRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.headers().Set(h)
	return r
}

// RemoveHeader removes all headers with the given name.
func (r *OutboundRequest) RemoveHeader(name HeaderName) *OutboundRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msg.Headers.Del(name)
	return r
}

// RemoveFirst removes the topmost header with the given name and returns it.
func (r *OutboundRequest) RemoveFirst(name HeaderName) (Header, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.msg.Headers.DelFirst(name)
}

// DecrementMaxForwards decrements the Max-Forwards header and returns the new value.
// A missing header is set to [DefaultMaxForwards].
// It returns [ErrTooManyHops] when the value is already zero.
func (r *OutboundRequest) DecrementMaxForwards() (header.MaxForwards, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mf, ok := r.msg.Headers.MaxForwards()
	if !ok {
		r.headers().Set(DefaultMaxForwards)
		return DefaultMaxForwards, nil
	}
	if mf == 0 {
		return 0, errtrace.Wrap(ErrTooManyHops)
	}
	mf--
	r.msg.Headers.Set(mf)
	return mf, nil
}

// Clone returns an independent copy of the working request.
func (r *OutboundRequest) Clone() *OutboundRequest {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return &OutboundRequest{msg: r.msg.Clone()}
}

// Request returns a snapshot of the working request.
func (r *OutboundRequest) Request() *Request {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.msg.Clone()
}

// String returns the string representation of the request.
func (r *OutboundRequest) String() string {
	if r == nil {
		return "<nil>"
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.msg.String()
}

// LogValue implements [slog.LogValuer] for structured logging.
func (r *OutboundRequest) LogValue() slog.Value {
	if r == nil {
		return slog.Value{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.msg.LogValue()
}

func (r *OutboundRequest) headers() Headers {
	if r.msg.Headers == nil {
		r.msg.Headers = make(Headers)
	}
	return r.msg.Headers
}
