package sip

import (
	"maps"
	"slices"

	"github.com/sipio/sipproxy/header"
	"github.com/sipio/sipproxy/internal/types"
)

// Headers holds message headers keyed by canonical name.
// The order of headers with the same name is preserved.
type Headers map[HeaderName][]Header

// Get returns all headers with the given name.
func (hdrs Headers) Get(name HeaderName) []Header {
	return hdrs[header.CanonicName(name)]
}

// First returns the topmost header with the given name.
func (hdrs Headers) First(name HeaderName) (Header, bool) {
	hs := hdrs[header.CanonicName(name)]
	if len(hs) == 0 {
		return nil, false
	}
	return hs[0], true
}

// Has checks whether at least one header with the given name is present.
func (hdrs Headers) Has(name HeaderName) bool {
	return len(hdrs[header.CanonicName(name)]) > 0
}

// Append adds headers after the existing ones with the same name.
func (hdrs Headers) Append(hs ...Header) Headers {
	for _, h := range hs {
		if h == nil {
			continue
		}
		n := h.CanonicName()
		hdrs[n] = append(hdrs[n], h)
	}
	return hdrs
}

// Prepend adds the header before the existing ones with the same name.
func (hdrs Headers) Prepend(h Header) Headers {
	if h == nil {
		return hdrs
	}
	n := h.CanonicName()
	hdrs[n] = append([]Header{h}, hdrs[n]...)
	return hdrs
}

// Set replaces all headers with the header's name by the header.
func (hdrs Headers) Set(h Header) Headers {
	if h == nil {
		return hdrs
	}
	hdrs[h.CanonicName()] = []Header{h}
	return hdrs
}

// Del removes all headers with the given name.
func (hdrs Headers) Del(name HeaderName) Headers {
	delete(hdrs, header.CanonicName(name))
	return hdrs
}

// DelFirst removes the topmost header with the given name.
func (hdrs Headers) DelFirst(name HeaderName) (Header, bool) {
	name = header.CanonicName(name)
	hs := hdrs[name]
	if len(hs) == 0 {
		return nil, false
	}
	if len(hs) == 1 {
		delete(hdrs, name)
	} else {
		hdrs[name] = slices.Clone(hs[1:])
	}
	return hs[0], true
}

// CopyFrom copies clones of the named headers from other.
func (hdrs Headers) CopyFrom(other Headers, name HeaderName, names ...HeaderName) Headers {
	for _, n := range append([]HeaderName{name}, names...) {
		n = header.CanonicName(n)
		for _, h := range other[n] {
			hdrs[n] = append(hdrs[n], h.Clone())
		}
	}
	return hdrs
}

// Clone returns a deep copy of the headers.
func (hdrs Headers) Clone() Headers {
	if hdrs == nil {
		return nil
	}
	hdrs2 := make(Headers, len(hdrs))
	for n, hs := range hdrs {
		hs2 := make([]Header, len(hs))
		for i, h := range hs {
			hs2[i] = h.Clone()
		}
		hdrs2[n] = hs2
	}
	return hdrs2
}

// Equal compares headers name by name, respecting the order within a name.
func (hdrs Headers) Equal(val any) bool {
	other, ok := val.(Headers)
	if !ok {
		return false
	}
	return maps.EqualFunc(hdrs, other, func(hs1, hs2 []Header) bool {
		return slices.EqualFunc(hs1, hs2, func(h1, h2 Header) bool { return types.IsEqual(h1, h2) })
	})
}

// Names returns header names in alphabet order.
func (hdrs Headers) Names() []HeaderName {
	return slices.Sorted(maps.Keys(hdrs))
}

// Via returns all Via hops in order, flattening multiple Via headers.
func (hdrs Headers) Via() header.Via {
	var via header.Via
	for _, h := range hdrs["Via"] {
		if v, ok := h.(header.Via); ok {
			via = append(via, v...)
		}
	}
	return via
}

// FirstVia returns the topmost Via hop.
func (hdrs Headers) FirstVia() (header.ViaHop, bool) {
	for _, h := range hdrs["Via"] {
		if v, ok := h.(header.Via); ok && len(v) > 0 {
			return v[0], true
		}
	}
	return header.ViaHop{}, false
}

// From returns the From header.
func (hdrs Headers) From() (*header.From, bool) {
	return firstOf[*header.From](hdrs, "From")
}

// To returns the To header.
func (hdrs Headers) To() (*header.To, bool) {
	return firstOf[*header.To](hdrs, "To")
}

// CallID returns the Call-ID header.
func (hdrs Headers) CallID() (header.CallID, bool) {
	return firstOf[header.CallID](hdrs, "Call-ID")
}

// CSeq returns the CSeq header.
func (hdrs Headers) CSeq() (*header.CSeq, bool) {
	return firstOf[*header.CSeq](hdrs, "CSeq")
}

// MaxForwards returns the Max-Forwards header.
func (hdrs Headers) MaxForwards() (header.MaxForwards, bool) {
	return firstOf[header.MaxForwards](hdrs, "Max-Forwards")
}

// ProxyAuthorization returns the first Proxy-Authorization header.
func (hdrs Headers) ProxyAuthorization() (*header.ProxyAuthorization, bool) {
	return firstOf[*header.ProxyAuthorization](hdrs, "Proxy-Authorization")
}

// Route returns all Route hops in order, flattening multiple Route headers.
func (hdrs Headers) Route() header.Route {
	var route header.Route
	for _, h := range hdrs["Route"] {
		if r, ok := h.(header.Route); ok {
			route = append(route, r...)
		}
	}
	return route
}

// Value returns the raw value of the topmost header with the given name.
func (hdrs Headers) Value(name HeaderName) (string, bool) {
	h, ok := hdrs.First(name)
	if !ok {
		return "", false
	}
	return h.RenderValue(), true
}

func firstOf[T Header](hdrs Headers, name HeaderName) (T, bool) {
	for _, h := range hdrs[name] {
		if v, ok := h.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
