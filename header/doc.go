// Package header provides typed representations of the SIP headers the proxy
// reads or rewrites while forwarding a request (RFC 3261 Section 20).
//
// # Overview
//
// All header types implement the [Header] interface, which combines rendering,
// [types.Cloneable[Header]], [types.ValidFlag] and [types.Equalable]. Headers the
// proxy does not interpret are carried by [Any].
//
// # Header Naming and Canonicalization
//
// Header names are canonicalized with [CanonicName]: compact forms are expanded
// ("v" becomes "Via") and the rest follow MIME canonical form with a few SIP
// exceptions ("Call-ID", "CSeq").
//
//	header.CanonicName("call-id") // "Call-ID"
//
// # Rendering
//
// [Header.Render] returns the full header line, [Header.RenderValue] only the value:
//
//	via := header.Via{{Proto: header.ProtoSIP20, Transport: "UDP", Addr: header.HostPort("10.0.0.1", 5060)}}
//	via.Render(nil) // "Via: SIP/2.0/UDP 10.0.0.1:5060"
package header
