// Package sip provides the SIP message model consumed and produced by the proxy.
//
// Parsing, serialization, retransmissions and transaction state machines belong to
// the SIP stack the proxy is embedded in. This package only defines what crosses the
// boundary: [Request] and [Response] values with typed [Headers], the immutable
// [InboundRequest] view handed to the proxy, the [OutboundRequest] builder used to
// prepare forwarded copies, and the [ServerTransaction] / [ClientTransaction]
// contracts implemented by the stack.
package sip

//go:generate go tool errtrace -w .
