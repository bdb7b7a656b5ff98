package sip

import (
	"github.com/sipio/sipproxy/header"
	"github.com/sipio/sipproxy/internal/types"
	"github.com/sipio/sipproxy/internal/util"
	"github.com/sipio/sipproxy/uri"
)

// URI represents a request or header URI.
type URI = uri.URI

// Header represents a typed SIP header.
type Header = header.Header

// HeaderName represents a canonical SIP header name.
type HeaderName = header.Name

// ProtoInfo represents SIP protocol information (name and version).
type ProtoInfo = types.ProtoInfo

// ProtoSIP20 is the SIP/2.0 protocol.
var ProtoSIP20 = types.ProtoSIP20

// TransportProto represents a transport protocol (UDP, TCP, TLS, SCTP, WS, WSS).
type TransportProto = types.TransportProto

// Transport protocols.
const (
	TransportProtoUDP  = types.TransportProtoUDP
	TransportProtoTCP  = types.TransportProtoTCP
	TransportProtoTLS  = types.TransportProtoTLS
	TransportProtoSCTP = types.TransportProtoSCTP
	TransportProtoWS   = types.TransportProtoWS
	TransportProtoWSS  = types.TransportProtoWSS
)

// RequestMethod represents a SIP request method.
type RequestMethod = types.RequestMethod

// Request methods.
const (
	RequestMethodAck       = types.RequestMethodAck
	RequestMethodBye       = types.RequestMethodBye
	RequestMethodCancel    = types.RequestMethodCancel
	RequestMethodInfo      = types.RequestMethodInfo
	RequestMethodInvite    = types.RequestMethodInvite
	RequestMethodMessage   = types.RequestMethodMessage
	RequestMethodNotify    = types.RequestMethodNotify
	RequestMethodOptions   = types.RequestMethodOptions
	RequestMethodPrack     = types.RequestMethodPrack
	RequestMethodPublish   = types.RequestMethodPublish
	RequestMethodRefer     = types.RequestMethodRefer
	RequestMethodRegister  = types.RequestMethodRegister
	RequestMethodSubscribe = types.RequestMethodSubscribe
	RequestMethodUpdate    = types.RequestMethodUpdate
)

// ResponseStatus represents a SIP response status code.
type ResponseStatus = types.ResponseStatus

// ResponseReason represents a SIP response reason phrase.
type ResponseReason = types.ResponseReason

// Response statuses produced by the proxy.
const (
	ResponseStatusTrying                      = types.ResponseStatusTrying
	ResponseStatusOK                          = types.ResponseStatusOK
	ResponseStatusUnauthorized                = types.ResponseStatusUnauthorized
	ResponseStatusForbidden                   = types.ResponseStatusForbidden
	ResponseStatusNotFound                    = types.ResponseStatusNotFound
	ResponseStatusProxyAuthenticationRequired = types.ResponseStatusProxyAuthenticationRequired
	ResponseStatusTemporarilyUnavailable      = types.ResponseStatusTemporarilyUnavailable
	ResponseStatusTooManyHops                 = types.ResponseStatusTooManyHops
	ResponseStatusServerInternalError         = types.ResponseStatusServerInternalError
	ResponseStatusServiceUnavailable          = types.ResponseStatusServiceUnavailable
)

// RenderOptions contains options for rendering messages.
type RenderOptions = types.RenderOptions

// RFC3261BranchMagicCookie prefixes every branch generated by RFC 3261 compliant elements.
const RFC3261BranchMagicCookie = "z9hG4bK"

// GenerateBranch returns random unique branch ID.
func GenerateBranch() string {
	return RFC3261BranchMagicCookie + util.RandToken(16)
}

// GenerateTag returns random unique From/To tag.
func GenerateTag() string {
	return util.RandToken(8)
}
