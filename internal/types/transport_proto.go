package types

import "github.com/sipio/sipproxy/internal/util"

const (
	TransportProtoUDP  TransportProto = "UDP"
	TransportProtoTCP  TransportProto = "TCP"
	TransportProtoTLS  TransportProto = "TLS"
	TransportProtoSCTP TransportProto = "SCTP"
	TransportProtoWS   TransportProto = "WS"
	TransportProtoWSS  TransportProto = "WSS"
)

type TransportProto string

func (p TransportProto) ToUpper() TransportProto { return util.UCase(p) }

func (p TransportProto) ToLower() TransportProto { return util.LCase(p) }

// Secured reports whether the transport is protected by TLS.
func (p TransportProto) Secured() bool {
	return util.EqFold(p, TransportProtoTLS) || util.EqFold(p, TransportProtoWSS)
}

// DefaultPort returns the default SIP port of the transport.
func (p TransportProto) DefaultPort() uint16 {
	if p.Secured() {
		return 5061
	}
	return 5060
}

func (p TransportProto) Equal(val any) bool {
	var other TransportProto
	switch v := val.(type) {
	case TransportProto:
		other = v
	case *TransportProto:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return util.EqFold(p, other)
}
