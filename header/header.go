package header

import (
	"net/textproto"
	"slices"

	"github.com/sipio/sipproxy/internal/types"
	"github.com/sipio/sipproxy/internal/util"
)

// Addr represents a network address consisting of a host and optional port.
type Addr = types.Addr

// Host creates an Addr from a hostname without a port.
func Host(host string) Addr { return types.Host(host) }

// HostPort creates an Addr from a hostname and port.
func HostPort(host string, port uint16) Addr { return types.HostPort(host, port) }

// Values represents header parameters as a multi-value map.
type Values = types.Values

// ProtoInfo represents SIP protocol information (name and version).
type ProtoInfo = types.ProtoInfo

// ProtoSIP20 is the SIP/2.0 protocol.
var ProtoSIP20 = types.ProtoSIP20

// TransportProto represents a transport protocol (UDP, TCP, TLS, SCTP, WS, WSS).
type TransportProto = types.TransportProto

// RequestMethod represents a SIP request method (INVITE, ACK, BYE, etc.).
type RequestMethod = types.RequestMethod

// RenderOptions contains options for rendering headers and URIs.
type RenderOptions = types.RenderOptions

// Header represents a generic SIP header.
type Header interface {
	types.Cloneable[Header]
	types.ValidFlag
	types.Equalable
	CanonicName() Name
	Render(opts *RenderOptions) string
	RenderValue() string
}

// Name represents a SIP header name.
type Name string

// ToCanonic converts the Name to its canonical form.
func (n Name) ToCanonic() Name { return CanonicName(n) }

// Equal compares this Name with another for equality.
func (n Name) Equal(val any) bool {
	var other Name
	switch v := val.(type) {
	case Name:
		other = v
	case *Name:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return CanonicName(n) == CanonicName(other)
}

var hdrNames = map[string]Name{
	"c":                "Content-Type",
	"e":                "Content-Encoding",
	"f":                "From",
	"i":                "Call-ID",
	"k":                "Supported",
	"l":                "Content-Length",
	"m":                "Contact",
	"s":                "Subject",
	"t":                "To",
	"v":                "Via",
	"Call-Id":          "Call-ID",
	"Cseq":             "CSeq",
	"Mime-Version":     "MIME-Version",
	"Www-Authenticate": "WWW-Authenticate",
	"Remote-Party-Id":  "Remote-Party-ID",
	"Gwref":            "GwRef",
	"Didref":           "DIDRef",
}

// CanonicName converts name to the canonical form.
// The canonicalization converts the first letter and any letter following a hyphen to upper case;
// the rest are converted to lowercase. Compact names are expanded to their full form.
func CanonicName[T ~string](name T) Name {
	name = util.TrimSP(name)
	if n, ok := hdrNames[string(name)]; ok {
		return n
	}

	name = T(textproto.CanonicalMIMEHeaderKey(string(name)))
	if n, ok := hdrNames[string(name)]; ok {
		return n
	}
	return Name(name)
}

func renderHdr(hdr Header) string {
	return string(hdr.CanonicName()) + ": " + hdr.RenderValue()
}

func renderHdrParams(sb interface{ WriteString(string) (int, error) }, params Values) {
	for _, k := range params.SortedKeys() {
		v, _ := params.Last(k)
		sb.WriteString(";")
		sb.WriteString(k)
		if v != "" {
			sb.WriteString("=")
			sb.WriteString(v)
		}
	}
}

func cloneHdrEntries[H ~[]E, E interface{ Clone() E }](hdr H) Header {
	if hdr == nil {
		return nil
	}
	hdr2 := make(H, len(hdr))
	for i := range hdr {
		hdr2[i] = hdr[i].Clone()
	}
	return any(hdr2).(Header) //nolint:forcetypeassert
}

func equalHdrEntries[E interface{ Equal(any) bool }](a, b []E) bool {
	return slices.EqualFunc(a, b, func(e1, e2 E) bool { return e1.Equal(e2) })
}
