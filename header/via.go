package header

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/sipio/sipproxy/internal/util"
)

// Via represents the Via header field.
// The Via header field indicates the transport used for the transaction and identifies the location
// where the response is to be sent.
type Via []ViaHop

// CanonicName returns the canonical name of the header.
func (Via) CanonicName() Name { return "Via" }

// Render returns the string representation of the header.
func (hdr Via) Render(_ *RenderOptions) string {
	if hdr == nil {
		return ""
	}
	return renderHdr(hdr)
}

// RenderValue returns the header value without the name prefix.
func (hdr Via) RenderValue() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	for i := range hdr {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(hdr[i].String())
	}
	return sb.String()
}

// String returns the string representation of the header value.
func (hdr Via) String() string { return hdr.RenderValue() }

// Clone returns a copy of the header.
func (hdr Via) Clone() Header { return cloneHdrEntries(hdr) }

// Equal compares this header with another for equality.
func (hdr Via) Equal(val any) bool {
	var other Via
	switch v := val.(type) {
	case Via:
		other = v
	case *Via:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return equalHdrEntries(hdr, other)
}

// IsValid checks whether the header is syntactically valid.
func (hdr Via) IsValid() bool {
	return len(hdr) > 0 && !slices.ContainsFunc(hdr, func(hop ViaHop) bool { return !hop.IsValid() })
}

// ViaHop represents a single hop in the Via header.
type ViaHop struct {
	Proto     ProtoInfo
	Transport TransportProto
	Addr      Addr
	Params    Values
}

// String returns the string representation of the ViaHop.
func (hop ViaHop) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	fmt.Fprint(sb, hop.Proto, "/", hop.Transport.ToUpper(), " ", hop.Addr)
	renderHdrParams(sb, hop.Params)
	return sb.String()
}

// Format implements fmt.Formatter for custom formatting of the ViaHop.
func (hop ViaHop) Format(f fmt.State, verb rune) {
	switch verb {
	case 'q':
		fmt.Fprint(f, strconv.Quote(hop.String()))
	default:
		fmt.Fprint(f, hop.String())
	}
}

// Equal compares this ViaHop with another for equality.
func (hop ViaHop) Equal(val any) bool {
	var other ViaHop
	switch v := val.(type) {
	case ViaHop:
		other = v
	case *ViaHop:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return hop.Proto.Equal(other.Proto) &&
		hop.Transport.Equal(other.Transport) &&
		hop.Addr.Equal(other.Addr) &&
		hop.Params.Equal(other.Params)
}

// IsValid checks whether the ViaHop is valid.
func (hop ViaHop) IsValid() bool {
	return !hop.Proto.IsZero() && hop.Transport != "" && hop.Addr.IsValid()
}

// IsZero checks whether the ViaHop is zero.
func (hop ViaHop) IsZero() bool {
	return hop.Proto.IsZero() && hop.Transport == "" && hop.Addr.IsZero() && len(hop.Params) == 0
}

// Clone returns a copy of the ViaHop.
func (hop ViaHop) Clone() ViaHop {
	hop.Params = hop.Params.Clone()
	return hop
}

// Branch returns the branch parameter of the ViaHop.
func (hop ViaHop) Branch() (string, bool) {
	return hop.Params.Last("branch")
}

// RPort returns the rport parameter and whether it was requested.
// A flag-only rport reports port 0.
func (hop ViaHop) RPort() (uint16, bool) {
	v, ok := hop.Params.Last("rport")
	if !ok {
		return 0, false
	}
	if v == "" {
		return 0, true
	}
	port, err := strconv.ParseUint(v, 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(port), true
}
