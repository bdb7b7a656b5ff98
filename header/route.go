package header

import (
	"slices"

	"github.com/sipio/sipproxy/internal/util"
)

// RouteHop is a single entry of the Route or Record-Route header.
type RouteHop = NameAddr

// Route represents the Route header field.
type Route []RouteHop

// CanonicName returns the canonical name of the header.
func (Route) CanonicName() Name { return "Route" }

// Render returns the string representation of the header.
func (hdr Route) Render(_ *RenderOptions) string {
	if hdr == nil {
		return ""
	}
	return renderHdr(hdr)
}

// RenderValue returns the header value without the name prefix.
func (hdr Route) RenderValue() string { return renderRouteHops(hdr) }

// String returns the string representation of the header value.
func (hdr Route) String() string { return hdr.RenderValue() }

// Clone returns a copy of the header.
func (hdr Route) Clone() Header { return cloneHdrEntries(hdr) }

// Equal compares this header with another for equality.
func (hdr Route) Equal(val any) bool {
	var other Route
	switch v := val.(type) {
	case Route:
		other = v
	case *Route:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return equalHdrEntries(hdr, other)
}

// IsValid checks whether the header is valid.
func (hdr Route) IsValid() bool { return validRouteHops(hdr) }

// RecordRoute represents the Record-Route header field.
type RecordRoute []RouteHop

// CanonicName returns the canonical name of the header.
func (RecordRoute) CanonicName() Name { return "Record-Route" }

// Render returns the string representation of the header.
func (hdr RecordRoute) Render(_ *RenderOptions) string {
	if hdr == nil {
		return ""
	}
	return renderHdr(hdr)
}

// RenderValue returns the header value without the name prefix.
func (hdr RecordRoute) RenderValue() string { return renderRouteHops(hdr) }

// String returns the string representation of the header value.
func (hdr RecordRoute) String() string { return hdr.RenderValue() }

// Clone returns a copy of the header.
func (hdr RecordRoute) Clone() Header { return cloneHdrEntries(hdr) }

// Equal compares this header with another for equality.
func (hdr RecordRoute) Equal(val any) bool {
	var other RecordRoute
	switch v := val.(type) {
	case RecordRoute:
		other = v
	case *RecordRoute:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return equalHdrEntries(hdr, other)
}

// IsValid checks whether the header is valid.
func (hdr RecordRoute) IsValid() bool { return validRouteHops(hdr) }

func renderRouteHops(hops []RouteHop) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	for i := range hops {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(hops[i].String())
	}
	return sb.String()
}

func validRouteHops(hops []RouteHop) bool {
	return len(hops) > 0 && !slices.ContainsFunc(hops, func(hop RouteHop) bool { return !hop.IsValid() })
}
