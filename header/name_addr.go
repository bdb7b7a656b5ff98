package header

import (
	"fmt"
	"strconv"

	"github.com/sipio/sipproxy/internal/util"
	"github.com/sipio/sipproxy/uri"
)

// NameAddr represents a single element in From, To, Route and Record-Route headers.
// It contains a display name, URI, and parameters.
type NameAddr struct {
	DisplayName string
	URI         uri.URI
	Params      Values
}

// String returns the string representation of the NameAddr.
func (addr NameAddr) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	if addr.DisplayName != "" {
		sb.WriteString(strconv.Quote(addr.DisplayName))
		sb.WriteString(" ")
	}
	sb.WriteString("<")
	if addr.URI != nil {
		sb.WriteString(addr.URI.Render(nil))
	}
	sb.WriteString(">")
	renderHdrParams(sb, addr.Params)
	return sb.String()
}

// Format implements fmt.Formatter for custom formatting of the NameAddr.
func (addr NameAddr) Format(f fmt.State, verb rune) {
	switch verb {
	case 'q':
		fmt.Fprint(f, strconv.Quote(addr.String()))
	default:
		fmt.Fprint(f, addr.String())
	}
}

// Equal compares this NameAddr with another for equality.
// Display names are ignored.
func (addr NameAddr) Equal(val any) bool {
	var other NameAddr
	switch v := val.(type) {
	case NameAddr:
		other = v
	case *NameAddr:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	if (addr.URI == nil) != (other.URI == nil) {
		return false
	}
	return (addr.URI == nil || addr.URI.Equal(other.URI)) && addr.Params.Equal(other.Params)
}

// IsValid checks whether the NameAddr carries a valid URI.
func (addr NameAddr) IsValid() bool { return addr.URI != nil && addr.URI.IsValid() }

// IsZero checks whether the NameAddr is zero.
func (addr NameAddr) IsZero() bool {
	return addr.DisplayName == "" && addr.URI == nil && len(addr.Params) == 0
}

// Clone returns a copy of the NameAddr.
func (addr NameAddr) Clone() NameAddr {
	if addr.URI != nil {
		addr.URI = addr.URI.Clone()
	}
	addr.Params = addr.Params.Clone()
	return addr
}

// Tag returns the tag parameter.
func (addr NameAddr) Tag() (string, bool) { return addr.Params.Last("tag") }
