package uri

import (
	"fmt"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/sipio/sipproxy/internal/errorutil"
	"github.com/sipio/sipproxy/internal/util"
)

// ErrInvalidURI is returned for URIs that cannot be parsed.
const ErrInvalidURI errorutil.Error = "invalid uri"

// ParseSIP parses a "sip[s]:[user@]host[:port][;params]" URI.
// URI headers and escaping are not supported.
func ParseSIP(s string) (*SIP, error) {
	s = util.TrimSP(s)
	u := new(SIP)
	switch {
	case len(s) > 5 && util.EqFold(s[:5], "sips:"):
		u.Secured = true
		s = s[5:]
	case len(s) > 4 && util.EqFold(s[:4], "sip:"):
		s = s[4:]
	default:
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidURI, "%q: unsupported scheme", s))
	}

	s, params, _ := strings.Cut(s, ";")
	if user, host, ok := strings.Cut(s, "@"); ok {
		u.User = user
		s = host
	}
	addr, err := ParseAddr(s)
	if err != nil {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidURI, err))
	}
	u.Addr = addr

	for params != "" {
		var p string
		p, params, _ = strings.Cut(params, ";")
		if p == "" {
			continue
		}
		if u.Params == nil {
			u.Params = make(Values)
		}
		k, v, _ := strings.Cut(p, "=")
		u.Params.Set(k, v)
	}
	return u, nil
}

// SIP represents a SIP or SIPS URI.
type SIP struct {
	User    string // user part, may be empty
	Addr    Addr   // host and port
	Params  Values // parameters
	Headers Values // headers
	Secured bool
}

// Clone returns a deep copy of the SIP URI.
func (u *SIP) Clone() URI {
	if u == nil {
		return nil
	}
	u2 := *u
	u2.Params = u.Params.Clone()
	u2.Headers = u.Headers.Clone()
	return &u2
}

// Scheme returns the URI scheme.
func (u *SIP) Scheme() string {
	if u != nil && u.Secured {
		return "sips"
	}
	return "sip"
}

// Port returns the explicit port or the scheme default.
func (u *SIP) Port() uint16 {
	if p, ok := u.Addr.Port(); ok {
		return p
	}
	if u.Secured {
		return 5061
	}
	return 5060
}

// Render returns the string representation of the SIP URI.
func (u *SIP) Render(_ *RenderOptions) string {
	if u == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	sb.WriteString(u.Scheme())
	sb.WriteByte(':')
	if u.User != "" {
		sb.WriteString(u.User)
		sb.WriteByte('@')
	}
	sb.WriteString(u.Addr.String())
	for _, k := range u.Params.SortedKeys() {
		v, _ := u.Params.Last(k)
		sb.WriteByte(';')
		sb.WriteString(k)
		if v != "" {
			sb.WriteByte('=')
			sb.WriteString(v)
		}
	}
	if len(u.Headers) > 0 {
		sep := byte('?')
		for _, k := range u.Headers.SortedKeys() {
			for _, v := range u.Headers.Get(k) {
				sb.WriteByte(sep)
				sb.WriteString(k)
				sb.WriteByte('=')
				sb.WriteString(v)
				sep = '&'
			}
		}
	}
	return sb.String()
}

// String returns the string representation of the SIP URI.
func (u *SIP) String() string { return u.Render(nil) }

// Format implements fmt.Formatter for custom formatting of the URI.
func (u *SIP) Format(f fmt.State, verb rune) {
	switch verb {
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
	default:
		fmt.Fprint(f, u.String())
	}
}

// Equal compares URIs following RFC 3261 Section 19.1.4 in a simplified way:
// user is case-sensitive, host is case-insensitive, parameters must match.
func (u *SIP) Equal(val any) bool {
	var other *SIP
	switch v := val.(type) {
	case SIP:
		other = &v
	case *SIP:
		other = v
	default:
		return false
	}
	if u == other {
		return true
	} else if u == nil || other == nil {
		return false
	}
	return u.Secured == other.Secured &&
		u.User == other.User &&
		u.Addr.Equal(other.Addr) &&
		u.Params.Equal(other.Params) &&
		u.Headers.Equal(other.Headers)
}

// IsValid checks whether the URI has a host.
func (u *SIP) IsValid() bool { return u != nil && u.Addr.IsValid() }
