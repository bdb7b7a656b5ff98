package uri

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sipio/sipproxy/internal/util"
)

// Tel implements "tel" URI for Telephone Numbers (RFC 3966).
type Tel struct {
	// Telephone number, global ("+1-555-...") or local. Required.
	Number string
	// URI's parameters.
	Params Values
}

// ParseTel builds a Tel URI from a number with or without the "tel:" prefix.
// Parameters after ';' are kept.
func ParseTel(s string) *Tel {
	s = util.CutScheme(util.TrimSP(s), "tel")
	num, rest, _ := strings.Cut(s, ";")
	u := &Tel{Number: num}
	for rest != "" {
		var p string
		p, rest, _ = strings.Cut(rest, ";")
		if p == "" {
			continue
		}
		if u.Params == nil {
			u.Params = make(Values)
		}
		k, v, _ := strings.Cut(p, "=")
		u.Params.Set(k, v)
	}
	return u
}

// IsGlob checks whether the telephone number is global or not.
func (u *Tel) IsGlob() bool { return u != nil && strings.HasPrefix(u.Number, "+") }

// Digits returns the number without visual separators (RFC 3966 Section 5.1.1).
func (u *Tel) Digits() string {
	if u == nil {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '.', '(', ')', ' ':
			return -1
		}
		return r
	}, u.Number)
}

// Clone returns a deep copy of the Tel URI.
func (u *Tel) Clone() URI {
	if u == nil {
		return nil
	}
	u2 := *u
	u2.Params = u.Params.Clone()
	return &u2
}

// Scheme returns the URI scheme.
func (*Tel) Scheme() string { return "tel" }

// Render returns the string representation of the Tel URI.
func (u *Tel) Render(_ *RenderOptions) string {
	if u == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	sb.WriteString("tel:")
	sb.WriteString(u.Number)
	for _, k := range u.Params.SortedKeys() {
		v, _ := u.Params.Last(k)
		sb.WriteByte(';')
		sb.WriteString(k)
		if v != "" {
			sb.WriteByte('=')
			sb.WriteString(v)
		}
	}
	return sb.String()
}

// String returns the string representation of the Tel URI.
func (u *Tel) String() string { return u.Render(nil) }

// Format implements fmt.Formatter for custom formatting of the URI.
func (u *Tel) Format(f fmt.State, verb rune) {
	switch verb {
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
	default:
		fmt.Fprint(f, u.String())
	}
}

// Equal compares telephone numbers ignoring visual separators.
func (u *Tel) Equal(val any) bool {
	var other *Tel
	switch v := val.(type) {
	case Tel:
		other = &v
	case *Tel:
		other = v
	default:
		return false
	}
	if u == other {
		return true
	} else if u == nil || other == nil {
		return false
	}
	return u.Digits() == other.Digits() && u.Params.Equal(other.Params)
}

// IsValid checks whether the URI carries a number.
func (u *Tel) IsValid() bool { return u != nil && u.Digits() != "" }
