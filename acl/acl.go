// Package acl evaluates IP access control lists of domains.
//
// A rule is either a CIDR ("10.0.0.0/8"), an address with a dotted mask
// ("192.168.1.0/255.255.255.0") or a single address ("192.168.1.10").
// A [List] holds allow and deny rules. The [Evaluator] combines the general list from
// configuration with a domain's own list: an allow match wins, then a deny match
// rejects, anything else is allowed.
package acl

//go:generate go tool errtrace -w .

import (
	"net"
	"net/netip"
	"slices"
	"strings"

	"braces.dev/errtrace"

	"github.com/sipio/sipproxy/internal/errorutil"
	"github.com/sipio/sipproxy/internal/util"
)

// ErrInvalidRule is returned for rules that cannot be parsed.
const ErrInvalidRule errorutil.Error = "invalid acl rule"

// Rule matches a range of addresses.
type Rule struct {
	prefix netip.Prefix
}

// ParseRule parses the rule in CIDR, dotted mask or single address form.
func ParseRule(s string) (Rule, error) {
	s = util.TrimSP(s)
	addrStr, maskStr, hasMask := strings.Cut(s, "/")

	addr, err := netip.ParseAddr(addrStr)
	if err != nil {
		return Rule{}, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidRule, "%q: %v", s, err))
	}
	addr = addr.Unmap()
	if !hasMask {
		return Rule{netip.PrefixFrom(addr, addr.BitLen())}, nil
	}

	if strings.Contains(maskStr, ".") {
		mask, err := netip.ParseAddr(maskStr)
		if err != nil || !mask.Is4() || !addr.Is4() {
			return Rule{}, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidRule, "%q: invalid mask", s))
		}
		m := mask.As4()
		ones, bits := net.IPv4Mask(m[0], m[1], m[2], m[3]).Size()
		if bits == 0 {
			return Rule{}, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidRule, "%q: non-contiguous mask", s))
		}
		return Rule{netip.PrefixFrom(addr, ones).Masked()}, nil
	}

	p, err := netip.ParsePrefix(addr.String() + "/" + maskStr)
	if err != nil {
		return Rule{}, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidRule, "%q: %v", s, err))
	}
	return Rule{p.Masked()}, nil
}

// Contains reports whether the address matches the rule.
func (r Rule) Contains(ip netip.Addr) bool {
	return r.prefix.IsValid() && r.prefix.Contains(ip.Unmap())
}

// String returns the rule in CIDR form.
func (r Rule) String() string { return r.prefix.String() }

// List is a parsed access control list.
type List struct {
	Allow []Rule
	Deny  []Rule
}

// ParseList parses allow and deny rules.
// All invalid rules are reported at once.
func ParseList(allow, deny []string) (List, error) {
	var (
		l    List
		errs []error
	)
	for _, s := range allow {
		r, err := ParseRule(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		l.Allow = append(l.Allow, r)
	}
	for _, s := range deny {
		r, err := ParseRule(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		l.Deny = append(l.Deny, r)
	}
	if err := errorutil.Join(errs...); err != nil {
		return List{}, errtrace.Wrap(err)
	}
	return l, nil
}

// Allows reports whether the address matches an allow rule.
func (l List) Allows(ip netip.Addr) bool {
	return slices.ContainsFunc(l.Allow, func(r Rule) bool { return r.Contains(ip) })
}

// Denies reports whether the address matches a deny rule.
func (l List) Denies(ip netip.Addr) bool {
	return slices.ContainsFunc(l.Deny, func(r Rule) bool { return r.Contains(ip) })
}

// IsZero reports whether the list has no rules.
func (l List) IsZero() bool { return len(l.Allow) == 0 && len(l.Deny) == 0 }
