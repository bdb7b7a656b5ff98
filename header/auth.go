package header

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sipio/sipproxy/internal/util"
)

// DigestCredentials represents the digest authentication credentials (RFC 2617 Section 3.2.2).
type DigestCredentials struct {
	Username,
	Realm,
	Nonce,
	URI,
	Response,
	Algorithm,
	CNonce,
	Opaque,
	QOP string
	NonceCount uint
}

// Clone returns a copy of the credentials.
func (crd *DigestCredentials) Clone() *DigestCredentials {
	if crd == nil {
		return nil
	}
	crd2 := *crd
	return &crd2
}

// String renders the credentials as "Digest k=v, ..." with parameters in alphabet order.
func (crd *DigestCredentials) String() string {
	if crd == nil {
		return ""
	}

	var kvs [][]string
	for k, v := range map[string]string{
		"username":  crd.Username,
		"realm":     crd.Realm,
		"nonce":     crd.Nonce,
		"uri":       crd.URI,
		"response":  crd.Response,
		"algorithm": crd.Algorithm,
		"cnonce":    crd.CNonce,
		"opaque":    crd.Opaque,
		"qop":       crd.QOP,
	} {
		if v == "" {
			continue
		}
		switch k {
		case "username", "realm", "nonce", "uri", "response", "cnonce", "opaque":
			v = strconv.Quote(v)
		}
		kvs = append(kvs, []string{k, v})
	}
	if crd.NonceCount > 0 {
		kvs = append(kvs, []string{"nc", fmt.Sprintf("%08x", crd.NonceCount)})
	}
	return "Digest " + joinKVs(kvs)
}

// Equal compares credentials for equality.
func (crd *DigestCredentials) Equal(val any) bool {
	var other *DigestCredentials
	switch v := val.(type) {
	case DigestCredentials:
		other = &v
	case *DigestCredentials:
		other = v
	default:
		return false
	}
	if crd == other {
		return true
	} else if crd == nil || other == nil {
		return false
	}
	return *crd == *other
}

// IsValid checks whether the mandatory digest parameters are present.
func (crd *DigestCredentials) IsValid() bool {
	return crd != nil && crd.Username != "" && crd.Nonce != "" && crd.Response != ""
}

// ParseDigestCredentials parses a "Digest k=v, ..." credentials value.
func ParseDigestCredentials(s string) (*DigestCredentials, bool) {
	params, ok := parseDigestParams(s)
	if !ok {
		return nil, false
	}
	crd := &DigestCredentials{
		Username:  params["username"],
		Realm:     params["realm"],
		Nonce:     params["nonce"],
		URI:       params["uri"],
		Response:  params["response"],
		Algorithm: params["algorithm"],
		CNonce:    params["cnonce"],
		Opaque:    params["opaque"],
		QOP:       params["qop"],
	}
	if nc, ok := params["nc"]; ok {
		n, err := strconv.ParseUint(nc, 16, 32)
		if err != nil {
			return nil, false
		}
		crd.NonceCount = uint(n)
	}
	return crd, true
}

// ProxyAuthorization represents the Proxy-Authorization header field.
type ProxyAuthorization struct {
	*DigestCredentials
}

// CanonicName returns the canonical name of the header.
func (*ProxyAuthorization) CanonicName() Name { return "Proxy-Authorization" }

// Render returns the string representation of the header.
func (hdr *ProxyAuthorization) Render(_ *RenderOptions) string {
	if hdr == nil {
		return ""
	}
	return renderHdr(hdr)
}

// RenderValue returns the header value without the name prefix.
func (hdr *ProxyAuthorization) RenderValue() string {
	if hdr == nil {
		return ""
	}
	return hdr.DigestCredentials.String()
}

// String returns the string representation of the header value.
func (hdr *ProxyAuthorization) String() string { return hdr.RenderValue() }

// Clone returns a copy of the header.
func (hdr *ProxyAuthorization) Clone() Header {
	if hdr == nil {
		return nil
	}
	return &ProxyAuthorization{hdr.DigestCredentials.Clone()}
}

// Equal compares this header with another for equality.
func (hdr *ProxyAuthorization) Equal(val any) bool {
	other, ok := val.(*ProxyAuthorization)
	if !ok {
		return false
	}
	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}
	return hdr.DigestCredentials.Equal(other.DigestCredentials)
}

// IsValid checks whether the header is valid.
func (hdr *ProxyAuthorization) IsValid() bool {
	return hdr != nil && hdr.DigestCredentials.IsValid()
}

// DigestChallenge represents the digest authentication challenge (RFC 2617 Section 3.2.1).
type DigestChallenge struct {
	Realm,
	Nonce,
	Opaque,
	Algorithm string
	QOP   []string
	Stale bool
}

// Clone returns a copy of the challenge.
func (cln *DigestChallenge) Clone() *DigestChallenge {
	if cln == nil {
		return nil
	}
	cln2 := *cln
	cln2.QOP = slices.Clone(cln.QOP)
	return &cln2
}

// String renders the challenge as "Digest k=v, ..." with parameters in alphabet order.
func (cln *DigestChallenge) String() string {
	if cln == nil {
		return ""
	}

	var kvs [][]string
	for k, v := range map[string]string{
		"realm":     cln.Realm,
		"nonce":     cln.Nonce,
		"opaque":    cln.Opaque,
		"algorithm": cln.Algorithm,
		"qop":       strings.Join(cln.QOP, ","),
	} {
		if v == "" {
			continue
		}
		switch k {
		case "realm", "nonce", "opaque", "qop":
			v = strconv.Quote(v)
		}
		kvs = append(kvs, []string{k, v})
	}
	if cln.Stale {
		kvs = append(kvs, []string{"stale", "true"})
	}
	return "Digest " + joinKVs(kvs)
}

// Equal compares challenges for equality.
func (cln *DigestChallenge) Equal(val any) bool {
	var other *DigestChallenge
	switch v := val.(type) {
	case DigestChallenge:
		other = &v
	case *DigestChallenge:
		other = v
	default:
		return false
	}
	if cln == other {
		return true
	} else if cln == nil || other == nil {
		return false
	}
	return cln.Realm == other.Realm &&
		cln.Nonce == other.Nonce &&
		cln.Opaque == other.Opaque &&
		util.EqFold(cln.Algorithm, other.Algorithm) &&
		slices.Equal(cln.QOP, other.QOP) &&
		cln.Stale == other.Stale
}

// IsValid checks whether the challenge has realm and nonce.
func (cln *DigestChallenge) IsValid() bool {
	return cln != nil && cln.Realm != "" && cln.Nonce != ""
}

// ProxyAuthenticate represents the Proxy-Authenticate header field.
type ProxyAuthenticate struct {
	*DigestChallenge
}

// CanonicName returns the canonical name of the header.
func (*ProxyAuthenticate) CanonicName() Name { return "Proxy-Authenticate" }

// Render returns the string representation of the header.
func (hdr *ProxyAuthenticate) Render(_ *RenderOptions) string {
	if hdr == nil {
		return ""
	}
	return renderHdr(hdr)
}

// RenderValue returns the header value without the name prefix.
func (hdr *ProxyAuthenticate) RenderValue() string {
	if hdr == nil {
		return ""
	}
	return hdr.DigestChallenge.String()
}

// String returns the string representation of the header value.
func (hdr *ProxyAuthenticate) String() string { return hdr.RenderValue() }

// Clone returns a copy of the header.
func (hdr *ProxyAuthenticate) Clone() Header {
	if hdr == nil {
		return nil
	}
	return &ProxyAuthenticate{hdr.DigestChallenge.Clone()}
}

// Equal compares this header with another for equality.
func (hdr *ProxyAuthenticate) Equal(val any) bool {
	other, ok := val.(*ProxyAuthenticate)
	if !ok {
		return false
	}
	if hdr == other {
		return true
	} else if hdr == nil || other == nil {
		return false
	}
	return hdr.DigestChallenge.Equal(other.DigestChallenge)
}

// IsValid checks whether the header is valid.
func (hdr *ProxyAuthenticate) IsValid() bool {
	return hdr != nil && hdr.DigestChallenge.IsValid()
}

func joinKVs(kvs [][]string) string {
	slices.SortFunc(kvs, func(a, b []string) int { return strings.Compare(a[0], b[0]) })

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	for i, kv := range kvs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(kv[0])
		sb.WriteString("=")
		sb.WriteString(kv[1])
	}
	return sb.String()
}

func parseDigestParams(s string) (map[string]string, bool) {
	s = util.TrimSP(s)
	scheme, rest, ok := strings.Cut(s, " ")
	if !ok || !util.EqFold(scheme, "digest") {
		return nil, false
	}

	params := make(map[string]string)
	rest = util.TrimSP(rest)
	for rest != "" {
		k, after, ok := strings.Cut(rest, "=")
		if !ok {
			return nil, false
		}
		k = util.LCase(util.TrimSP(k))
		after = util.TrimSP(after)

		var v string
		if strings.HasPrefix(after, `"`) {
			end := strings.IndexByte(after[1:], '"')
			if end < 0 {
				return nil, false
			}
			v = after[1 : end+1]
			after = after[end+2:]
		} else {
			v, after, _ = strings.Cut(after, ",")
			after = "," + after
		}
		params[k] = util.TrimSP(v)

		after = util.TrimSP(after)
		after = strings.TrimPrefix(after, ",")
		rest = util.TrimSP(after)
	}
	return params, true
}
