// Package digest implements HTTP digest authentication (RFC 2617) as used by SIP proxies
// to challenge requests with 407 Proxy Authentication Required.
//
// Secrets are plain-text passwords. The qop=auth variant is supported; auth-int is not.
package digest

import (
	"crypto/md5" //nolint:gosec
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/sipio/sipproxy/header"
	"github.com/sipio/sipproxy/internal/util"
	"github.com/sipio/sipproxy/sip"
)

// DefaultRealm is the realm used when none is configured.
const DefaultRealm = "sipio"

const algMD5 = "MD5"

// Options configures the [Authenticator].
type Options struct {
	// Realm is the protection space announced in challenges.
	// Default is [DefaultRealm].
	Realm string
	// DisableQOP turns off the qop=auth offer in challenges.
	DisableQOP bool
}

func (o *Options) realm() string {
	if o == nil || o.Realm == "" {
		return DefaultRealm
	}
	return o.Realm
}

func (o *Options) qop() []string {
	if o != nil && o.DisableQOP {
		return nil
	}
	return []string{"auth"}
}

// Authenticator issues digest challenges and verifies credentials.
// It keeps no state between requests and is safe for concurrent use.
type Authenticator struct {
	realm string
	qop   []string
}

// New creates an authenticator.
func New(opts *Options) *Authenticator {
	return &Authenticator{
		realm: opts.realm(),
		qop:   opts.qop(),
	}
}

// Realm returns the realm of issued challenges.
func (a *Authenticator) Realm() string { return a.realm }

// Challenge returns a Proxy-Authenticate header with a fresh nonce.
func (a *Authenticator) Challenge() *header.ProxyAuthenticate {
	return &header.ProxyAuthenticate{DigestChallenge: &header.DigestChallenge{
		Realm:     a.realm,
		Nonce:     util.RandToken(32),
		Opaque:    util.RandToken(16),
		Algorithm: algMD5,
		QOP:       append([]string(nil), a.qop...),
	}}
}

// Verify checks the credentials against the secret for the request method.
// Credentials issued for other realms are rejected.
func (a *Authenticator) Verify(method sip.RequestMethod, crd *header.DigestCredentials, secret string) bool {
	if !crd.IsValid() || crd.Realm != a.realm {
		return false
	}
	if crd.Algorithm != "" && !util.EqFold(crd.Algorithm, algMD5) {
		return false
	}
	if crd.QOP != "" && !util.EqFold(crd.QOP, "auth") {
		return false
	}

	want := Response(method, crd, secret)
	got := util.LCase(crd.Response)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// Response calculates the expected digest response for the credentials and secret.
func Response(method sip.RequestMethod, crd *header.DigestCredentials, secret string) string {
	ha1 := md5Hex(crd.Username + ":" + crd.Realm + ":" + secret)
	ha2 := md5Hex(string(util.UCase(method)) + ":" + crd.URI)
	if crd.QOP == "" {
		return md5Hex(ha1 + ":" + crd.Nonce + ":" + ha2)
	}
	nc := fmt.Sprintf("%08x", crd.NonceCount)
	return md5Hex(ha1 + ":" + crd.Nonce + ":" + nc + ":" + crd.CNonce + ":" + util.LCase(crd.QOP) + ":" + ha2)
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
