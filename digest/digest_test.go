package digest_test

import (
	"testing"

	"github.com/sipio/sipproxy/digest"
	"github.com/sipio/sipproxy/header"
	"github.com/sipio/sipproxy/sip"
)

func TestResponse_RFC2617Example(t *testing.T) {
	t.Parallel()

	// RFC 2617 Section 3.5.
	crd := &header.DigestCredentials{
		Username:   "Mufasa",
		Realm:      "testrealm@host.com",
		Nonce:      "dcd98b7102dd2f0e8b11d0f600bfb0c093",
		URI:        "/dir/index.html",
		QOP:        "auth",
		NonceCount: 1,
		CNonce:     "0a4f113b",
	}
	if got, want := digest.Response("GET", crd, "Circle Of Life"), "6629fae49393a05397450978507c4ef1"; got != want {
		t.Errorf("digest.Response() = %q, want %q", got, want)
	}
}

func TestAuthenticator_Challenge(t *testing.T) {
	t.Parallel()

	a := digest.New(&digest.Options{Realm: "sip.local"})
	c1, c2 := a.Challenge(), a.Challenge()
	if !c1.IsValid() {
		t.Fatalf("a.Challenge() = %v, want valid challenge", c1)
	}
	if c1.Realm != "sip.local" || c1.Algorithm != "MD5" || len(c1.QOP) != 1 || c1.QOP[0] != "auth" {
		t.Errorf("a.Challenge() = %v, want realm sip.local, MD5, qop auth", c1)
	}
	if c1.Nonce == c2.Nonce {
		t.Errorf("a.Challenge() nonce %q repeated, want fresh nonces", c1.Nonce)
	}

	if got := digest.New(nil).Challenge().Realm; got != digest.DefaultRealm {
		t.Errorf("default realm = %q, want %q", got, digest.DefaultRealm)
	}
	if got := digest.New(&digest.Options{DisableQOP: true}).Challenge().QOP; got != nil {
		t.Errorf("qop = %v with DisableQOP, want nil", got)
	}
}

func TestAuthenticator_Verify(t *testing.T) {
	t.Parallel()

	a := digest.New(nil)
	ch := a.Challenge()
	signed := func(secret, qop string) *header.DigestCredentials {
		crd := &header.DigestCredentials{
			Username: "1001",
			Realm:    ch.Realm,
			Nonce:    ch.Nonce,
			URI:      "sip:1002@sip.local",
			QOP:      qop,
			CNonce:   "c0ffee",
		}
		if qop != "" {
			crd.NonceCount = 1
		}
		crd.Response = digest.Response(sip.RequestMethodInvite, crd, secret)
		return crd
	}

	cases := []struct {
		name   string
		method sip.RequestMethod
		crd    *header.DigestCredentials
		secret string
		want   bool
	}{
		{"qop auth", sip.RequestMethodInvite, signed("1234", "auth"), "1234", true},
		{"legacy", sip.RequestMethodInvite, signed("1234", ""), "1234", true},
		{"wrong secret", sip.RequestMethodInvite, signed("4321", "auth"), "1234", false},
		{"wrong method", sip.RequestMethodBye, signed("1234", "auth"), "1234", false},
		{"auth-int", sip.RequestMethodInvite, func() *header.DigestCredentials {
			crd := signed("1234", "auth")
			crd.QOP = "auth-int"
			return crd
		}(), "1234", false},
		{"foreign realm", sip.RequestMethodInvite, func() *header.DigestCredentials {
			crd := signed("1234", "auth")
			crd.Realm = "sip.other"
			crd.Response = digest.Response(sip.RequestMethodInvite, crd, "1234")
			return crd
		}(), "1234", false},
		{"nil", sip.RequestMethodInvite, nil, "1234", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := a.Verify(c.method, c.crd, c.secret); got != c.want {
				t.Errorf("a.Verify() = %v, want %v", got, c.want)
			}
		})
	}
}
