package header_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sipio/sipproxy/header"
	"github.com/sipio/sipproxy/uri"
)

func TestCanonicName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want header.Name
	}{
		{"v", "Via"},
		{"call-id", "Call-ID"},
		{"CSEQ", "CSeq"},
		{"max-forwards", "Max-Forwards"},
		{" proxy-authorization ", "Proxy-Authorization"},
		{"remote-party-id", "Remote-Party-ID"},
		{"x-gateway-ref", "X-Gateway-Ref"},
	}
	for _, c := range cases {
		if got := header.CanonicName(c.in); got != c.want {
			t.Errorf("header.CanonicName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestVia_Render(t *testing.T) {
	t.Parallel()

	via := header.Via{
		{
			Proto:     header.ProtoSIP20,
			Transport: "udp",
			Addr:      header.HostPort("10.0.0.1", 5060),
			Params:    header.Values{"branch": {"z9hG4bKabc"}, "rport": {""}},
		},
		{
			Proto:     header.ProtoSIP20,
			Transport: "TCP",
			Addr:      header.Host("example.com"),
		},
	}
	want := "Via: SIP/2.0/UDP 10.0.0.1:5060;branch=z9hG4bKabc;rport, SIP/2.0/TCP example.com"
	if got := via.Render(nil); got != want {
		t.Errorf("via.Render(nil) = %q, want %q", got, want)
	}
	if !via.IsValid() {
		t.Error("via.IsValid() = false, want true")
	}

	branch, ok := via[0].Branch()
	if !ok || branch != "z9hG4bKabc" {
		t.Errorf("via[0].Branch() = %q, %v, want \"z9hG4bKabc\", true", branch, ok)
	}
	if port, ok := via[0].RPort(); !ok || port != 0 {
		t.Errorf("via[0].RPort() = %d, %v, want 0, true", port, ok)
	}
	if _, ok := via[1].RPort(); ok {
		t.Error("via[1].RPort() ok = true, want false")
	}
}

func TestVia_Clone(t *testing.T) {
	t.Parallel()

	via := header.Via{{Proto: header.ProtoSIP20, Transport: "UDP", Addr: header.Host("a.b"), Params: header.Values{"branch": {"x"}}}}
	clone := via.Clone().(header.Via) //nolint:forcetypeassert
	if !clone.Equal(via) {
		t.Fatalf("clone = %v, want %v", clone, via)
	}
	clone[0].Params.Set("branch", "y")
	if got, _ := via[0].Branch(); got != "x" {
		t.Errorf("original branch = %q after clone mutation, want \"x\"", got)
	}
}

func TestRoute_Render(t *testing.T) {
	t.Parallel()

	rr := header.RecordRoute{
		{URI: &uri.SIP{Addr: uri.HostPort("192.168.1.2", 5060), Params: uri.Values{"lr": {""}}}},
	}
	if got, want := rr.Render(nil), "Record-Route: <sip:192.168.1.2:5060;lr>"; got != want {
		t.Errorf("rr.Render(nil) = %q, want %q", got, want)
	}

	route := header.Route{
		{DisplayName: "proxy", URI: &uri.SIP{Addr: uri.Host("sip.local")}},
		{URI: &uri.SIP{Addr: uri.Host("edge.local"), Params: uri.Values{"lr": {""}}}},
	}
	if got, want := route.RenderValue(), `"proxy" <sip:sip.local>, <sip:edge.local;lr>`; got != want {
		t.Errorf("route.RenderValue() = %q, want %q", got, want)
	}
	if (header.Route{}).IsValid() {
		t.Error("empty Route IsValid() = true, want false")
	}
}

func TestFromTo(t *testing.T) {
	t.Parallel()

	from := &header.From{
		DisplayName: "Alice",
		URI:         &uri.SIP{User: "alice", Addr: uri.Host("sip.local")},
		Params:      header.Values{"tag": {"1234"}},
	}
	if got, want := from.Render(nil), `From: "Alice" <sip:alice@sip.local>;tag=1234`; got != want {
		t.Errorf("from.Render(nil) = %q, want %q", got, want)
	}
	if tag, ok := from.Tag(); !ok || tag != "1234" {
		t.Errorf("from.Tag() = %q, %v, want \"1234\", true", tag, ok)
	}

	clone := from.Clone().(*header.From) //nolint:forcetypeassert
	clone.URI.(*uri.SIP).User = "bob"    //nolint:forcetypeassert
	if from.Equal(clone) {
		t.Error("from equals mutated clone, want deep copy")
	}

	to := &header.To{URI: uri.ParseTel("+15551234")}
	if got, want := to.Render(nil), "To: <tel:+15551234>"; got != want {
		t.Errorf("to.Render(nil) = %q, want %q", got, want)
	}
}

func TestCSeq_Render(t *testing.T) {
	t.Parallel()

	hdr := &header.CSeq{SeqNum: 101, Method: "invite"}
	if got, want := hdr.Render(nil), "CSeq: 101 INVITE"; got != want {
		t.Errorf("hdr.Render(nil) = %q, want %q", got, want)
	}
}

func TestAny(t *testing.T) {
	t.Parallel()

	a := &header.Any{Name: "x-gateway-ref", Value: "gw-01"}
	b := &header.Any{Name: "X-Gateway-Ref", Value: "gw-01"}
	if !a.Equal(b) {
		t.Errorf("%v.Equal(%v) = false, want true", a, b)
	}
	if got, want := a.Render(nil), "X-Gateway-Ref: gw-01"; got != want {
		t.Errorf("a.Render(nil) = %q, want %q", got, want)
	}
}

func TestParseDigestCredentials(t *testing.T) {
	t.Parallel()

	in := `Digest username="1001", realm="sipio", nonce="abc", uri="sip:sip.local", ` +
		`response="6629fae49393a05397450978507c4ef1", qop=auth, nc=00000001, cnonce="0a4f113b"`
	got, ok := header.ParseDigestCredentials(in)
	if !ok {
		t.Fatalf("header.ParseDigestCredentials(%q) ok = false, want true", in)
	}
	want := &header.DigestCredentials{
		Username:   "1001",
		Realm:      "sipio",
		Nonce:      "abc",
		URI:        "sip:sip.local",
		Response:   "6629fae49393a05397450978507c4ef1",
		QOP:        "auth",
		NonceCount: 1,
		CNonce:     "0a4f113b",
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("header.ParseDigestCredentials(%q) = %+v, want %+v\ndiff (-got +want):\n%v", in, got, want, diff)
	}

	if _, ok := header.ParseDigestCredentials(`Basic dXNlcjpwYXNz`); ok {
		t.Error("header.ParseDigestCredentials(basic) ok = true, want false")
	}
	if _, ok := header.ParseDigestCredentials(`Digest username="broken`); ok {
		t.Error("header.ParseDigestCredentials(unterminated) ok = true, want false")
	}
}

func TestProxyAuthenticate_Render(t *testing.T) {
	t.Parallel()

	hdr := &header.ProxyAuthenticate{DigestChallenge: &header.DigestChallenge{
		Realm:     "sipio",
		Nonce:     "n1",
		Algorithm: "MD5",
		QOP:       []string{"auth"},
	}}
	want := `Proxy-Authenticate: Digest algorithm=MD5, nonce="n1", qop="auth", realm="sipio"`
	if got := hdr.Render(nil); got != want {
		t.Errorf("hdr.Render(nil) = %q, want %q", got, want)
	}
}

func TestProxyAuthorization_RoundTrip(t *testing.T) {
	t.Parallel()

	crd := &header.DigestCredentials{Username: "1001", Realm: "sipio", Nonce: "n1", URI: "sip:sip.local", Response: "r"}
	hdr := &header.ProxyAuthorization{DigestCredentials: crd}
	parsed, ok := header.ParseDigestCredentials(hdr.RenderValue())
	if !ok {
		t.Fatalf("header.ParseDigestCredentials(%q) ok = false, want true", hdr.RenderValue())
	}
	if !parsed.Equal(crd) {
		t.Errorf("parsed = %+v, want %+v", parsed, crd)
	}
}
