package directory_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sipio/sipproxy/directory"
	"github.com/sipio/sipproxy/uri"
)

func TestLoadFile(t *testing.T) {
	t.Parallel()

	m, err := directory.LoadFile("testdata/resources.yml")
	if err != nil {
		t.Fatalf("directory.LoadFile() error = %v, want nil", err)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("m.Validate() = %v, want nil", err)
	}
	wantCounts := directory.Counts{Domains: 1, Agents: 1, Peers: 1, Gateways: 1, DIDs: 1}
	if got := m.Counts(); got != wantCounts {
		t.Errorf("m.Counts() = %+v, want %+v", got, wantCounts)
	}

	ctx := context.Background()

	dom, ok := m.Domain(ctx, "SIP.LOCAL").Get()
	if !ok {
		t.Fatal("m.Domain(\"SIP.LOCAL\") not found, want found")
	}
	wantDom := &directory.Domain{
		Name:         "Local Domain",
		URI:          "sip.local",
		ACL:          directory.ACL{Allow: []string{"192.168.1.0/255.255.255.0"}, Deny: []string{"0.0.0.0/1"}},
		EgressRule:   ".*",
		EgressDIDRef: "dd50baa4",
	}
	if diff := cmp.Diff(dom, wantDom); diff != "" {
		t.Errorf("domain = %+v, want %+v\ndiff (-got +want):\n%v", dom, wantDom, diff)
	}

	if a, ok := m.Agent(ctx, "sip.local", "1001").Get(); !ok || a.Credentials.Secret != "1234" {
		t.Errorf("m.Agent(sip.local, 1001) = %+v, %v, want agent with secret", a, ok)
	}
	if r := m.Agent(ctx, "other.local", "1001"); !r.IsNotFound() {
		t.Errorf("m.Agent(other.local, 1001) status = %v, want NOT_FOUND", r.Status)
	}
	if p, ok := m.Peer(ctx, "ast").Get(); !ok || p.Host != "192.168.1.50" {
		t.Errorf("m.Peer(ast) = %+v, %v, want peer", p, ok)
	}
	if gw, ok := m.Gateway(ctx, "gw5c77").Get(); !ok || gw.Credentials.Username != "trunk01" {
		t.Errorf("m.Gateway(gw5c77) = %+v, %v, want gateway", gw, ok)
	}

	did, ok := m.DIDByTelURL(ctx, uri.ParseTel("+1 (706) 604-1487")).Get()
	if ok {
		t.Errorf("m.DIDByTelURL(+1...) = %+v, want not found for global form", did)
	}
	did, ok = m.DIDByTelURL(ctx, uri.ParseTel("1-706-604-1487")).Get()
	if !ok || did.GatewayRef != "gw5c77" {
		t.Errorf("m.DIDByTelURL(1-706-604-1487) = %+v, %v, want did on gw5c77", did, ok)
	}
}

func TestLoad_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := directory.Load(strings.NewReader("kind: Bogus\nspec: {}\n"))
	if !errors.Is(err, directory.ErrInvalidResource) {
		t.Errorf("directory.Load() error = %v, want %v", err, directory.ErrInvalidResource)
	}
}

func TestMemory_Duplicates(t *testing.T) {
	t.Parallel()

	m := directory.NewMemory()
	if err := m.AddPeer(&directory.Peer{Credentials: directory.Credentials{Username: "ast"}}); err != nil {
		t.Fatalf("m.AddPeer() error = %v, want nil", err)
	}
	err := m.AddPeer(&directory.Peer{Credentials: directory.Credentials{Username: "ast"}})
	if !errors.Is(err, directory.ErrDuplicate) {
		t.Errorf("m.AddPeer(duplicate) error = %v, want %v", err, directory.ErrDuplicate)
	}
	if err := m.AddAgent(&directory.Agent{Credentials: directory.Credentials{Username: "1001"}}); !errors.Is(err, directory.ErrInvalidResource) {
		t.Errorf("m.AddAgent(no domains) error = %v, want %v", err, directory.ErrInvalidResource)
	}
}

func TestMemory_Validate(t *testing.T) {
	t.Parallel()

	m := directory.NewMemory()
	_ = m.AddAgent(&directory.Agent{Credentials: directory.Credentials{Username: "1001"}, Domains: []string{"missing.local"}})
	_ = m.AddDID(&directory.DID{TelURL: "tel:100", GatewayRef: "nope"})

	err := m.Validate()
	if !errors.Is(err, directory.ErrInvalidResource) {
		t.Fatalf("m.Validate() = %v, want %v", err, directory.ErrInvalidResource)
	}
	if !strings.Contains(err.Error(), "missing.local") || !strings.Contains(err.Error(), "nope") {
		t.Errorf("m.Validate() = %q, want both broken references reported", err)
	}
}
