package directory

import (
	"errors"
	"io"
	"os"

	"braces.dev/errtrace"
	"gopkg.in/yaml.v3"

	"github.com/sipio/sipproxy/internal/errorutil"
	"github.com/sipio/sipproxy/internal/util"
)

type resource struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
	Metadata   struct {
		Name  string `yaml:"name"`
		Ref   string `yaml:"ref"`
		GwRef string `yaml:"gwRef"`
	} `yaml:"metadata"`
	Spec yaml.Node `yaml:"spec"`
}

type domainSpec struct {
	Context struct {
		DomainURI    string `yaml:"domainUri"`
		EgressPolicy struct {
			Rule   string `yaml:"rule"`
			DIDRef string `yaml:"didRef"`
		} `yaml:"egressPolicy"`
		AccessControlList ACL `yaml:"accessControlList"`
	} `yaml:"context"`
}

type agentSpec struct {
	Credentials Credentials `yaml:"credentials"`
	Domains     []string    `yaml:"domains"`
}

type peerSpec struct {
	Host        string      `yaml:"host"`
	Credentials Credentials `yaml:"credentials"`
}

type gatewaySpec struct {
	Host        string      `yaml:"host"`
	Transport   string      `yaml:"transport"`
	Credentials Credentials `yaml:"credentials"`
}

type didSpec struct {
	Location struct {
		TelURL  string `yaml:"telUrl"`
		AORLink string `yaml:"aorLink"`
	} `yaml:"location"`
}

// LoadFile reads resources from a YAML file into a new directory.
// See [Load] for the file format.
func LoadFile(path string) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	defer f.Close()
	return errtrace.Wrap2(Load(f))
}

// Load reads resources from a YAML stream into a new directory.
// Each document holds either one resource or a list of resources:
//
//	- apiVersion: v1beta1
//	  kind: Domain
//	  metadata:
//	    name: Local Domain
//	  spec:
//	    context:
//	      domainUri: sip.local
//
// Supported kinds are Domain, Agent, Peer, Gateway and DID.
func Load(r io.Reader) (*Memory, error) {
	m := NewMemory()
	dec := yaml.NewDecoder(r)
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidResource, err))
		}
		if len(doc.Content) == 0 {
			continue
		}

		var rs []resource
		root := doc.Content[0]
		switch root.Kind {
		case yaml.SequenceNode:
			if err := root.Decode(&rs); err != nil {
				return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidResource, err))
			}
		default:
			var res resource
			if err := root.Decode(&res); err != nil {
				return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidResource, err))
			}
			rs = append(rs, res)
		}

		for i := range rs {
			if err := m.add(&rs[i]); err != nil {
				return nil, errtrace.Wrap(err)
			}
		}
	}
	return m, nil
}

func (m *Memory) add(res *resource) error {
	switch util.LCase(res.Kind) {
	case "domain":
		var spec domainSpec
		if err := res.Spec.Decode(&spec); err != nil {
			return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidResource, err))
		}
		return errtrace.Wrap(m.AddDomain(&Domain{
			Name:         res.Metadata.Name,
			URI:          spec.Context.DomainURI,
			ACL:          spec.Context.AccessControlList,
			EgressRule:   spec.Context.EgressPolicy.Rule,
			EgressDIDRef: spec.Context.EgressPolicy.DIDRef,
		}))
	case "agent":
		var spec agentSpec
		if err := res.Spec.Decode(&spec); err != nil {
			return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidResource, err))
		}
		return errtrace.Wrap(m.AddAgent(&Agent{
			Name:        res.Metadata.Name,
			Credentials: spec.Credentials,
			Domains:     spec.Domains,
		}))
	case "peer":
		var spec peerSpec
		if err := res.Spec.Decode(&spec); err != nil {
			return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidResource, err))
		}
		return errtrace.Wrap(m.AddPeer(&Peer{
			Name:        res.Metadata.Name,
			Credentials: spec.Credentials,
			Host:        spec.Host,
		}))
	case "gateway":
		var spec gatewaySpec
		if err := res.Spec.Decode(&spec); err != nil {
			return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidResource, err))
		}
		return errtrace.Wrap(m.AddGateway(&Gateway{
			Ref:         res.Metadata.Ref,
			Name:        res.Metadata.Name,
			Host:        spec.Host,
			Transport:   spec.Transport,
			Credentials: spec.Credentials,
		}))
	case "did":
		var spec didSpec
		if err := res.Spec.Decode(&spec); err != nil {
			return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidResource, err))
		}
		return errtrace.Wrap(m.AddDID(&DID{
			Ref:        res.Metadata.Ref,
			GatewayRef: res.Metadata.GwRef,
			TelURL:     spec.Location.TelURL,
			AORLink:    spec.Location.AORLink,
		}))
	default:
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidResource, "unknown kind %q", res.Kind))
	}
}
