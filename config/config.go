// Package config loads the proxy configuration.
//
// The configuration is a YAML document of kind Config:
//
//	apiVersion: v1beta1
//	kind: Config
//	spec:
//	  bindAddr: 0.0.0.0
//	  externAddr: 203.0.113.1:5060
//	  localnets: [192.168.1.0/24]
//	  recordRoute: true
//	  accessControlList:
//	    deny: [0.0.0.0/1]
//	    allow: [192.168.1.0/24]
//
// Values from the file are overridden by SIPPROXY_* environment variables.
package config

//go:generate go tool errtrace -w .

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/netip"
	"os"
	"strings"
	"time"

	"braces.dev/errtrace"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/sipio/sipproxy/acl"
	"github.com/sipio/sipproxy/digest"
	"github.com/sipio/sipproxy/internal/errorutil"
	"github.com/sipio/sipproxy/internal/log"
	"github.com/sipio/sipproxy/internal/util"
	"github.com/sipio/sipproxy/proxy"
	"github.com/sipio/sipproxy/txctx"
	"github.com/sipio/sipproxy/uri"
)

// ErrInvalidConfig is returned when the configuration can not be loaded or is inconsistent.
const ErrInvalidConfig errorutil.Error = "invalid config"

// Kind is the only accepted document kind.
const Kind = "Config"

// Config is the proxy configuration document.
type Config struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
	Metadata   struct {
		Name string `yaml:"name"`
	} `yaml:"metadata"`
	Spec Spec `yaml:"spec"`
}

// Spec holds the proxy settings.
type Spec struct {
	BindAddr          string       `env:"SIPPROXY_BIND_ADDR"        yaml:"bindAddr"`
	ExternAddr        string       `env:"SIPPROXY_EXTERN_ADDR"      yaml:"externAddr"`
	LocalNets         []string     `env:"SIPPROXY_LOCALNETS"        yaml:"localnets"`
	RecordRoute       bool         `env:"SIPPROXY_RECORD_ROUTE"     yaml:"recordRoute"`
	AddressInfo       []string     `env:"SIPPROXY_ADDRESS_INFO"     yaml:"addressInfo"`
	AccessControlList ACL          `yaml:"accessControlList"`
	DIDHeader         string       `env:"SIPPROXY_DID_HEADER"       yaml:"didHeader"`
	AuthRealm         string       `env:"SIPPROXY_AUTH_REALM"       yaml:"authRealm"`
	ForkConcurrency   int          `env:"SIPPROXY_FORK_CONCURRENCY" yaml:"forkConcurrency"`
	ContextStore      ContextStore `yaml:"contextStore"`
	Logging           Logging      `yaml:"logging"`
}

// ACL is the general access control list applied to every domain.
type ACL struct {
	Allow []string `env:"SIPPROXY_ACL_ALLOW" yaml:"allow"`
	Deny  []string `env:"SIPPROXY_ACL_DENY"  yaml:"deny"`
}

// ContextStore sizes the transaction context store.
type ContextStore struct {
	Size int           `env:"SIPPROXY_CONTEXT_STORE_SIZE" yaml:"size"`
	TTL  time.Duration `env:"SIPPROXY_CONTEXT_STORE_TTL"  yaml:"ttl"`
}

// Logging selects the log output.
type Logging struct {
	Format string `env:"SIPPROXY_LOG_FORMAT" yaml:"format"`
	Level  string `env:"SIPPROXY_LOG_LEVEL"  yaml:"level"`
}

// Default returns the configuration used for settings missing in the document.
func Default() *Config {
	return &Config{
		APIVersion: "v1beta1",
		Kind:       Kind,
		Spec: Spec{
			BindAddr:  "0.0.0.0",
			DIDHeader: proxy.DefaultDIDHeader,
			AuthRealm: digest.DefaultRealm,
			ContextStore: ContextStore{
				Size: txctx.DefaultSize,
				TTL:  txctx.DefaultTTL,
			},
			Logging: Logging{
				Format: log.FormatConsole,
				Level:  "info",
			},
		},
	}
}

// Options tunes loading.
type Options struct {
	// Environ replaces the process environment when not nil.
	Environ map[string]string
}

func (o *Options) env() env.Options {
	if o == nil {
		return env.Options{}
	}
	return env.Options{Environment: o.Environ}
}

// Load reads and validates the configuration file.
// A missing file yields the default configuration with environment overrides applied.
func Load(path string, opts *Options) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidConfig, err))
		}
	}
	return errtrace.Wrap2(Parse(bytes.NewReader(data), opts))
}

// Parse reads and validates the configuration from r.
func Parse(r io.Reader, opts *Options) (*Config, error) {
	cfg := Default()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidConfig, err))
	}
	if err := env.ParseWithOptions(cfg, opts.env()); err != nil {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidConfig, err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return cfg, nil
}

// Validate checks the configuration and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if !util.EqFold(c.Kind, Kind) {
		errs = append(errs, errorutil.Errorf("unexpected kind %q", c.Kind))
	}
	if c.Spec.BindAddr != "" {
		if _, err := netip.ParseAddr(c.Spec.BindAddr); err != nil {
			errs = append(errs, errorutil.Errorf("bindAddr: %v", err))
		}
	}
	if c.Spec.ExternAddr != "" {
		if _, err := uri.ParseAddr(c.Spec.ExternAddr); err != nil {
			errs = append(errs, errorutil.Errorf("externAddr: %v", err))
		}
	}
	if _, err := c.localNets(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.ACL(); err != nil {
		errs = append(errs, errorutil.Errorf("accessControlList: %v", err))
	}
	if c.Spec.ForkConcurrency < 0 {
		errs = append(errs, errorutil.Errorf("forkConcurrency: negative value %d", c.Spec.ForkConcurrency))
	}
	if c.Spec.ContextStore.Size < 0 || c.Spec.ContextStore.TTL < 0 {
		errs = append(errs, errorutil.Errorf("contextStore: negative size or ttl"))
	}
	if _, err := log.New(io.Discard, c.Spec.Logging.Format, c.Spec.Logging.Level); err != nil {
		errs = append(errs, errorutil.Errorf("logging: %v", err))
	}
	if err := errorutil.Join(errs...); err != nil {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidConfig, err))
	}
	return nil
}

func (c *Config) localNets() ([]netip.Prefix, error) {
	nets := make([]netip.Prefix, 0, len(c.Spec.LocalNets))
	for _, s := range c.Spec.LocalNets {
		s = util.TrimSP(s)
		if !strings.Contains(s, "/") {
			ip, err := netip.ParseAddr(s)
			if err != nil {
				return nil, errtrace.Wrap(errorutil.Errorf("localnets: %v", err))
			}
			nets = append(nets, netip.PrefixFrom(ip.Unmap(), ip.Unmap().BitLen()))
			continue
		}
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return nil, errtrace.Wrap(errorutil.Errorf("localnets: %v", err))
		}
		nets = append(nets, p.Masked())
	}
	return nets, nil
}

// Proxy returns the request processor settings.
func (c *Config) Proxy() (proxy.Config, error) {
	nets, err := c.localNets()
	if err != nil {
		return proxy.Config{}, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidConfig, err))
	}
	return proxy.Config{
		ExternAddr:      c.Spec.ExternAddr,
		LocalNets:       nets,
		RecordRoute:     c.Spec.RecordRoute,
		AddressInfo:     append([]string(nil), c.Spec.AddressInfo...),
		DIDHeader:       c.Spec.DIDHeader,
		ForkConcurrency: c.Spec.ForkConcurrency,
	}, nil
}

// ACL returns the general access control list.
func (c *Config) ACL() (acl.List, error) {
	return errtrace.Wrap2(acl.ParseList(c.Spec.AccessControlList.Allow, c.Spec.AccessControlList.Deny))
}

// Digest returns the digest authenticator options.
func (c *Config) Digest() *digest.Options {
	return &digest.Options{Realm: c.Spec.AuthRealm}
}

// ContextStoreOptions returns the options of the transaction context store.
func (c *Config) ContextStoreOptions(logger *slog.Logger) *txctx.MemoryOptions {
	return &txctx.MemoryOptions{
		Size: c.Spec.ContextStore.Size,
		TTL:  c.Spec.ContextStore.TTL,
		Log:  logger,
	}
}

// Logger builds the configured logger writing to w.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	return errtrace.Wrap2(log.New(w, c.Spec.Logging.Format, c.Spec.Logging.Level))
}
