package acl

import (
	"log/slog"
	"net/netip"
	"strings"

	"braces.dev/errtrace"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sipio/sipproxy/directory"
	"github.com/sipio/sipproxy/internal/log"
)

const defCacheSize = 256

// Options configures the [Evaluator].
type Options struct {
	// CacheSize is the number of parsed domain lists kept in memory.
	// Default is 256.
	CacheSize int
	// Log is used to report invalid domain rules.
	// Default is [log.Noop].
	Log *slog.Logger
}

func (o *Options) cacheSize() int {
	if o == nil || o.CacheSize <= 0 {
		return defCacheSize
	}
	return o.CacheSize
}

func (o *Options) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Noop
	}
	return o.Log
}

// Evaluator decides whether an address may reach a domain.
// It is safe for concurrent use.
type Evaluator struct {
	general List
	lists   *lru.Cache[string, List]
	log     *slog.Logger
}

// NewEvaluator creates an evaluator with the general list applied to every domain.
func NewEvaluator(general List, opts *Options) (*Evaluator, error) {
	lists, err := lru.New[string, List](opts.cacheSize())
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &Evaluator{
		general: general,
		lists:   lists,
		log:     opts.log(),
	}, nil
}

// IsIPAllowed reports whether ip may reach the domain.
// An allow match in the general or the domain list wins, then any deny match rejects.
// A nil domain is evaluated against the general list only.
func (e *Evaluator) IsIPAllowed(domain *directory.Domain, ip netip.Addr) bool {
	var dl List
	if domain != nil {
		dl = e.domainList(domain)
	}

	switch {
	case e.general.Allows(ip) || dl.Allows(ip):
		return true
	case e.general.Denies(ip) || dl.Denies(ip):
		return false
	default:
		return true
	}
}

func (e *Evaluator) domainList(domain *directory.Domain) List {
	if domain.ACL.IsZero() {
		return List{}
	}

	key := strings.Join(domain.ACL.Allow, ",") + "|" + strings.Join(domain.ACL.Deny, ",")
	if l, ok := e.lists.Get(key); ok {
		return l
	}

	var l List
	for _, s := range domain.ACL.Allow {
		if r, err := ParseRule(s); err == nil {
			l.Allow = append(l.Allow, r)
		} else {
			e.log.Warn("skip invalid domain allow rule", slog.Any("domain", domain), slog.Any("error", err))
		}
	}
	for _, s := range domain.ACL.Deny {
		if r, err := ParseRule(s); err == nil {
			l.Deny = append(l.Deny, r)
		} else {
			e.log.Warn("skip invalid domain deny rule", slog.Any("domain", domain), slog.Any("error", err))
		}
	}
	e.lists.Add(key, l)
	return l
}
