package txctx

import (
	"context"
	"log/slog"
	"time"

	"braces.dev/errtrace"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sipio/sipproxy/internal/errorutil"
	"github.com/sipio/sipproxy/internal/log"
)

// Memory store defaults.
const (
	DefaultSize = 4096
	DefaultTTL  = 32 * time.Second // 64*T1, the INVITE client transaction timeout.
)

// MemoryOptions configures the [MemoryStore].
type MemoryOptions struct {
	// Size is the maximum number of stored contexts.
	// Default is [DefaultSize].
	Size int
	// TTL is how long a context lives unless retired earlier.
	// Default is [DefaultTTL].
	TTL time.Duration
	// Log is the logger.
	// Default is [log.Noop].
	Log *slog.Logger

	// now is the clock, overridden in tests.
	now func() time.Time
}

func (o *MemoryOptions) size() int {
	if o == nil || o.Size <= 0 {
		return DefaultSize
	}
	return o.Size
}

func (o *MemoryOptions) ttl() time.Duration {
	if o == nil || o.TTL <= 0 {
		return DefaultTTL
	}
	return o.TTL
}

func (o *MemoryOptions) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Noop
	}
	return o.Log
}

func (o *MemoryOptions) clock() func() time.Time {
	if o == nil || o.now == nil {
		return time.Now
	}
	return o.now
}

type entry struct {
	ctx     *Context
	expires time.Time
}

// MemoryStore is a bounded in-memory [Store].
// Least recently used contexts are evicted when the store is full,
// expired contexts are dropped on access.
type MemoryStore struct {
	cache *lru.Cache[string, entry]
	ttl   time.Duration
	now   func() time.Time
	log   *slog.Logger
}

// NewMemoryStore creates a new memory store.
func NewMemoryStore(opts *MemoryOptions) (*MemoryStore, error) {
	s := &MemoryStore{
		ttl: opts.ttl(),
		now: opts.clock(),
		log: opts.log(),
	}
	cache, err := lru.NewWithEvict(opts.size(), s.onEvict)
	if err != nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError(err))
	}
	s.cache = cache
	return s, nil
}

func (s *MemoryStore) onEvict(key string, e entry) {
	if s.now().Before(e.expires) {
		s.log.Warn("transaction context evicted before expiry", slog.String("key", key), slog.Any("context", e.ctx))
	}
}

// Save stores the context under its client transaction key.
func (s *MemoryStore) Save(ctx context.Context, c *Context) error {
	if err := ctx.Err(); err != nil {
		return errtrace.Wrap(err)
	}
	if !c.IsValid() {
		return errtrace.Wrap(ErrInvalidContext)
	}
	s.cache.Add(c.Key(), entry{ctx: c, expires: s.now().Add(s.ttl)})
	return nil
}

// Get returns the context stored under the client transaction key.
func (s *MemoryStore) Get(key string) (*Context, bool) {
	e, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	if !s.now().Before(e.expires) {
		s.cache.Remove(key)
		return nil, false
	}
	return e.ctx, true
}

// Retire removes the context stored under the client transaction key.
func (s *MemoryStore) Retire(key string) bool {
	return s.cache.Remove(key)
}

// Len returns the number of stored contexts, expired ones included.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
