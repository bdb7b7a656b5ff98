// Package txctx persists the correlation between forwarded legs and the inbound transaction
// they were forked from.
//
//go:generate go tool errtrace -w .
package txctx

import (
	"context"
	"log/slog"

	"github.com/sipio/sipproxy/internal/errorutil"
	"github.com/sipio/sipproxy/sip"
)

// ErrInvalidContext is returned when a context can not be stored.
const ErrInvalidContext errorutil.Error = "invalid transaction context"

// Context correlates one client transaction with the server transaction of the original request.
type Context struct {
	Method   sip.RequestMethod
	Inbound  *sip.InboundRequest
	Outbound *sip.Request
	Client   sip.ClientTransaction
	Server   sip.ServerTransaction
}

// Key returns the client transaction key the context is stored under.
func (c *Context) Key() string {
	if c == nil || c.Client == nil {
		return ""
	}
	return c.Client.Key()
}

// IsValid checks whether the context can be stored.
func (c *Context) IsValid() bool {
	return c != nil && c.Method != "" && c.Inbound != nil && c.Outbound != nil &&
		c.Client != nil && c.Server != nil && c.Client.Key() != ""
}

// LogValue implements [slog.LogValuer].
func (c *Context) LogValue() slog.Value {
	if c == nil {
		return slog.Value{}
	}
	attrs := []slog.Attr{
		slog.String("method", string(c.Method)),
		slog.String("client_key", c.Key()),
	}
	if c.Server != nil {
		attrs = append(attrs, slog.String("server_key", c.Server.Key()))
	}
	return slog.GroupValue(attrs...)
}

// Store saves transaction contexts. Implementations must be safe for concurrent use.
type Store interface {
	Save(ctx context.Context, c *Context) error
}

// StoreFunc is an adapter to use ordinary functions as [Store].
type StoreFunc func(ctx context.Context, c *Context) error

// Save calls f(ctx, c).
func (f StoreFunc) Save(ctx context.Context, c *Context) error { return f(ctx, c) }
