package sip

import "context"

//go:generate go tool mockgen -destination=../internal/testutil/proxymock/sip.go -package=proxymock . ServerTransaction,ClientTransaction

// ServerTransaction is the stack's server transaction bound to an inbound request.
type ServerTransaction interface {
	// Key returns the transaction key.
	Key() string
	// Respond sends the response through the transaction.
	Respond(ctx context.Context, res *Response) error
}

// ClientTransaction is the stack's client transaction created for an outbound request.
type ClientTransaction interface {
	// Key returns the transaction key.
	Key() string
	// Send transmits the request to the transaction's destination.
	Send(ctx context.Context) error
}
