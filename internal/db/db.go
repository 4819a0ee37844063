package db

import (
	"context"
	"strings"
	"time"
)

// Command is a fully built wire command: a command kind and its ordered arguments.
type Command struct {
	Kind string
	Args []Value
}

// Tokens returns the command name tokens. Multi-word kinds such as
// "FT.CONFIG GET" are sent as separate tokens.
func (c Command) Tokens() []string {
	return strings.Fields(c.Kind)
}

// ArgTokens renders every argument to its wire token.
func (c Command) ArgTokens() []string {
	out := make([]string, len(c.Args))
	for i := range c.Args {
		out[i] = c.Args[i].Token()
	}
	return out
}

// BuildFunc produces a command on demand. It runs only once the transport is
// ready to send; an error means nothing is transmitted.
type BuildFunc func() (Command, error)

// Frame is a raw reply frame returned by a transport.
type Frame interface {
	// Decode maps the frame to a generic Value.
	Decode() (Value, error)
}

// Requester performs one deferred request/response round trip.
type Requester interface {
	RequestResponse(ctx context.Context, build BuildFunc) (Frame, error)
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store is the transport facade used by the client.
type Store interface {
	Requester
	Pinger
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}
