package ftwire

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/kailas-cloud/ftwire/internal/db"
)

// tokens renders args the way the transport sends them.
func tokens(args []Value) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.Token()
	}
	return out
}

func assertTokens(t *testing.T, got []Value, want []string) {
	t.Helper()
	if toks := tokens(got); !slices.Equal(toks, want) {
		t.Errorf("tokens:\n got  %q\n want %q", toks, want)
	}
}

type fakeFrame struct {
	v Value
}

func (f fakeFrame) Decode() (Value, error) { return f.v, nil }

// fakeStore behaves like a transport: it checks the context, runs the
// builder and records what would have been sent.
type fakeStore struct {
	builds int
	sent   []db.Command
	reply  Value
	err    error
}

var _ db.Store = (*fakeStore)(nil)

func (f *fakeStore) RequestResponse(ctx context.Context, build db.BuildFunc) (db.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.builds++
	cmd, err := build()
	if err != nil {
		return nil, &db.Error{Op: cmd.Kind, Err: err}
	}
	f.sent = append(f.sent, cmd)
	if f.err != nil {
		return nil, f.err
	}
	return fakeFrame{v: f.reply}, nil
}

func (f *fakeStore) Ping(context.Context) error { return nil }
func (f *fakeStore) Close()                     {}

func (f *fakeStore) WaitForReady(context.Context, time.Duration) error { return nil }

func (f *fakeStore) last() (string, []string) {
	if len(f.sent) == 0 {
		return "", nil
	}
	cmd := f.sent[len(f.sent)-1]
	return cmd.Kind, tokens(cmd.Args)
}

func newTestClient(opts ...Option) (*Client, *fakeStore) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	fs := &fakeStore{reply: db.String("OK")}
	return newClient(fs, cfg), fs
}
