package goredis

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/kailas-cloud/ftwire/internal/db"
)

func newOfflineStore(t *testing.T) *Store {
	t.Helper()
	// go-redis dials lazily; nothing connects unless a command is sent.
	s, err := NewStore(Config{Addrs: []string{"127.0.0.1:1"}})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

func TestRequestResponse_CancelledContextSkipsBuilder(t *testing.T) {
	s := newOfflineStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := s.RequestResponse(ctx, func() (db.Command, error) {
		called = true
		return db.Command{Kind: db.OpList}, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Error("builder must not run after cancellation")
	}
}

func TestRequestResponse_BuildErrorSendsNothing(t *testing.T) {
	s := newOfflineStore(t)

	_, err := s.RequestResponse(context.Background(), func() (db.Command, error) {
		_, convErr := db.Float(nan())
		return db.Command{Kind: db.OpSugAdd}, convErr
	})
	if !errors.Is(err, db.ErrConversion) {
		t.Fatalf("expected ErrConversion, got %v", err)
	}
}

func TestCommandArgs_SplitsKind(t *testing.T) {
	got := commandArgs(db.Command{
		Kind: db.OpCursorRead,
		Args: []db.Value{db.String("idx"), db.Int(7), db.String("COUNT"), db.Int(100)},
	})
	want := []any{"FT.CURSOR", "READ", "idx", "7", "COUNT", "100"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("commandArgs = %#v, want %#v", got, want)
	}
}

func TestDecodeReply(t *testing.T) {
	tests := []struct {
		name  string
		reply any
		want  any
	}{
		{"nil", nil, nil},
		{"string", "OK", "OK"},
		{"int", int64(3), int64(3)},
		{"double", 2.5, 2.5},
		{"bool", false, false},
		{"array", []any{int64(1), "doc:1", []any{"title", "hello"}}, []any{int64(1), "doc:1", []any{"title", "hello"}}},
		{"map", map[any]any{"num_docs": int64(3)}, map[string]any{"num_docs": int64(3)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := decodeReply(tc.reply)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(v.Interface(), tc.want) {
				t.Errorf("decode = %#v, want %#v", v.Interface(), tc.want)
			}
		})
	}
}

func TestDecodeReply_Unsupported(t *testing.T) {
	if _, err := decodeReply(struct{}{}); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

func nan() float64 {
	zero := 0.0
	return zero / zero
}

// stubHook answers every command in process without touching the network.
type stubHook struct {
	sent  [][]any
	reply any
	err   error
}

func (h *stubHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *stubHook) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		h.sent = append(h.sent, cmd.Args())
		if c, ok := cmd.(*redis.Cmd); ok && h.err == nil {
			c.SetVal(h.reply)
		}
		return h.err
	}
}

func (h *stubHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

// serverError is a reply error as the server would send it.
type serverError string

func (e serverError) Error() string { return string(e) }
func (serverError) RedisError() {}

func newStubbedStore(t *testing.T, h *stubHook) *Store {
	t.Helper()
	s := newOfflineStore(t)
	s.client.AddHook(h)
	return s
}

func sentTokens(args []any) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = fmt.Sprint(a)
	}
	return out
}

func TestRequestResponse_SendsExactArgs(t *testing.T) {
	h := &stubHook{reply: []any{int64(1), "doc:1", []any{"title", "hello"}}}
	s := newStubbedStore(t, h)

	f, err := s.RequestResponse(context.Background(), func() (db.Command, error) {
		return db.Command{
			Kind: db.OpSearch,
			Args: []db.Value{db.String("idx"), db.String("hello"), db.String("LIMIT"), db.Int(0), db.Int(10)},
		}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(h.sent) != 1 {
		t.Fatalf("sent: got %d commands, want 1", len(h.sent))
	}
	want := []string{"FT.SEARCH", "idx", "hello", "LIMIT", "0", "10"}
	if got := sentTokens(h.sent[0]); !slices.Equal(got, want) {
		t.Errorf("args: got %q, want %q", got, want)
	}

	v, err := f.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	wantReply := []any{int64(1), "doc:1", []any{"title", "hello"}}
	if !reflect.DeepEqual(v.Interface(), wantReply) {
		t.Errorf("reply: got %#v, want %#v", v.Interface(), wantReply)
	}
}

func TestRequestResponse_MultiWordKind(t *testing.T) {
	h := &stubHook{reply: []any{}}
	s := newStubbedStore(t, h)

	_, err := s.RequestResponse(context.Background(), func() (db.Command, error) {
		return db.Command{Kind: db.OpConfigGet, Args: []db.Value{db.String("TIMEOUT")}}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"FT.CONFIG", "GET", "TIMEOUT"}
	if got := sentTokens(h.sent[0]); !slices.Equal(got, want) {
		t.Errorf("args: got %q, want %q", got, want)
	}
}

func TestRequestResponse_NullReply(t *testing.T) {
	h := &stubHook{err: redis.Nil}
	s := newStubbedStore(t, h)

	f, err := s.RequestResponse(context.Background(), func() (db.Command, error) {
		return db.Command{Kind: db.OpSugGet, Args: []db.Value{db.String("ac"), db.String("zz")}}, nil
	})
	if err != nil {
		t.Fatalf("null reply is not an error: %v", err)
	}
	v, err := f.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !v.IsNull() {
		t.Errorf("expected null, got %v", v.Kind())
	}
}

func TestRequestResponse_UnknownIndex(t *testing.T) {
	h := &stubHook{err: serverError("Unknown index name")}
	s := newStubbedStore(t, h)

	_, err := s.RequestResponse(context.Background(), func() (db.Command, error) {
		return db.Command{Kind: db.OpInfo, Args: []db.Value{db.String("missing")}}, nil
	})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpInfo {
		t.Errorf("expected *db.Error for %s, got %v", db.OpInfo, err)
	}
}

func TestRequestResponse_OtherServerErrorKeepsMessage(t *testing.T) {
	h := &stubHook{err: serverError("ERR Syntax error at offset 3")}
	s := newStubbedStore(t, h)

	_, err := s.RequestResponse(context.Background(), func() (db.Command, error) {
		return db.Command{Kind: db.OpSearch, Args: []db.Value{db.String("idx"), db.String("(")}}, nil
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, db.ErrIndexNotFound) {
		t.Error("syntax error must not map to ErrIndexNotFound")
	}
	if !strings.Contains(err.Error(), "Syntax error") {
		t.Errorf("server message lost: %v", err)
	}
}
