package ftwire

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/ftwire/internal/db/redis"
)

func newMockedClient(t *testing.T, opts ...Option) (*Client, *mock.Client) {
	t.Helper()
	ctrl := gomock.NewController(t)
	rc := mock.NewClient(ctrl)

	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	return newClient(dbRedis.NewStoreForTest(rc, zap.NewNop()), cfg), rc
}

func TestClient_AggregateOverRueidis(t *testing.T) {
	c, rc := newMockedClient(t, WithDefaultDialect(2))

	rc.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.AGGREGATE", "books", "*",
			"GROUPBY", "1", "@author", "REDUCE", "COUNT", "0", "AS", "n",
			"SORTBY", "2", "@n", "DESC", "@author", "ASC", "MAX", "5",
			"DIALECT", "2",
		)).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisArray(mock.RedisString("@author"), mock.RedisString("ada"), mock.RedisString("n"), mock.RedisString("3")),
		)))

	v, err := c.FTAggregate(context.Background(), "books", "*", AggregateOptions{
		Pipeline: []AggregateOperation{
			GroupBy{Fields: []string{"@author"}, Reducers: []Reducer{{Func: ReduceCount, Name: "n"}}},
			SortBy{Properties: []SortProperty{{"@n", Desc}, {"@author", Asc}}, Max: Ptr[uint64](5)},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, ok := v.AsArray()
	if !ok || len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %v", v.Interface())
	}
	if total, _ := rows[0].AsInt64(); total != 1 {
		t.Errorf("total: got %d, want 1", total)
	}
}

func TestClient_NullFieldInAggregateRow(t *testing.T) {
	c, rc := newMockedClient(t)

	rc.EXPECT().
		Do(gomock.Any(), mock.Match("FT.AGGREGATE", "books", "*", "LOAD", "1", "@missing")).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisArray(mock.RedisString("missing"), mock.RedisNil()),
		)))

	v, err := c.FTAggregate(context.Background(), "books", "*", AggregateOptions{
		Load: LoadFields{{Identifier: "@missing"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, _ := v.AsArray()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %v", v.Interface())
	}
	row, _ := rows[1].AsArray()
	if len(row) != 2 {
		t.Fatalf("expected field pair, got %v", rows[1].Interface())
	}
	if name, _ := row[0].AsString(); name != "missing" {
		t.Errorf("field name: got %q, want missing", name)
	}
	if !row[1].IsNull() {
		t.Errorf("field value: got %v, want null", row[1].Kind())
	}
}

func TestClient_NullSugGetReply(t *testing.T) {
	c, rc := newMockedClient(t)

	rc.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SUGGET", "ac", "zz")).
		Return(mock.Result(mock.RedisNil()))

	v, err := c.FTSugGet(context.Background(), "ac", "zz", SugGetOptions{})
	if err != nil {
		t.Fatalf("null reply is not an error: %v", err)
	}
	if !v.IsNull() {
		t.Errorf("reply: got %v, want null", v.Kind())
	}
}

func TestClient_CursorReadOverRueidis(t *testing.T) {
	c, rc := newMockedClient(t)

	rc.EXPECT().
		Do(gomock.Any(), mock.Match("FT.CURSOR", "READ", "idx", "42", "COUNT", "10")).
		Return(mock.Result(mock.RedisArray(mock.RedisArray(mock.RedisInt64(0)), mock.RedisInt64(0))))

	if _, err := c.FTCursorRead(context.Background(), "idx", 42, Ptr[uint64](10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_UnknownIndexOverRueidis(t *testing.T) {
	c, rc := newMockedClient(t)

	rc.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "nope")).
		Return(mock.Result(mock.RedisError("Unknown index name")))

	_, err := c.FTInfo(context.Background(), "nope")
	if !errors.Is(err, ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}
