package ftwire

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestAppendAggregateOp(t *testing.T) {
	tests := []struct {
		name string
		op   AggregateOperation
		want []string
	}{
		{"filter", Filter{Expression: "@year > 2000"}, []string{"FILTER", "@year > 2000"}},
		{"limit", Limit{Offset: 10, Count: 20}, []string{"LIMIT", "10", "20"}},
		{"apply", Apply{Expression: "upper(@name)", Name: "u"}, []string{"APPLY", "upper(@name)", "AS", "u"}},
		{
			"sortby counts properties",
			SortBy{Properties: []SortProperty{{"p1", Asc}, {"p2", Desc}}, Max: Ptr[uint64](5)},
			[]string{"SORTBY", "2", "p1", "ASC", "p2", "DESC", "MAX", "5"},
		},
		{
			"sortby default order",
			SortBy{Properties: []SortProperty{{Property: "@n"}}},
			[]string{"SORTBY", "1", "@n", "ASC"},
		},
		{
			"groupby named reducer",
			GroupBy{Fields: []string{"f"}, Reducers: []Reducer{{Func: ReduceCount, Name: "n"}}},
			[]string{"GROUPBY", "1", "f", "REDUCE", "COUNT", "0", "AS", "n"},
		},
		{
			"groupby reducer args",
			GroupBy{
				Fields: []string{"@a", "@b"},
				Reducers: []Reducer{
					{Func: ReduceQuantile, Args: []string{"@price", "0.5"}, Name: "median"},
					{Func: ReduceSum, Args: []string{"@qty"}},
				},
			},
			[]string{
				"GROUPBY", "2", "@a", "@b",
				"REDUCE", "QUANTILE", "2", "@price", "0.5", "AS", "median",
				"REDUCE", "SUM", "1", "@qty",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := appendAggregateOp(nil, tt.op)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertTokens(t, args, tt.want)
			if n := aggregateOpNumArgs(tt.op); len(args) > n {
				t.Errorf("numArgs estimate %d below actual %d", n, len(args))
			}
		})
	}
}

func TestAppendAggregateOp_LimitOverflow(t *testing.T) {
	_, err := appendAggregateOp(nil, Limit{Offset: math.MaxUint64, Count: 1})
	if !errors.Is(err, ErrConversion) {
		t.Fatalf("expected ErrConversion, got %v", err)
	}

	var ce *ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConversionError, got %T", err)
	}
	if ce.Arg != "LIMIT offset" {
		t.Errorf("arg: got %q, want %q", ce.Arg, "LIMIT offset")
	}
}

func TestAppendAggregateOp_UnsupportedStage(t *testing.T) {
	if _, err := appendAggregateOp(nil, &Filter{Expression: "x"}); err == nil {
		t.Fatal("expected error for unsupported stage")
	}
}

func TestAppendAggregateOptions_Full(t *testing.T) {
	opts := AggregateOptions{
		Verbatim: true,
		Load:     LoadAll{},
		Timeout:  Ptr[int64](500),
		Pipeline: []AggregateOperation{
			GroupBy{Fields: []string{"@author"}, Reducers: []Reducer{{Func: ReduceCount, Name: "n"}}},
			Limit{Offset: 0, Count: 10},
		},
		Cursor:  &Cursor{Count: Ptr[uint64](100), MaxIdle: Ptr[uint64](30000)},
		Params:  []Param{{"lo", "1"}, {"hi", "9"}},
		Dialect: Ptr[int64](2),
	}

	args, err := appendAggregateOptions(nil, &opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTokens(t, args, []string{
		"VERBATIM",
		"LOAD", "*",
		"TIMEOUT", "500",
		"GROUPBY", "1", "@author", "REDUCE", "COUNT", "0", "AS", "n",
		"LIMIT", "0", "10",
		"WITHCURSOR", "COUNT", "100", "MAXIDLE", "30000",
		"PARAMS", "4", "lo", "1", "hi", "9",
		"DIALECT", "2",
	})
	if n := opts.numArgs(); n != len(args) {
		t.Errorf("numArgs: got %d, want %d", n, len(args))
	}
}

func TestAppendAggregateOptions_PipelineOrder(t *testing.T) {
	opts := AggregateOptions{Pipeline: []AggregateOperation{
		Filter{Expression: "@x > 1"},
		GroupBy{Fields: []string{"@x"}},
		SortBy{Properties: []SortProperty{{"@x", Desc}}},
	}}

	args, err := appendAggregateOptions(nil, &opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	toks := tokens(args)
	f := slices.Index(toks, "FILTER")
	g := slices.Index(toks, "GROUPBY")
	s := slices.Index(toks, "SORTBY")
	if f < 0 || g < 0 || s < 0 {
		t.Fatalf("missing stage keyword in %v", toks)
	}
	if f >= g || g >= s {
		t.Errorf("stages out of order: FILTER@%d GROUPBY@%d SORTBY@%d", f, g, s)
	}
}

func TestAppendAggregateOptions_Load(t *testing.T) {
	tests := []struct {
		name string
		load Load
		want []string
	}{
		{"absent", nil, []string{}},
		{"empty list", LoadFields{}, []string{}},
		{
			"fields with alias",
			LoadFields{{Identifier: "@title", Property: "t"}, {Identifier: "@year"}},
			[]string{"LOAD", "2", "@title", "AS", "t", "@year"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := appendAggregateOptions([]Value{}, &AggregateOptions{Load: tt.load})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertTokens(t, args, tt.want)
		})
	}
}

func TestAppendAggregateOptions_EmptyParamsOmitted(t *testing.T) {
	args, err := appendAggregateOptions(nil, &AggregateOptions{Params: []Param{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(args) != 0 {
		t.Errorf("expected no tokens, got %q", tokens(args))
	}
}

func TestAppendAggregateOptions_CursorOverflow(t *testing.T) {
	_, err := appendAggregateOptions(nil, &AggregateOptions{
		Cursor: &Cursor{MaxIdle: Ptr[uint64](math.MaxInt64 + 1)},
	})

	var ce *ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConversionError, got %v", err)
	}
	if ce.Arg != "MAXIDLE" {
		t.Errorf("arg: got %q, want %q", ce.Arg, "MAXIDLE")
	}
}
