package ftwire

import (
	"fmt"

	"github.com/kailas-cloud/ftwire/internal/keyword"
)

// SortOrder is a sort direction. The zero value means "unspecified".
type SortOrder string

// Sort directions.
const (
	Asc  SortOrder = keyword.Asc
	Desc SortOrder = keyword.Desc
)

// ReducerFunc names a GROUPBY reducer.
type ReducerFunc string

// Reducer functions.
const (
	ReduceCount            ReducerFunc = "COUNT"
	ReduceCountDistinct    ReducerFunc = "COUNT_DISTINCT"
	ReduceCountDistinctish ReducerFunc = "COUNT_DISTINCTISH"
	ReduceSum              ReducerFunc = "SUM"
	ReduceMin              ReducerFunc = "MIN"
	ReduceMax              ReducerFunc = "MAX"
	ReduceAvg              ReducerFunc = "AVG"
	ReduceStdDev           ReducerFunc = "STDDEV"
	ReduceQuantile         ReducerFunc = "QUANTILE"
	ReduceToList           ReducerFunc = "TOLIST"
	ReduceFirstValue       ReducerFunc = "FIRST_VALUE"
	ReduceRandomSample     ReducerFunc = "RANDOM_SAMPLE"
)

// Field is a document attribute, optionally renamed with AS when Property is set.
type Field struct {
	Identifier string
	Property   string
}

// Param is one PARAMS name/value pair. Order is preserved on the wire.
type Param struct {
	Name  string
	Value string
}

// Load selects the attributes FT.AGGREGATE loads: LoadAll or LoadFields.
type Load interface {
	isLoad()
}

// LoadAll loads every attribute (LOAD *).
type LoadAll struct{}

// LoadFields loads the listed attributes. An empty list emits nothing.
type LoadFields []Field

func (LoadAll) isLoad()    {}
func (LoadFields) isLoad() {}

// AggregateOperation is one pipeline stage: Filter, Limit, Apply, SortBy or GroupBy.
// Stages are encoded in the order given.
type AggregateOperation interface {
	isAggregateOperation()
}

// Filter drops rows that do not match Expression.
type Filter struct {
	Expression string
}

// Limit keeps Count rows starting at Offset.
type Limit struct {
	Offset uint64
	Count  uint64
}

// Apply stores the result of Expression in Name.
type Apply struct {
	Expression string
	Name       string
}

// SortProperty is one SORTBY key. An empty Order sorts ascending.
type SortProperty struct {
	Property string
	Order    SortOrder
}

// SortBy sorts rows by Properties, keeping at most Max when set.
type SortBy struct {
	Properties []SortProperty
	Max        *uint64
}

// Reducer aggregates a group. Name sets the output property when non-empty.
type Reducer struct {
	Func ReducerFunc
	Args []string
	Name string
}

// GroupBy groups rows by Fields and applies Reducers to each group.
type GroupBy struct {
	Fields   []string
	Reducers []Reducer
}

func (Filter) isAggregateOperation()  {}
func (Limit) isAggregateOperation()   {}
func (Apply) isAggregateOperation()   {}
func (SortBy) isAggregateOperation()  {}
func (GroupBy) isAggregateOperation() {}

// Cursor requests a cursor-based FT.AGGREGATE reply.
type Cursor struct {
	Count   *uint64
	MaxIdle *uint64
}

// AggregateOptions are the optional FT.AGGREGATE arguments.
type AggregateOptions struct {
	Verbatim bool
	Load     Load
	Timeout  *int64
	Pipeline []AggregateOperation
	Cursor   *Cursor
	Params   []Param
	Dialect  *int64
}

func (o *AggregateOptions) numArgs() int {
	n := 0
	if o.Verbatim {
		n++
	}
	switch l := o.Load.(type) {
	case LoadAll:
		n += 2
	case LoadFields:
		if len(l) > 0 {
			n += 2 + fieldsNumArgs(l)
		}
	}
	if o.Timeout != nil {
		n += 2
	}
	for _, op := range o.Pipeline {
		n += aggregateOpNumArgs(op)
	}
	if o.Cursor != nil {
		n++
		if o.Cursor.Count != nil {
			n += 2
		}
		if o.Cursor.MaxIdle != nil {
			n += 2
		}
	}
	n += paramsNumArgs(o.Params)
	if o.Dialect != nil {
		n += 2
	}
	return n
}

func aggregateOpNumArgs(op AggregateOperation) int {
	switch op := op.(type) {
	case Filter, Limit:
		return 3
	case Apply:
		return 4
	case SortBy:
		n := 2 + 2*len(op.Properties)
		if op.Max != nil {
			n += 2
		}
		return n
	case GroupBy:
		n := 2 + len(op.Fields)
		for _, r := range op.Reducers {
			n += 3 + len(r.Args)
			if r.Name != "" {
				n += 2
			}
		}
		return n
	default:
		return 0
	}
}

func fieldsNumArgs(fields []Field) int {
	n := 0
	for _, f := range fields {
		n++
		if f.Property != "" {
			n += 2
		}
	}
	return n
}

func paramsNumArgs(params []Param) int {
	if len(params) == 0 {
		return 0
	}
	return 2 + 2*len(params)
}

// appendAggregateOptions appends o in the order FT.AGGREGATE expects.
func appendAggregateOptions(args []Value, o *AggregateOptions) ([]Value, error) {
	if o.Verbatim {
		args = append(args, str(keyword.Verbatim))
	}
	switch l := o.Load.(type) {
	case nil:
	case LoadAll:
		args = append(args, str(keyword.Load), str(keyword.LoadAll))
	case LoadFields:
		if len(l) > 0 {
			args = append(args, str(keyword.Load), count(len(l)))
			args = appendFields(args, l)
		}
	default:
		return nil, fmt.Errorf("unsupported load %T", o.Load)
	}
	if o.Timeout != nil {
		args = append(args, str(keyword.Timeout), IntValue(*o.Timeout))
	}

	var err error
	for _, op := range o.Pipeline {
		if args, err = appendAggregateOp(args, op); err != nil {
			return nil, err
		}
	}

	if o.Cursor != nil {
		args = append(args, str(keyword.WithCursor))
		if o.Cursor.Count != nil {
			v, err := uintArg("COUNT", *o.Cursor.Count)
			if err != nil {
				return nil, err
			}
			args = append(args, str(keyword.Count), v)
		}
		if o.Cursor.MaxIdle != nil {
			v, err := uintArg("MAXIDLE", *o.Cursor.MaxIdle)
			if err != nil {
				return nil, err
			}
			args = append(args, str(keyword.MaxIdle), v)
		}
	}
	args = appendParams(args, o.Params)
	if o.Dialect != nil {
		args = append(args, str(keyword.Dialect), IntValue(*o.Dialect))
	}
	return args, nil
}

func appendAggregateOp(args []Value, op AggregateOperation) ([]Value, error) {
	switch op := op.(type) {
	case Filter:
		return append(args, str(keyword.Filter), str(op.Expression)), nil
	case Limit:
		offset, err := uintArg("LIMIT offset", op.Offset)
		if err != nil {
			return nil, err
		}
		num, err := uintArg("LIMIT num", op.Count)
		if err != nil {
			return nil, err
		}
		return append(args, str(keyword.Limit), offset, num), nil
	case Apply:
		return append(args, str(keyword.Apply), str(op.Expression), str(keyword.As), str(op.Name)), nil
	case SortBy:
		// The count is the number of properties, not the number of tokens that follow.
		args = append(args, str(keyword.SortBy), count(len(op.Properties)))
		for _, p := range op.Properties {
			order := p.Order
			if order == "" {
				order = Asc
			}
			args = append(args, str(p.Property), str(string(order)))
		}
		if op.Max != nil {
			v, err := uintArg("MAX", *op.Max)
			if err != nil {
				return nil, err
			}
			args = append(args, str(keyword.Max), v)
		}
		return args, nil
	case GroupBy:
		args = append(args, str(keyword.GroupBy), count(len(op.Fields)))
		for _, f := range op.Fields {
			args = append(args, str(f))
		}
		for _, r := range op.Reducers {
			args = append(args, str(keyword.Reduce), str(string(r.Func)), count(len(r.Args)))
			for _, a := range r.Args {
				args = append(args, str(a))
			}
			if r.Name != "" {
				args = append(args, str(keyword.As), str(r.Name))
			}
		}
		return args, nil
	default:
		return nil, fmt.Errorf("unsupported aggregate operation %T", op)
	}
}

func appendFields(args []Value, fields []Field) []Value {
	for _, f := range fields {
		args = append(args, str(f.Identifier))
		if f.Property != "" {
			args = append(args, str(keyword.As), str(f.Property))
		}
	}
	return args
}

// appendParams emits PARAMS 2K name value ... for K pairs.
func appendParams(args []Value, params []Param) []Value {
	if len(params) == 0 {
		return args
	}
	args = append(args, str(keyword.Params), count(2*len(params)))
	for _, p := range params {
		args = append(args, str(p.Name), str(p.Value))
	}
	return args
}
