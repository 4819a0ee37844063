package ftwire

import (
	"context"

	"github.com/kailas-cloud/ftwire/internal/db"
	"github.com/kailas-cloud/ftwire/internal/keyword"
)

// FTList returns the names of all indexes.
func (c *Client) FTList(ctx context.Context) (Value, error) {
	return c.argsValuesCmd(ctx, db.OpList)
}

// FTAggregate runs an aggregation query against index.
func (c *Client) FTAggregate(ctx context.Context, index, query string, opts AggregateOptions) (Value, error) {
	return c.requestResponse(ctx, func() (db.Command, error) {
		opts.Dialect = c.dialect(opts.Dialect)
		args := make([]Value, 0, 2+opts.numArgs())
		args = append(args, str(index), str(query))
		args, err := appendAggregateOptions(args, &opts)
		if err != nil {
			return db.Command{Kind: db.OpAggregate}, err
		}
		return db.Command{Kind: db.OpAggregate, Args: args}, nil
	})
}

// FTSearch runs a search query against index.
func (c *Client) FTSearch(ctx context.Context, index, query string, opts SearchOptions) (Value, error) {
	return c.requestResponse(ctx, func() (db.Command, error) {
		opts.Dialect = c.dialect(opts.Dialect)
		args := make([]Value, 0, 2+opts.numArgs())
		args = append(args, str(index), str(query))
		args, err := appendSearchOptions(args, &opts)
		if err != nil {
			return db.Command{Kind: db.OpSearch}, err
		}
		return db.Command{Kind: db.OpSearch, Args: args}, nil
	})
}

// SchemaField describes one attribute of an index schema.
type SchemaField struct {
	Name  string
	Alias string
	Type  string
}

// CreateOptions are the FT.CREATE index options.
type CreateOptions struct {
	On       string
	Prefixes []string
}

// AlterOptions are the FT.ALTER arguments.
type AlterOptions struct {
	SkipInitialScan bool
	Field           SchemaField
}

// FTCreate creates an index. Schema encoding is not implemented: the call
// always fails with ErrNotImplemented and sends nothing.
func (c *Client) FTCreate(ctx context.Context, index string, opts CreateOptions, schema ...SchemaField) (Value, error) {
	return c.requestResponse(ctx, func() (db.Command, error) {
		return db.Command{Kind: db.OpCreate}, db.ErrNotImplemented
	})
}

// FTAlter adds a field to an index. Like FTCreate it always fails with
// ErrNotImplemented and sends nothing.
func (c *Client) FTAlter(ctx context.Context, index string, opts AlterOptions) (Value, error) {
	return c.requestResponse(ctx, func() (db.Command, error) {
		return db.Command{Kind: db.OpAlter}, db.ErrNotImplemented
	})
}

// FTAliasAdd adds alias to index.
func (c *Client) FTAliasAdd(ctx context.Context, alias, index string) (Value, error) {
	return c.argsValuesCmd(ctx, db.OpAliasAdd, str(alias), str(index))
}

// FTAliasDel removes alias.
func (c *Client) FTAliasDel(ctx context.Context, alias string) (Value, error) {
	return c.argsValuesCmd(ctx, db.OpAliasDel, str(alias))
}

// FTAliasUpdate points alias at index, removing any previous association.
func (c *Client) FTAliasUpdate(ctx context.Context, alias, index string) (Value, error) {
	return c.argsValuesCmd(ctx, db.OpAliasUpdate, str(alias), str(index))
}

// FTConfigGet reads a configuration option. "*" returns all of them.
func (c *Client) FTConfigGet(ctx context.Context, option string) (Value, error) {
	return c.argsValuesCmd(ctx, db.OpConfigGet, str(option))
}

// FTConfigSet sets a configuration option.
func (c *Client) FTConfigSet(ctx context.Context, option string, value Value) (Value, error) {
	return c.argsValuesCmd(ctx, db.OpConfigSet, str(option), value)
}

// FTCursorDel deletes an aggregate cursor.
func (c *Client) FTCursorDel(ctx context.Context, index string, cursor int64) (Value, error) {
	return c.argsValuesCmd(ctx, db.OpCursorDel, str(index), IntValue(cursor))
}

// FTCursorRead reads the next batch from an aggregate cursor. A nil count
// uses the batch size the cursor was created with.
func (c *Client) FTCursorRead(ctx context.Context, index string, cursor int64, count *uint64) (Value, error) {
	return c.requestResponse(ctx, func() (db.Command, error) {
		args := []Value{str(index), IntValue(cursor)}
		if count != nil {
			v, err := uintArg("COUNT", *count)
			if err != nil {
				return db.Command{Kind: db.OpCursorRead}, err
			}
			args = append(args, str(keyword.Count), v)
		}
		return db.Command{Kind: db.OpCursorRead, Args: args}, nil
	})
}

// FTDictAdd adds terms to dict.
func (c *Client) FTDictAdd(ctx context.Context, dict string, terms ...string) (Value, error) {
	return c.argsValuesCmd(ctx, db.OpDictAdd, prepend(dict, terms)...)
}

// FTDictDel removes terms from dict.
func (c *Client) FTDictDel(ctx context.Context, dict string, terms ...string) (Value, error) {
	return c.argsValuesCmd(ctx, db.OpDictDel, prepend(dict, terms)...)
}

// FTDictDump returns every term in dict.
func (c *Client) FTDictDump(ctx context.Context, dict string) (Value, error) {
	return c.argsValuesCmd(ctx, db.OpDictDump, str(dict))
}

// FTDropIndex deletes index. With dd the indexed documents are deleted too.
func (c *Client) FTDropIndex(ctx context.Context, index string, dd bool) (Value, error) {
	args := []Value{str(index)}
	if dd {
		args = append(args, str(keyword.DD))
	}
	return c.argsValuesCmd(ctx, db.OpDropIndex, args...)
}

// FTExplain returns the execution plan for query.
func (c *Client) FTExplain(ctx context.Context, index, query string, dialect *int64) (Value, error) {
	return c.requestResponse(ctx, func() (db.Command, error) {
		args := appendInt([]Value{str(index), str(query)}, keyword.Dialect, c.dialect(dialect))
		return db.Command{Kind: db.OpExplain, Args: args}, nil
	})
}

// FTInfo returns index information and statistics.
func (c *Client) FTInfo(ctx context.Context, index string) (Value, error) {
	return c.argsValuesCmd(ctx, db.OpInfo, str(index))
}

// FTSpellCheck suggests corrections for misspelled terms in query.
func (c *Client) FTSpellCheck(ctx context.Context, index, query string, opts SpellcheckOptions) (Value, error) {
	return c.requestResponse(ctx, func() (db.Command, error) {
		opts.Dialect = c.dialect(opts.Dialect)
		args, err := appendSpellcheckOptions([]Value{str(index), str(query)}, &opts)
		if err != nil {
			return db.Command{Kind: db.OpSpellCheck}, err
		}
		return db.Command{Kind: db.OpSpellCheck, Args: args}, nil
	})
}

// FTSugAdd adds s to the suggestion dictionary at key with score.
func (c *Client) FTSugAdd(ctx context.Context, key, s string, score float64, opts SugAddOptions) (Value, error) {
	return c.requestResponse(ctx, func() (db.Command, error) {
		sc, err := floatArg("score", score)
		if err != nil {
			return db.Command{Kind: db.OpSugAdd}, err
		}
		args := make([]Value, 0, 6)
		args = append(args, str(key), str(s), sc)
		return db.Command{Kind: db.OpSugAdd, Args: appendSugAddOptions(args, &opts)}, nil
	})
}

// FTSugDel removes s from the suggestion dictionary at key.
func (c *Client) FTSugDel(ctx context.Context, key, s string) (Value, error) {
	return c.argsValuesCmd(ctx, db.OpSugDel, str(key), str(s))
}

// FTSugGet returns completions for prefix.
func (c *Client) FTSugGet(ctx context.Context, key, prefix string, opts SugGetOptions) (Value, error) {
	return c.requestResponse(ctx, func() (db.Command, error) {
		args := make([]Value, 0, 7)
		args = append(args, str(key), str(prefix))
		args, err := appendSugGetOptions(args, &opts)
		if err != nil {
			return db.Command{Kind: db.OpSugGet}, err
		}
		return db.Command{Kind: db.OpSugGet, Args: args}, nil
	})
}

// FTSugLen returns the size of the suggestion dictionary at key.
func (c *Client) FTSugLen(ctx context.Context, key string) (Value, error) {
	return c.argsValuesCmd(ctx, db.OpSugLen, str(key))
}

// FTSynDump returns the synonym groups of index.
func (c *Client) FTSynDump(ctx context.Context, index string) (Value, error) {
	return c.argsValuesCmd(ctx, db.OpSynDump, str(index))
}

// FTSynUpdate creates or extends a synonym group.
func (c *Client) FTSynUpdate(ctx context.Context, index, groupID string, skipInitialScan bool, terms ...string) (Value, error) {
	args := make([]Value, 0, 3+len(terms))
	args = append(args, str(index), str(groupID))
	args = appendFlag(args, skipInitialScan, keyword.SkipInitialScan)
	for _, t := range terms {
		args = append(args, str(t))
	}
	return c.argsValuesCmd(ctx, db.OpSynUpdate, args...)
}

// FTTagVals returns the distinct values of a TAG field.
func (c *Client) FTTagVals(ctx context.Context, index, field string) (Value, error) {
	return c.argsValuesCmd(ctx, db.OpTagVals, str(index), str(field))
}

func prepend(head string, rest []string) []Value {
	args := make([]Value, 0, 1+len(rest))
	args = append(args, str(head))
	for _, s := range rest {
		args = append(args, str(s))
	}
	return args
}
