package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/ftwire"
)

// runWithClient connects, runs fn and prints its reply as indented JSON.
func runWithClient(cmd *cobra.Command, fn func(ctx context.Context, c *ftwire.Client) (ftwire.Value, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	c, err := ftwire.New(clientOptions(cfg, logger)...)
	if err != nil {
		return err
	}
	defer c.Close()

	v, err := fn(cmd.Context(), c)
	if err != nil {
		return err
	}
	return printValue(cmd.OutOrStdout(), v)
}

func printValue(w io.Writer, v ftwire.Value) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v.Interface())
}

func queryCommands() []*cobra.Command {
	return []*cobra.Command{
		listCmd(),
		infoCmd(),
		explainCmd(),
		searchCmd(),
		aggregateCmd(),
		spellcheckCmd(),
		suggetCmd(),
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List indexes (FT._LIST)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithClient(cmd, func(ctx context.Context, c *ftwire.Client) (ftwire.Value, error) {
				return c.FTList(ctx)
			})
		},
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info INDEX",
		Short: "Show index information (FT.INFO)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, func(ctx context.Context, c *ftwire.Client) (ftwire.Value, error) {
				return c.FTInfo(ctx, args[0])
			})
		},
	}
}

func explainCmd() *cobra.Command {
	var dialect int64
	cmd := &cobra.Command{
		Use:   "explain INDEX QUERY",
		Short: "Show the execution plan of a query (FT.EXPLAIN)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, func(ctx context.Context, c *ftwire.Client) (ftwire.Value, error) {
				return c.FTExplain(ctx, args[0], args[1], optionalInt(dialect))
			})
		},
	}
	cmd.Flags().Int64Var(&dialect, "dialect", 0, "query dialect")
	return cmd
}

type searchFlags struct {
	noContent  bool
	verbatim   bool
	withScores bool
	inKeys     []string
	inFields   []string
	ret        []string
	sortBy     string
	withCount  bool
	offset     int64
	count      int64
	language   string
	scorer     string
	params     []string
	dialect    int64
}

func searchCmd() *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "search INDEX QUERY",
		Short: "Run a search query (FT.SEARCH)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd)
			if err != nil {
				return err
			}
			return runWithClient(cmd, func(ctx context.Context, c *ftwire.Client) (ftwire.Value, error) {
				return c.FTSearch(ctx, args[0], args[1], opts)
			})
		},
	}
	fl := cmd.Flags()
	fl.BoolVar(&f.noContent, "nocontent", false, "return document ids only")
	fl.BoolVar(&f.verbatim, "verbatim", false, "disable stemming")
	fl.BoolVar(&f.withScores, "withscores", false, "return relevance scores")
	fl.StringSliceVar(&f.inKeys, "inkeys", nil, "restrict to these keys")
	fl.StringSliceVar(&f.inFields, "infields", nil, "restrict to these fields")
	fl.StringSliceVar(&f.ret, "return", nil, "fields to return, IDENTIFIER[=ALIAS]")
	fl.StringVar(&f.sortBy, "sortby", "", "sort attribute, ATTR[:ASC|DESC]")
	fl.BoolVar(&f.withCount, "withcount", false, "count all matches when sorting")
	fl.Int64Var(&f.offset, "offset", 0, "LIMIT offset")
	fl.Int64Var(&f.count, "count", 10, "LIMIT count")
	fl.StringVar(&f.language, "language", "", "stemming language")
	fl.StringVar(&f.scorer, "scorer", "", "scoring function")
	fl.StringSliceVar(&f.params, "param", nil, "query parameter NAME=VALUE (repeatable)")
	fl.Int64Var(&f.dialect, "dialect", 0, "query dialect")
	return cmd
}

func (f *searchFlags) options(cmd *cobra.Command) (ftwire.SearchOptions, error) {
	params, err := parseParams(f.params)
	if err != nil {
		return ftwire.SearchOptions{}, err
	}
	opts := ftwire.SearchOptions{
		NoContent:  f.noContent,
		Verbatim:   f.verbatim,
		WithScores: f.withScores,
		InKeys:     f.inKeys,
		InFields:   f.inFields,
		Return:     parseFields(f.ret),
		Language:   f.language,
		Scorer:     f.scorer,
		Params:     params,
		Dialect:    optionalInt(f.dialect),
	}
	if f.sortBy != "" {
		attr, order, err := parseSortKey(f.sortBy)
		if err != nil {
			return opts, err
		}
		opts.SortBy = &ftwire.SearchSortBy{Attribute: attr, Order: order, WithCount: f.withCount}
	}
	if cmd.Flags().Changed("offset") || cmd.Flags().Changed("count") {
		opts.Limit = &ftwire.Page{Offset: f.offset, Count: f.count}
	}
	return opts, nil
}

type aggregateFlags struct {
	loadAll  bool
	load     []string
	filter   string
	apply    []string
	groupBy  []string
	reduce   []string
	sortBy   []string
	max      uint64
	limit    string
	params   []string
	dialect  int64
	verbatim bool
}

func aggregateCmd() *cobra.Command {
	var f aggregateFlags
	cmd := &cobra.Command{
		Use:   "aggregate INDEX QUERY",
		Short: "Run an aggregation (FT.AGGREGATE)",
		Long: "Run an aggregation (FT.AGGREGATE).\n\n" +
			"Stages run in the order filter, apply, groupby, sortby, limit.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd)
			if err != nil {
				return err
			}
			return runWithClient(cmd, func(ctx context.Context, c *ftwire.Client) (ftwire.Value, error) {
				return c.FTAggregate(ctx, args[0], args[1], opts)
			})
		},
	}
	fl := cmd.Flags()
	fl.BoolVar(&f.verbatim, "verbatim", false, "disable stemming")
	fl.BoolVar(&f.loadAll, "load-all", false, "LOAD *")
	fl.StringSliceVar(&f.load, "load", nil, "fields to load, IDENTIFIER[=ALIAS]")
	fl.StringVar(&f.filter, "filter", "", "FILTER expression")
	fl.StringSliceVar(&f.apply, "apply", nil, "APPLY stage, NAME=EXPRESSION (repeatable)")
	fl.StringSliceVar(&f.groupBy, "groupby", nil, "GROUPBY fields")
	fl.StringArrayVar(&f.reduce, "reduce", nil, "reducer FUNC[:ARG,...][=NAME] (repeatable)")
	fl.StringSliceVar(&f.sortBy, "sortby", nil, "SORTBY keys, PROP[:ASC|DESC]")
	fl.Uint64Var(&f.max, "max", 0, "SORTBY MAX")
	fl.StringVar(&f.limit, "limit", "", "LIMIT OFFSET,COUNT")
	fl.StringSliceVar(&f.params, "param", nil, "query parameter NAME=VALUE (repeatable)")
	fl.Int64Var(&f.dialect, "dialect", 0, "query dialect")
	return cmd
}

func (f *aggregateFlags) options(cmd *cobra.Command) (ftwire.AggregateOptions, error) {
	params, err := parseParams(f.params)
	if err != nil {
		return ftwire.AggregateOptions{}, err
	}
	opts := ftwire.AggregateOptions{
		Verbatim: f.verbatim,
		Params:   params,
		Dialect:  optionalInt(f.dialect),
	}
	switch {
	case f.loadAll:
		opts.Load = ftwire.LoadAll{}
	case len(f.load) > 0:
		opts.Load = ftwire.LoadFields(parseFields(f.load))
	}

	if f.filter != "" {
		opts.Pipeline = append(opts.Pipeline, ftwire.Filter{Expression: f.filter})
	}
	for _, a := range f.apply {
		name, expr, ok := strings.Cut(a, "=")
		if !ok || name == "" {
			return opts, fmt.Errorf("apply %q: want NAME=EXPRESSION", a)
		}
		opts.Pipeline = append(opts.Pipeline, ftwire.Apply{Expression: expr, Name: name})
	}
	if len(f.groupBy) > 0 || len(f.reduce) > 0 {
		gb := ftwire.GroupBy{Fields: f.groupBy}
		for _, r := range f.reduce {
			gb.Reducers = append(gb.Reducers, parseReducer(r))
		}
		opts.Pipeline = append(opts.Pipeline, gb)
	}
	if len(f.sortBy) > 0 {
		sb := ftwire.SortBy{}
		for _, key := range f.sortBy {
			prop, order, err := parseSortKey(key)
			if err != nil {
				return opts, err
			}
			sb.Properties = append(sb.Properties, ftwire.SortProperty{Property: prop, Order: order})
		}
		if cmd.Flags().Changed("max") {
			sb.Max = &f.max
		}
		opts.Pipeline = append(opts.Pipeline, sb)
	}
	if f.limit != "" {
		offset, count, err := parseLimit(f.limit)
		if err != nil {
			return opts, err
		}
		opts.Pipeline = append(opts.Pipeline, ftwire.Limit{Offset: offset, Count: count})
	}
	return opts, nil
}

func spellcheckCmd() *cobra.Command {
	var (
		distance uint8
		include  string
		exclude  string
		dialect  int64
	)
	cmd := &cobra.Command{
		Use:   "spellcheck INDEX QUERY",
		Short: "Suggest spelling corrections (FT.SPELLCHECK)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := ftwire.SpellcheckOptions{Dialect: optionalInt(dialect)}
			if cmd.Flags().Changed("distance") {
				opts.Distance = &distance
			}
			switch {
			case include != "" && exclude != "":
				return fmt.Errorf("--include and --exclude are mutually exclusive")
			case include != "":
				opts.Terms = ftwire.IncludeTerms{Dictionary: include}
			case exclude != "":
				opts.Terms = ftwire.ExcludeTerms{Dictionary: exclude}
			}
			return runWithClient(cmd, func(ctx context.Context, c *ftwire.Client) (ftwire.Value, error) {
				return c.FTSpellCheck(ctx, args[0], args[1], opts)
			})
		},
	}
	fl := cmd.Flags()
	fl.Uint8Var(&distance, "distance", 1, "maximum Levenshtein distance")
	fl.StringVar(&include, "include", "", "dictionary whose terms are suggested")
	fl.StringVar(&exclude, "exclude", "", "dictionary whose terms are never suggested")
	fl.Int64Var(&dialect, "dialect", 0, "query dialect")
	return cmd
}

func suggetCmd() *cobra.Command {
	var (
		opts       ftwire.SugGetOptions
		maxResults uint64
	)
	cmd := &cobra.Command{
		Use:   "sugget KEY PREFIX",
		Short: "Complete a prefix from a suggestion dictionary (FT.SUGGET)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("max") {
				opts.Max = &maxResults
			}
			return runWithClient(cmd, func(ctx context.Context, c *ftwire.Client) (ftwire.Value, error) {
				return c.FTSugGet(ctx, args[0], args[1], opts)
			})
		},
	}
	fl := cmd.Flags()
	fl.BoolVar(&opts.Fuzzy, "fuzzy", false, "allow one-character edits")
	fl.BoolVar(&opts.WithScores, "withscores", false, "return scores")
	fl.BoolVar(&opts.WithPayloads, "withpayloads", false, "return payloads")
	fl.Uint64Var(&maxResults, "max", 5, "maximum number of results")
	return cmd
}

func optionalInt(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

// parseFields reads IDENTIFIER[=ALIAS] entries.
func parseFields(in []string) []ftwire.Field {
	if len(in) == 0 {
		return nil
	}
	out := make([]ftwire.Field, len(in))
	for i, s := range in {
		id, alias, _ := strings.Cut(s, "=")
		out[i] = ftwire.Field{Identifier: id, Property: alias}
	}
	return out
}

func parseParams(in []string) ([]ftwire.Param, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]ftwire.Param, 0, len(in))
	for _, p := range in {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("param %q: want NAME=VALUE", p)
		}
		out = append(out, ftwire.Param{Name: name, Value: value})
	}
	return out, nil
}

func parseSortKey(s string) (string, ftwire.SortOrder, error) {
	prop, dir, ok := strings.Cut(s, ":")
	if !ok {
		return prop, "", nil
	}
	switch strings.ToUpper(dir) {
	case "ASC":
		return prop, ftwire.Asc, nil
	case "DESC":
		return prop, ftwire.Desc, nil
	default:
		return "", "", fmt.Errorf("sort key %q: direction must be ASC or DESC", s)
	}
}

// parseReducer reads FUNC[:ARG,...][=NAME], e.g. "count=n" or "quantile:@price,0.5=median".
func parseReducer(s string) ftwire.Reducer {
	call, name, _ := strings.Cut(s, "=")
	fn, rawArgs, _ := strings.Cut(call, ":")
	r := ftwire.Reducer{Func: ftwire.ReducerFunc(strings.ToUpper(fn)), Name: name}
	if rawArgs != "" {
		r.Args = strings.Split(rawArgs, ",")
	}
	return r
}

func parseLimit(s string) (uint64, uint64, error) {
	rawOffset, rawCount, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("limit %q: want OFFSET,COUNT", s)
	}
	offset, err := strconv.ParseUint(strings.TrimSpace(rawOffset), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("limit offset: %w", err)
	}
	count, err := strconv.ParseUint(strings.TrimSpace(rawCount), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("limit count: %w", err)
	}
	return offset, count, nil
}
