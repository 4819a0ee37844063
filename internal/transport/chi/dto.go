package chi

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/kailas-cloud/ftwire"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type resultResponse struct {
	Result any `json:"result"`
}

type fieldDTO struct {
	Identifier string `json:"identifier"`
	As         string `json:"as,omitempty"`
}

func fieldsFromDTO(in []fieldDTO) []ftwire.Field {
	if len(in) == 0 {
		return nil
	}
	out := make([]ftwire.Field, len(in))
	for i, f := range in {
		out[i] = ftwire.Field{Identifier: f.Identifier, Property: f.As}
	}
	return out
}

// paramsFromDTO orders params by name so the same request always encodes the same way.
func paramsFromDTO(in map[string]string) []ftwire.Param {
	if len(in) == 0 {
		return nil
	}
	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]ftwire.Param, len(names))
	for i, name := range names {
		out[i] = ftwire.Param{Name: name, Value: in[name]}
	}
	return out
}

func sortOrderFromDTO(s string) (ftwire.SortOrder, error) {
	switch strings.ToUpper(s) {
	case "":
		return "", nil
	case "ASC":
		return ftwire.Asc, nil
	case "DESC":
		return ftwire.Desc, nil
	default:
		return "", fmt.Errorf("sort order must be ASC or DESC, got %q", s)
	}
}

// --- search ---

type numericFilterDTO struct {
	Attribute string `json:"attribute"`
	Min       string `json:"min"` // "5", "(5", "-inf"; empty means -inf
	Max       string `json:"max"` // empty means +inf
}

type geoFilterDTO struct {
	Attribute string  `json:"attribute"`
	Longitude float64 `json:"lon"`
	Latitude  float64 `json:"lat"`
	Radius    float64 `json:"radius"`
	Unit      string  `json:"unit"`
}

type summarizeDTO struct {
	Fields    []string `json:"fields"`
	Frags     *uint64  `json:"frags"`
	Len       *uint64  `json:"len"`
	Separator *string  `json:"separator"`
}

type highlightDTO struct {
	Fields   []string `json:"fields"`
	OpenTag  string   `json:"open_tag"`
	CloseTag string   `json:"close_tag"`
}

type searchSortDTO struct {
	Attribute string `json:"attribute"`
	Order     string `json:"order"`
	WithCount bool   `json:"with_count"`
}

type pageDTO struct {
	Offset int64 `json:"offset"`
	Count  int64 `json:"count"`
}

type searchRequest struct {
	Query        string             `json:"query"`
	NoContent    bool               `json:"no_content"`
	Verbatim     bool               `json:"verbatim"`
	NoStopwords  bool               `json:"no_stopwords"`
	WithScores   bool               `json:"with_scores"`
	WithPayloads bool               `json:"with_payloads"`
	WithSortKeys bool               `json:"with_sort_keys"`
	Filters      []numericFilterDTO `json:"filters"`
	GeoFilters   []geoFilterDTO     `json:"geo_filters"`
	InKeys       []string           `json:"in_keys"`
	InFields     []string           `json:"in_fields"`
	Return       []fieldDTO         `json:"return"`
	Summarize    *summarizeDTO      `json:"summarize"`
	Highlight    *highlightDTO      `json:"highlight"`
	Slop         *int64             `json:"slop"`
	Timeout      *int64             `json:"timeout"`
	InOrder      bool               `json:"in_order"`
	Language     string             `json:"language"`
	Expander     string             `json:"expander"`
	Scorer       string             `json:"scorer"`
	ExplainScore bool               `json:"explain_score"`
	Payload      *string            `json:"payload"`
	SortBy       *searchSortDTO     `json:"sort_by"`
	Limit        *pageDTO           `json:"limit"`
	Params       map[string]string  `json:"params"`
	Dialect      *int64             `json:"dialect"`
}

func (r *searchRequest) options() (ftwire.SearchOptions, error) {
	opts := ftwire.SearchOptions{
		NoContent:    r.NoContent,
		Verbatim:     r.Verbatim,
		NoStopwords:  r.NoStopwords,
		WithScores:   r.WithScores,
		WithPayloads: r.WithPayloads,
		WithSortKeys: r.WithSortKeys,
		InKeys:       r.InKeys,
		InFields:     r.InFields,
		Return:       fieldsFromDTO(r.Return),
		Slop:         r.Slop,
		Timeout:      r.Timeout,
		InOrder:      r.InOrder,
		Language:     r.Language,
		Expander:     r.Expander,
		Scorer:       r.Scorer,
		ExplainScore: r.ExplainScore,
		Params:       paramsFromDTO(r.Params),
		Dialect:      r.Dialect,
	}

	for _, f := range r.Filters {
		if f.Attribute == "" {
			return opts, errors.New("filter attribute is required")
		}
		lo, err := parseBound(f.Min, ftwire.NegInf)
		if err != nil {
			return opts, fmt.Errorf("filter %s min: %w", f.Attribute, err)
		}
		hi, err := parseBound(f.Max, ftwire.PosInf)
		if err != nil {
			return opts, fmt.Errorf("filter %s max: %w", f.Attribute, err)
		}
		opts.Filters = append(opts.Filters, ftwire.NumericFilter{Attribute: f.Attribute, Min: lo, Max: hi})
	}
	for _, g := range r.GeoFilters {
		unit, err := geoUnitFromDTO(g.Unit)
		if err != nil {
			return opts, err
		}
		opts.GeoFilters = append(opts.GeoFilters, ftwire.GeoFilter{
			Attribute: g.Attribute,
			Longitude: g.Longitude,
			Latitude:  g.Latitude,
			Radius:    g.Radius,
			Unit:      unit,
		})
	}
	if s := r.Summarize; s != nil {
		opts.Summarize = &ftwire.Summarize{Fields: s.Fields, Frags: s.Frags, Len: s.Len, Separator: s.Separator}
	}
	if h := r.Highlight; h != nil {
		opts.Highlight = &ftwire.Highlight{Fields: h.Fields}
		if h.OpenTag != "" || h.CloseTag != "" {
			opts.Highlight.Tags = &ftwire.HighlightTags{Open: h.OpenTag, Close: h.CloseTag}
		}
	}
	if r.Payload != nil {
		opts.Payload = []byte(*r.Payload)
	}
	if s := r.SortBy; s != nil {
		order, err := sortOrderFromDTO(s.Order)
		if err != nil {
			return opts, err
		}
		opts.SortBy = &ftwire.SearchSortBy{Attribute: s.Attribute, Order: order, WithCount: s.WithCount}
	}
	if r.Limit != nil {
		opts.Limit = &ftwire.Page{Offset: r.Limit.Offset, Count: r.Limit.Count}
	}
	return opts, nil
}

// parseBound reads "-inf", "+inf", "(x" (exclusive) or "x". Empty yields def.
func parseBound(s string, def ftwire.Bound) (ftwire.Bound, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return def, nil
	case "-inf":
		return ftwire.NegInf, nil
	case "inf", "+inf":
		return ftwire.PosInf, nil
	}

	exclusive := strings.HasPrefix(s, "(")
	f, err := strconv.ParseFloat(strings.TrimPrefix(s, "("), 64)
	if err != nil || math.IsNaN(f) {
		return ftwire.Bound{}, fmt.Errorf("invalid bound %q", s)
	}
	if exclusive {
		return ftwire.Exclusive(f), nil
	}
	return ftwire.Inclusive(f), nil
}

func geoUnitFromDTO(s string) (ftwire.GeoUnit, error) {
	switch u := ftwire.GeoUnit(strings.ToLower(s)); u {
	case ftwire.Meters, ftwire.Kilometers, ftwire.Miles, ftwire.Feet:
		return u, nil
	case "":
		return ftwire.Kilometers, nil
	default:
		return "", fmt.Errorf("geo unit must be one of m, km, mi, ft, got %q", s)
	}
}

// --- aggregate ---

type sortPropertyDTO struct {
	Property string `json:"property"`
	Order    string `json:"order"`
}

type reducerDTO struct {
	Func string   `json:"func"`
	Args []string `json:"args"`
	As   string   `json:"as"`
}

// stageDTO is one pipeline stage; Type selects which fields apply.
type stageDTO struct {
	Type       string            `json:"type"` // filter, limit, apply, sort_by, group_by
	Expression string            `json:"expression"`
	As         string            `json:"as"`
	Offset     uint64            `json:"offset"`
	Count      uint64            `json:"count"`
	Properties []sortPropertyDTO `json:"properties"`
	Max        *uint64           `json:"max"`
	Fields     []string          `json:"fields"`
	Reducers   []reducerDTO      `json:"reducers"`
}

type cursorDTO struct {
	Count   *uint64 `json:"count"`
	MaxIdle *uint64 `json:"max_idle"`
}

type aggregateRequest struct {
	Query    string            `json:"query"`
	Verbatim bool              `json:"verbatim"`
	LoadAll  bool              `json:"load_all"`
	Load     []fieldDTO        `json:"load"`
	Timeout  *int64            `json:"timeout"`
	Pipeline []stageDTO        `json:"pipeline"`
	Cursor   *cursorDTO        `json:"cursor"`
	Params   map[string]string `json:"params"`
	Dialect  *int64            `json:"dialect"`
}

func (r *aggregateRequest) options() (ftwire.AggregateOptions, error) {
	opts := ftwire.AggregateOptions{
		Verbatim: r.Verbatim,
		Timeout:  r.Timeout,
		Params:   paramsFromDTO(r.Params),
		Dialect:  r.Dialect,
	}
	switch {
	case r.LoadAll:
		opts.Load = ftwire.LoadAll{}
	case len(r.Load) > 0:
		opts.Load = ftwire.LoadFields(fieldsFromDTO(r.Load))
	}
	if r.Cursor != nil {
		opts.Cursor = &ftwire.Cursor{Count: r.Cursor.Count, MaxIdle: r.Cursor.MaxIdle}
	}

	for i, st := range r.Pipeline {
		op, err := st.operation()
		if err != nil {
			return opts, fmt.Errorf("pipeline[%d]: %w", i, err)
		}
		opts.Pipeline = append(opts.Pipeline, op)
	}
	return opts, nil
}

func (st *stageDTO) operation() (ftwire.AggregateOperation, error) {
	switch strings.ToLower(st.Type) {
	case "filter":
		return ftwire.Filter{Expression: st.Expression}, nil
	case "limit":
		return ftwire.Limit{Offset: st.Offset, Count: st.Count}, nil
	case "apply":
		if st.As == "" {
			return nil, errors.New("apply requires as")
		}
		return ftwire.Apply{Expression: st.Expression, Name: st.As}, nil
	case "sort_by", "sortby":
		props := make([]ftwire.SortProperty, len(st.Properties))
		for i, p := range st.Properties {
			order, err := sortOrderFromDTO(p.Order)
			if err != nil {
				return nil, err
			}
			props[i] = ftwire.SortProperty{Property: p.Property, Order: order}
		}
		return ftwire.SortBy{Properties: props, Max: st.Max}, nil
	case "group_by", "groupby":
		reducers := make([]ftwire.Reducer, len(st.Reducers))
		for i, rd := range st.Reducers {
			if rd.Func == "" {
				return nil, errors.New("reducer func is required")
			}
			reducers[i] = ftwire.Reducer{
				Func: ftwire.ReducerFunc(strings.ToUpper(rd.Func)),
				Args: rd.Args,
				Name: rd.As,
			}
		}
		return ftwire.GroupBy{Fields: st.Fields, Reducers: reducers}, nil
	default:
		return nil, fmt.Errorf("unknown stage type %q", st.Type)
	}
}

// --- explain, spellcheck, suggestions ---

type explainRequest struct {
	Query   string `json:"query"`
	Dialect *int64 `json:"dialect"`
}

type termsDTO struct {
	Dictionary string   `json:"dictionary"`
	Terms      []string `json:"terms"`
}

type spellcheckRequest struct {
	Query    string    `json:"query"`
	Distance *uint8    `json:"distance"`
	Include  *termsDTO `json:"include"`
	Exclude  *termsDTO `json:"exclude"`
	Dialect  *int64    `json:"dialect"`
}

func (r *spellcheckRequest) options() (ftwire.SpellcheckOptions, error) {
	opts := ftwire.SpellcheckOptions{Distance: r.Distance, Dialect: r.Dialect}
	switch {
	case r.Include != nil && r.Exclude != nil:
		return opts, errors.New("include and exclude are mutually exclusive")
	case r.Include != nil:
		opts.Terms = ftwire.IncludeTerms{Dictionary: r.Include.Dictionary, Terms: r.Include.Terms}
	case r.Exclude != nil:
		opts.Terms = ftwire.ExcludeTerms{Dictionary: r.Exclude.Dictionary, Terms: r.Exclude.Terms}
	}
	return opts, nil
}

type sugAddRequest struct {
	String  string  `json:"string"`
	Score   float64 `json:"score"`
	Incr    bool    `json:"incr"`
	Payload *string `json:"payload"`
}
