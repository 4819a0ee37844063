package ftwire

import (
	"math"

	"github.com/kailas-cloud/ftwire/internal/db"
	"github.com/kailas-cloud/ftwire/internal/keyword"
)

type boundKind uint8

const (
	boundInclusive boundKind = iota
	boundExclusive
	boundNegInf
	boundPosInf
)

// Bound is one end of a numeric FILTER range. The zero value is Inclusive(0).
type Bound struct {
	kind  boundKind
	value float64
}

// Unbounded range ends.
var (
	NegInf = Bound{kind: boundNegInf}
	PosInf = Bound{kind: boundPosInf}
)

// Inclusive returns a bound that includes f.
func Inclusive(f float64) Bound { return Bound{kind: boundInclusive, value: f} }

// Exclusive returns a bound that excludes f. It is written as "(f".
func Exclusive(f float64) Bound { return Bound{kind: boundExclusive, value: f} }

// toValue renders the bound the way the FILTER parser reads it.
func (b Bound) toValue(arg string) (Value, error) {
	switch b.kind {
	case boundNegInf:
		return str("-inf"), nil
	case boundPosInf:
		return str("+inf"), nil
	}
	if math.IsNaN(b.value) {
		return Value{}, &db.ConversionError{Arg: arg, Value: "NaN", Reason: "not a number"}
	}
	s := db.FormatFloat(b.value)
	if b.kind == boundExclusive {
		s = "(" + s
	}
	return str(s), nil
}

// GeoUnit is a GEOFILTER radius unit.
type GeoUnit string

// Radius units.
const (
	Meters     GeoUnit = "m"
	Kilometers GeoUnit = "km"
	Miles      GeoUnit = "mi"
	Feet       GeoUnit = "ft"
)

// NumericFilter restricts Attribute to [Min, Max].
type NumericFilter struct {
	Attribute string
	Min       Bound
	Max       Bound
}

// GeoFilter restricts Attribute to Radius around a point.
type GeoFilter struct {
	Attribute string
	Longitude float64
	Latitude  float64
	Radius    float64
	Unit      GeoUnit
}

// Summarize returns fragments of matching text instead of whole fields.
// A non-nil Separator is sent even when empty.
type Summarize struct {
	Fields    []string
	Frags     *uint64
	Len       *uint64
	Separator *string
}

// HighlightTags wrap every highlighted term.
type HighlightTags struct {
	Open  string
	Close string
}

// Highlight wraps matched terms in Tags (server default when nil).
type Highlight struct {
	Fields []string
	Tags   *HighlightTags
}

// SearchSortBy orders FT.SEARCH results by one attribute. An empty Order
// leaves the direction to the server.
type SearchSortBy struct {
	Attribute string
	Order     SortOrder
	WithCount bool
}

// Page is a LIMIT offset/count pair.
type Page struct {
	Offset int64
	Count  int64
}

// SearchOptions are the optional FT.SEARCH arguments.
// Empty strings and nil slices are omitted.
type SearchOptions struct {
	NoContent    bool
	Verbatim     bool
	NoStopwords  bool
	WithScores   bool
	WithPayloads bool
	WithSortKeys bool
	Filters      []NumericFilter
	GeoFilters   []GeoFilter
	InKeys       []string
	InFields     []string
	Return       []Field
	Summarize    *Summarize
	Highlight    *Highlight
	Slop         *int64
	Timeout      *int64
	InOrder      bool
	Language     string
	Expander     string
	Scorer       string
	ExplainScore bool
	Payload      []byte
	SortBy       *SearchSortBy
	Limit        *Page
	Params       []Param
	Dialect      *int64
}

func (o *SearchOptions) numArgs() int {
	n := 0
	for _, set := range []bool{o.NoContent, o.Verbatim, o.NoStopwords, o.WithScores, o.WithPayloads, o.WithSortKeys, o.InOrder, o.ExplainScore} {
		if set {
			n++
		}
	}
	n += 4 * len(o.Filters)
	n += 6 * len(o.GeoFilters)
	if len(o.InKeys) > 0 {
		n += 2 + len(o.InKeys)
	}
	if len(o.InFields) > 0 {
		n += 2 + len(o.InFields)
	}
	if len(o.Return) > 0 {
		n += 2 + fieldsNumArgs(o.Return)
	}
	if o.Summarize != nil {
		n += 9 + len(o.Summarize.Fields)
	}
	if o.Highlight != nil {
		n += 6 + len(o.Highlight.Fields)
	}
	for _, set := range []bool{o.Slop != nil, o.Timeout != nil, o.Language != "", o.Expander != "", o.Scorer != "", o.Payload != nil, o.Dialect != nil} {
		if set {
			n += 2
		}
	}
	if o.SortBy != nil {
		n += 4
	}
	if o.Limit != nil {
		n += 3
	}
	return n + paramsNumArgs(o.Params)
}

// appendSearchOptions appends o in the order FT.SEARCH expects.
func appendSearchOptions(args []Value, o *SearchOptions) ([]Value, error) {
	args = appendFlag(args, o.NoContent, keyword.NoContent)
	args = appendFlag(args, o.Verbatim, keyword.Verbatim)
	args = appendFlag(args, o.NoStopwords, keyword.NoStopwords)
	args = appendFlag(args, o.WithScores, keyword.WithScores)
	args = appendFlag(args, o.WithPayloads, keyword.WithPayloads)
	args = appendFlag(args, o.WithSortKeys, keyword.WithSortKeys)

	for _, f := range o.Filters {
		lo, err := f.Min.toValue("FILTER min")
		if err != nil {
			return nil, err
		}
		hi, err := f.Max.toValue("FILTER max")
		if err != nil {
			return nil, err
		}
		args = append(args, str(keyword.Filter), str(f.Attribute), lo, hi)
	}
	for _, g := range o.GeoFilters {
		lon, err := floatArg("GEOFILTER longitude", g.Longitude)
		if err != nil {
			return nil, err
		}
		lat, err := floatArg("GEOFILTER latitude", g.Latitude)
		if err != nil {
			return nil, err
		}
		radius, err := floatArg("GEOFILTER radius", g.Radius)
		if err != nil {
			return nil, err
		}
		args = append(args, str(keyword.GeoFilter), str(g.Attribute), lon, lat, radius, str(string(g.Unit)))
	}

	args = appendCounted(args, keyword.InKeys, o.InKeys)
	args = appendCounted(args, keyword.InFields, o.InFields)
	if len(o.Return) > 0 {
		args = append(args, str(keyword.Return), count(len(o.Return)))
		args = appendFields(args, o.Return)
	}

	if s := o.Summarize; s != nil {
		args = append(args, str(keyword.Summarize))
		args = appendCounted(args, keyword.Fields, s.Fields)
		if s.Frags != nil {
			v, err := uintArg("FRAGS", *s.Frags)
			if err != nil {
				return nil, err
			}
			args = append(args, str(keyword.Frags), v)
		}
		if s.Len != nil {
			v, err := uintArg("LEN", *s.Len)
			if err != nil {
				return nil, err
			}
			args = append(args, str(keyword.Len), v)
		}
		if s.Separator != nil {
			args = append(args, str(keyword.Separator), str(*s.Separator))
		}
	}
	if h := o.Highlight; h != nil {
		args = append(args, str(keyword.Highlight))
		args = appendCounted(args, keyword.Fields, h.Fields)
		if h.Tags != nil {
			args = append(args, str(keyword.Tags), str(h.Tags.Open), str(h.Tags.Close))
		}
	}

	args = appendInt(args, keyword.Slop, o.Slop)
	args = appendInt(args, keyword.Timeout, o.Timeout)
	args = appendFlag(args, o.InOrder, keyword.InOrder)
	args = appendString(args, keyword.Language, o.Language)
	args = appendString(args, keyword.Expander, o.Expander)
	args = appendString(args, keyword.Scorer, o.Scorer)
	args = appendFlag(args, o.ExplainScore, keyword.ExplainScore)
	if o.Payload != nil {
		args = append(args, str(keyword.Payload), db.Bytes(o.Payload))
	}

	if s := o.SortBy; s != nil {
		args = append(args, str(keyword.SortBy), str(s.Attribute))
		if s.Order != "" {
			args = append(args, str(string(s.Order)))
		}
		args = appendFlag(args, s.WithCount, keyword.WithCount)
	}
	if o.Limit != nil {
		args = append(args, str(keyword.Limit), IntValue(o.Limit.Offset), IntValue(o.Limit.Count))
	}
	args = appendParams(args, o.Params)
	return appendInt(args, keyword.Dialect, o.Dialect), nil
}

func appendFlag(args []Value, set bool, kw string) []Value {
	if set {
		args = append(args, str(kw))
	}
	return args
}

func appendInt(args []Value, kw string, v *int64) []Value {
	if v != nil {
		args = append(args, str(kw), IntValue(*v))
	}
	return args
}

func appendString(args []Value, kw, s string) []Value {
	if s != "" {
		args = append(args, str(kw), str(s))
	}
	return args
}

// appendCounted emits kw N items... when items is non-empty.
func appendCounted(args []Value, kw string, items []string) []Value {
	if len(items) == 0 {
		return args
	}
	args = append(args, str(kw), count(len(items)))
	for _, it := range items {
		args = append(args, str(it))
	}
	return args
}
