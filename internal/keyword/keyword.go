// Package keyword holds the RediSearch protocol keyword literals.
package keyword

// Result-shaping flags.
const (
	NoContent    = "NOCONTENT"
	Verbatim     = "VERBATIM"
	NoStopwords  = "NOSTOPWORDS"
	WithScores   = "WITHSCORES"
	WithPayloads = "WITHPAYLOADS"
	WithSortKeys = "WITHSORTKEYS"
	ExplainScore = "EXPLAINSCORE"
	InOrder      = "INORDER"
)

// Filters and restrictions.
const (
	Filter    = "FILTER"
	GeoFilter = "GEOFILTER"
	InKeys    = "INKEYS"
	InFields  = "INFIELDS"
	Return    = "RETURN"
	As        = "AS"
)

// Highlighting and summarization.
const (
	Summarize = "SUMMARIZE"
	Highlight = "HIGHLIGHT"
	Fields    = "FIELDS"
	Frags     = "FRAGS"
	Len       = "LEN"
	Separator = "SEPARATOR"
	Tags      = "TAGS"
)

// Query tuning.
const (
	Slop     = "SLOP"
	Timeout  = "TIMEOUT"
	Language = "LANGUAGE"
	Expander = "EXPANDER"
	Scorer   = "SCORER"
	Payload  = "PAYLOAD"
	SortBy   = "SORTBY"
	Max      = "MAX"
	Limit    = "LIMIT"
	Params   = "PARAMS"
	Dialect  = "DIALECT"

	WithCount = "WITHCOUNT"
)

// Aggregation pipeline.
const (
	Load       = "LOAD"
	LoadAll    = "*"
	Apply      = "APPLY"
	GroupBy    = "GROUPBY"
	Reduce     = "REDUCE"
	WithCursor = "WITHCURSOR"
	Count      = "COUNT"
	MaxIdle    = "MAXIDLE"
)

// Dictionaries, suggestions, synonyms, index lifecycle.
const (
	Distance        = "DISTANCE"
	Terms           = "TERMS"
	Include         = "INCLUDE"
	Exclude         = "EXCLUDE"
	Incr            = "INCR"
	Fuzzy           = "FUZZY"
	SkipInitialScan = "SKIPINITIALSCAN"
	DD              = "DD"
)

// Sort directions.
const (
	Asc  = "ASC"
	Desc = "DESC"
)
