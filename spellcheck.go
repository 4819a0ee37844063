package ftwire

import (
	"fmt"

	"github.com/kailas-cloud/ftwire/internal/db"
	"github.com/kailas-cloud/ftwire/internal/keyword"
)

// SpellcheckTerms restricts suggestions with a custom dictionary:
// IncludeTerms or ExcludeTerms.
type SpellcheckTerms interface {
	isSpellcheckTerms()
}

// IncludeTerms adds the terms of Dictionary to the suggestion pool.
type IncludeTerms struct {
	Dictionary string
	Terms      []string
}

// ExcludeTerms never suggests the terms of Dictionary.
type ExcludeTerms struct {
	Dictionary string
	Terms      []string
}

func (IncludeTerms) isSpellcheckTerms() {}
func (ExcludeTerms) isSpellcheckTerms() {}

// SpellcheckOptions are the optional FT.SPELLCHECK arguments.
type SpellcheckOptions struct {
	Distance *uint8
	Terms    SpellcheckTerms
	Dialect  *int64
}

func appendSpellcheckOptions(args []Value, o *SpellcheckOptions) ([]Value, error) {
	if o.Distance != nil {
		args = append(args, str(keyword.Distance), IntValue(int64(*o.Distance)))
	}
	switch t := o.Terms.(type) {
	case nil:
	case IncludeTerms:
		args = appendTerms(args, keyword.Include, t.Dictionary, t.Terms)
	case ExcludeTerms:
		args = appendTerms(args, keyword.Exclude, t.Dictionary, t.Terms)
	default:
		return nil, fmt.Errorf("unsupported spellcheck terms %T", o.Terms)
	}
	return appendInt(args, keyword.Dialect, o.Dialect), nil
}

func appendTerms(args []Value, mode, dict string, terms []string) []Value {
	args = append(args, str(keyword.Terms), str(mode), str(dict))
	for _, t := range terms {
		args = append(args, str(t))
	}
	return args
}

// SugAddOptions are the optional FT.SUGADD arguments.
type SugAddOptions struct {
	Incr    bool
	Payload []byte
}

func appendSugAddOptions(args []Value, o *SugAddOptions) []Value {
	args = appendFlag(args, o.Incr, keyword.Incr)
	if o.Payload != nil {
		args = append(args, str(keyword.Payload), db.Bytes(o.Payload))
	}
	return args
}

// SugGetOptions are the optional FT.SUGGET arguments.
type SugGetOptions struct {
	Fuzzy        bool
	WithScores   bool
	WithPayloads bool
	Max          *uint64
}

func appendSugGetOptions(args []Value, o *SugGetOptions) ([]Value, error) {
	args = appendFlag(args, o.Fuzzy, keyword.Fuzzy)
	args = appendFlag(args, o.WithScores, keyword.WithScores)
	args = appendFlag(args, o.WithPayloads, keyword.WithPayloads)
	if o.Max != nil {
		v, err := uintArg("MAX", *o.Max)
		if err != nil {
			return nil, err
		}
		args = append(args, str(keyword.Max), v)
	}
	return args, nil
}
