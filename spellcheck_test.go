package ftwire

import (
	"errors"
	"math"
	"testing"
)

func TestAppendSpellcheckOptions(t *testing.T) {
	tests := []struct {
		name string
		opts SpellcheckOptions
		want []string
	}{
		{"none", SpellcheckOptions{}, []string{"idx", "q"}},
		{
			"include",
			SpellcheckOptions{Terms: IncludeTerms{Dictionary: "d", Terms: []string{"a", "b"}}},
			[]string{"idx", "q", "TERMS", "INCLUDE", "d", "a", "b"},
		},
		{
			"exclude without terms",
			SpellcheckOptions{Terms: ExcludeTerms{Dictionary: "stop"}},
			[]string{"idx", "q", "TERMS", "EXCLUDE", "stop"},
		},
		{
			"distance and dialect",
			SpellcheckOptions{Distance: Ptr[uint8](2), Dialect: Ptr[int64](2)},
			[]string{"idx", "q", "DISTANCE", "2", "DIALECT", "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := appendSpellcheckOptions([]Value{str("idx"), str("q")}, &tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertTokens(t, args, tt.want)
		})
	}
}

func TestAppendSugAddOptions(t *testing.T) {
	args := appendSugAddOptions(nil, &SugAddOptions{Incr: true, Payload: []byte("meta")})
	assertTokens(t, args, []string{"INCR", "PAYLOAD", "meta"})

	if args := appendSugAddOptions(nil, &SugAddOptions{}); len(args) != 0 {
		t.Errorf("expected no tokens, got %q", tokens(args))
	}
}

func TestAppendSugGetOptions(t *testing.T) {
	args, err := appendSugGetOptions(nil, &SugGetOptions{Fuzzy: true, WithScores: true, WithPayloads: true, Max: Ptr[uint64](5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTokens(t, args, []string{"FUZZY", "WITHSCORES", "WITHPAYLOADS", "MAX", "5"})

	_, err = appendSugGetOptions(nil, &SugGetOptions{Max: Ptr[uint64](math.MaxUint64)})
	if !errors.Is(err, ErrConversion) {
		t.Errorf("expected ErrConversion, got %v", err)
	}
}
