package db

import (
	"errors"
	"fmt"
)

// Sentinel errors for search operations.
var (
	ErrIndexNotFound  = errors.New("db: index not found")
	ErrCursorNotFound = errors.New("db: cursor not found")
	ErrNotImplemented = errors.New("db: not implemented")
	ErrConversion     = errors.New("db: argument conversion failed")
)

// Op constants are the wire names of the RediSearch commands.
const (
	OpList        = "FT._LIST"
	OpAggregate   = "FT.AGGREGATE"
	OpSearch      = "FT.SEARCH"
	OpCreate      = "FT.CREATE"
	OpAlter       = "FT.ALTER"
	OpAliasAdd    = "FT.ALIASADD"
	OpAliasDel    = "FT.ALIASDEL"
	OpAliasUpdate = "FT.ALIASUPDATE"
	OpConfigGet   = "FT.CONFIG GET"
	OpConfigSet   = "FT.CONFIG SET"
	OpCursorDel   = "FT.CURSOR DEL"
	OpCursorRead  = "FT.CURSOR READ"
	OpDictAdd     = "FT.DICTADD"
	OpDictDel     = "FT.DICTDEL"
	OpDictDump    = "FT.DICTDUMP"
	OpDropIndex   = "FT.DROPINDEX"
	OpExplain     = "FT.EXPLAIN"
	OpInfo        = "FT.INFO"
	OpSpellCheck  = "FT.SPELLCHECK"
	OpSugAdd      = "FT.SUGADD"
	OpSugDel      = "FT.SUGDEL"
	OpSugGet      = "FT.SUGGET"
	OpSugLen      = "FT.SUGLEN"
	OpSynDump     = "FT.SYNDUMP"
	OpSynUpdate   = "FT.SYNUPDATE"
	OpTagVals     = "FT.TAGVALS"
	OpPing        = "PING"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// ConversionError reports an argument that has no wire representation.
type ConversionError struct {
	Arg    string
	Value  string
	Reason string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s=%s: %s", e.Arg, e.Value, e.Reason)
}

// Is lets errors.Is match ErrConversion.
func (e *ConversionError) Is(target error) bool { return target == ErrConversion }

// Named returns a copy of the error attributed to arg.
func (e *ConversionError) Named(arg string) *ConversionError {
	c := *e
	c.Arg = arg
	return &c
}

// MapServerError translates well-known server replies into sentinels.
func MapServerError(op string, err error) error {
	msg := err.Error()
	switch {
	case ContainsIgnoreCase(msg, "unknown index name"), ContainsIgnoreCase(msg, "no such index"):
		return &Error{Op: op, Err: fmt.Errorf("%w: %s", ErrIndexNotFound, msg)}
	case ContainsIgnoreCase(msg, "cursor not found"):
		return &Error{Op: op, Err: fmt.Errorf("%w: %s", ErrCursorNotFound, msg)}
	}
	return &Error{Op: op, Err: err}
}

// ContainsIgnoreCase reports whether substr is within s, ASCII case-insensitively.
func ContainsIgnoreCase(s, substr string) bool {
	ls := len(s)
	lsub := len(substr)
	if lsub > ls {
		return false
	}
	for i := 0; i <= ls-lsub; i++ {
		match := true
		for j := 0; j < lsub; j++ {
			sc := s[i+j]
			tc := substr[j]
			if sc >= 'A' && sc <= 'Z' {
				sc += 'a' - 'A'
			}
			if tc >= 'A' && tc <= 'Z' {
				tc += 'a' - 'A'
			}
			if sc != tc {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
