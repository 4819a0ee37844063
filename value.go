package ftwire

import (
	"errors"

	"github.com/kailas-cloud/ftwire/internal/db"
)

// Value is a generic protocol value: command replies decode into it.
type Value = db.Value

// Kind tags the variant held by a Value.
type Kind = db.Kind

// Value kinds.
const (
	KindNull    = db.KindNull
	KindString  = db.KindString
	KindBytes   = db.KindBytes
	KindInteger = db.KindInteger
	KindDouble  = db.KindDouble
	KindBoolean = db.KindBoolean
	KindArray   = db.KindArray
	KindMap     = db.KindMap
)

// StringValue wraps text as a Value, e.g. for FTConfigSet.
func StringValue(s string) Value { return db.String(s) }

// IntValue wraps an integer as a Value.
func IntValue(i int64) Value { return db.Int(i) }

// Ptr returns a pointer to v, for optional option fields.
func Ptr[T any](v T) *T { return &v }

func str(s string) Value { return db.String(s) }

func count(n int) Value { return db.Int(int64(n)) }

func uintArg(arg string, u uint64) (Value, error) {
	v, err := db.Uint(u)
	if err != nil {
		return Value{}, named(err, arg)
	}
	return v, nil
}

func floatArg(arg string, f float64) (Value, error) {
	v, err := db.Float(f)
	if err != nil {
		return Value{}, named(err, arg)
	}
	return v, nil
}

func named(err error, arg string) error {
	var ce *db.ConversionError
	if errors.As(err, &ce) {
		return ce.Named(arg)
	}
	return err
}
