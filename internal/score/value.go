// Package score extracts a numeric score from the loosely shaped score
// payloads live-score providers return. A payload may be a bare number, a
// numeric string, or an object (possibly nested) holding the number under one
// of several field names.
package score

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// Kind identifies which branch of the Value union is populated.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindObject
	// KindOther covers booleans and anything else that never holds a score.
	KindOther
)

// Field is one key/value pair of an object payload.
type Field struct {
	Key   string
	Value Value
}

// Value is a score payload: null, number, string or an ordered object.
// The zero Value is null.
type Value struct {
	kind   Kind
	num    float64
	str    string
	fields []Field
}

// Null returns an absent payload.
func Null() Value { return Value{} }

// Number wraps a numeric payload.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// String wraps a string payload.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Object wraps an object payload. Field order is preserved.
func Object(fields ...Field) Value { return Value{kind: KindObject, fields: fields} }

// F is shorthand for building object fields.
func F(key string, v Value) Field { return Field{Key: key, Value: v} }

// Kind reports the populated branch.
func (v Value) Kind() Kind { return v.kind }

// Fields returns the object's fields in document order, or nil for non-objects.
func (v Value) Fields() []Field { return v.fields }

// Lookup returns the value stored under key. With duplicate keys the last one
// wins, matching how JSON decoders resolve them.
func (v Value) Lookup(key string) (Value, bool) {
	var (
		found Value
		ok    bool
	)
	for _, f := range v.fields {
		if f.Key == key {
			found, ok = f.Value, true
		}
	}
	return found, ok
}

// UnmarshalJSON decodes any JSON value, keeping object fields in document order.
func (v *Value) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid score payload: %s", truncate(data))
	}
	*v = fromResult(gjson.ParseBytes(data))
	return nil
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.Number:
		return Number(r.Num)
	case gjson.String:
		return String(r.Str)
	case gjson.JSON:
		var fields []Field
		if r.IsArray() {
			for i, elem := range r.Array() {
				fields = append(fields, F(strconv.Itoa(i), fromResult(elem)))
			}
		} else {
			r.ForEach(func(key, value gjson.Result) bool {
				fields = append(fields, F(key.String(), fromResult(value)))
				return true
			})
		}
		return Object(fields...)
	default:
		return Value{kind: KindOther}
	}
}

func truncate(data []byte) string {
	const max = 64
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
