// Package answer models survey answer values and reduces them to numeric contributions.
package answer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind tags the shape held by a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindNumber
	KindString
	KindList
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	default:
		return "other"
	}
}

// Value is a single answer: absent, a number, a string, a list of values,
// or some other shape (boolean, object) that carries no score.
// The zero Value is absent.
type Value struct {
	kind  Kind
	num   float64
	str   string
	items []Value
	raw   any
}

// Absent returns the empty value.
func Absent() Value { return Value{} }

// Number wraps a numeric answer. NaN and the infinities are stored as 0.
func Number(n float64) Value { return Value{kind: KindNumber, num: finite(n)} }

// String wraps a text answer such as "item3-5".
func String(s string) Value { return Value{kind: KindString, str: s} }

// List wraps a multi-select answer.
func List(items ...Value) Value {
	return Value{kind: KindList, items: append([]Value(nil), items...)}
}

// Other wraps a value of an unscored shape. The raw value is kept for display.
func Other(raw any) Value { return Value{kind: KindOther, raw: raw} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Num returns the number held by a KindNumber value.
func (v Value) Num() float64 { return v.num }

// Str returns the text held by a KindString value.
func (v Value) Str() string { return v.str }

// Items returns the elements of a KindList value.
func (v Value) Items() []Value { return v.items }

// IsEmpty reports whether v counts as unanswered: absent, an empty string or an empty list.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindAbsent:
		return true
	case KindString:
		return v.str == ""
	case KindList:
		return len(v.items) == 0
	case KindOther:
		return v.raw == nil
	}
	return false
}

// Equal reports whether two values hold the same variant and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindAbsent:
		return true
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	case KindList:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	default:
		return fmt.Sprint(v.raw) == fmt.Sprint(o.raw)
	}
}

// String renders v for reports.
func (v Value) String() string {
	switch v.kind {
	case KindAbsent:
		return ""
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	case KindList:
		parts := make([]string, 0, len(v.items))
		for _, it := range v.items {
			parts = append(parts, it.String())
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v.raw)
	}
}

// FromAny converts a decoded JSON or YAML value into a Value.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Absent()
	case Value:
		return t
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}
		return Number(f)
	case string:
		return String(t)
	case []string:
		items := make([]Value, 0, len(t))
		for _, s := range t {
			items = append(items, String(s))
		}
		return Value{kind: KindList, items: items}
	case []any:
		items := make([]Value, 0, len(t))
		for _, it := range t {
			items = append(items, FromAny(it))
		}
		return Value{kind: KindList, items: items}
	default:
		return Other(x)
	}
}

// Native returns v as a plain Go value suitable for encoding.
func (v Value) Native() any {
	switch v.kind {
	case KindAbsent:
		return nil
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindList:
		out := make([]any, 0, len(v.items))
		for _, it := range v.items {
			out = append(out, it.Native())
		}
		return out
	default:
		return v.raw
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Native())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var x any
	if err := json.Unmarshal(data, &x); err != nil {
		return fmt.Errorf("answer: decode json value: %w", err)
	}
	*v = FromAny(x)
	return nil
}

func (v Value) MarshalYAML() (interface{}, error) {
	return v.Native(), nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var x any
	if err := node.Decode(&x); err != nil {
		return fmt.Errorf("answer: decode yaml value: %w", err)
	}
	*v = FromAny(x)
	return nil
}
