// Package value implements the dynamically-typed value domain of the
// host-expression language embedded in semantic actions and predicates
// (spec §4.1.8, §4.3.9): null | bool | int | float | str | list[T] |
// dict[str, T] | any.
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Type is the runtime tag of a Value.
type Type int

const (
	Null Type = iota
	Bool
	Int
	Float
	Str
	List
	Dict
)

func (t Type) String() string {
	switch t {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Str:
		return "str"
	case List:
		return "list"
	case Dict:
		return "dict"
	default:
		return "unknown"
	}
}

// Value is a single immutable host-expression value. Only the fields
// relevant to t are meaningful, following the teacher's single-struct,
// tagged-union convention (tunascript/syntax/value.go's TSValue).
type Value struct {
	t    Type
	b    bool
	i    int
	f    float64
	s    string
	list []Value
	dict map[string]Value
	// keys preserves insertion order for Dict, since Go maps are unordered
	// and keys()/values()/pairs() must be deterministic for a given build.
	keys []string
}

func NewNull() Value           { return Value{t: Null} }
func NewBool(b bool) Value     { return Value{t: Bool, b: b} }
func NewInt(i int) Value       { return Value{t: Int, i: i} }
func NewFloat(f float64) Value { return Value{t: Float, f: f} }
func NewStr(s string) Value    { return Value{t: Str, s: s} }

func NewList(items []Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{t: List, list: cp}
}

func NewDict(m map[string]Value, order []string) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	keys := order
	if keys == nil {
		keys = make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}
	return Value{t: Dict, dict: cp, keys: keys}
}

func (v Value) Type() Type     { return v.t }
func (v Value) IsNull() bool   { return v.t == Null }
func (v Value) IsNumber() bool { return v.t == Int || v.t == Float }

// Bool coerces v to a boolean per the lattice's truthiness rule: null and
// zero-valued scalars are false, non-empty strings/lists/dicts are true.
func (v Value) Bool() bool {
	switch v.t {
	case Null:
		return false
	case Bool:
		return v.b
	case Int:
		return v.i != 0
	case Float:
		return v.f != 0
	case Str:
		return len(v.s) > 0
	case List:
		return len(v.list) > 0
	case Dict:
		return len(v.dict) > 0
	default:
		return false
	}
}

func (v Value) Int() int {
	switch v.t {
	case Int:
		return v.i
	case Float:
		return int(math.Round(v.f))
	case Bool:
		if v.b {
			return 1
		}
		return 0
	case Str:
		n, err := strconv.Atoi(strings.TrimSpace(v.s))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func (v Value) Float() float64 {
	switch v.t {
	case Float:
		return v.f
	case Int:
		return float64(v.i)
	case Bool:
		if v.b {
			return 1.0
		}
		return 0.0
	case Str:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0.0
		}
		return f
	default:
		return 0.0
	}
}

// String renders v the way it would appear if substituted into output text.
func (v Value) String() string {
	switch v.t {
	case Null:
		return ""
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case Int:
		return strconv.Itoa(v.i)
	case Float:
		s := strconv.FormatFloat(v.f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case Str:
		return v.s
	case List:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Dict:
		parts := make([]string, 0, len(v.keys))
		for _, k := range v.keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, v.dict[k].String()))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return ""
	}
}

// Elements returns the elements if v is a List, else nil.
func (v Value) Elements() []Value {
	if v.t != List {
		return nil
	}
	cp := make([]Value, len(v.list))
	copy(cp, v.list)
	return cp
}

// Keys returns the dict's keys in stable order, or nil if v is not a Dict.
func (v Value) Keys() []string {
	if v.t != Dict {
		return nil
	}
	cp := make([]string, len(v.keys))
	copy(cp, v.keys)
	return cp
}

// Get looks up key in v. ok is false if v is not a Dict or key is absent.
func (v Value) Get(key string) (val Value, ok bool) {
	if v.t != Dict {
		return Value{}, false
	}
	val, ok = v.dict[key]
	return val, ok
}

// Index returns the i'th element of a List. ok is false if v is not a List
// or i is out of range.
func (v Value) Index(i int) (val Value, ok bool) {
	if v.t != List || i < 0 || i >= len(v.list) {
		return Value{}, false
	}
	return v.list[i], true
}

// Equal implements structural/coercive equality per spec §4.1.8's evaluator
// rules: same type compares natively, cross-type numeric compares as float,
// anything else falls back to String() comparison.
func (v Value) Equal(o Value) bool {
	if v.t == o.t {
		switch v.t {
		case Null:
			return true
		case Bool:
			return v.b == o.b
		case Int:
			return v.i == o.i
		case Float:
			return v.f == o.f
		case Str:
			return v.s == o.s
		case List:
			if len(v.list) != len(o.list) {
				return false
			}
			for i := range v.list {
				if !v.list[i].Equal(o.list[i]) {
					return false
				}
			}
			return true
		case Dict:
			if len(v.dict) != len(o.dict) {
				return false
			}
			for k, vv := range v.dict {
				ov, ok := o.dict[k]
				if !ok || !vv.Equal(ov) {
					return false
				}
			}
			return true
		}
	}
	if v.IsNumber() && o.IsNumber() {
		return v.Float() == o.Float()
	}
	return v.String() == o.String()
}

// Add implements the host expression `+` operator (spec §4.1.8): numeric
// promotion when either operand is float, string concatenation when both
// operands are strings, and a raised error for anything else.
func Add(a, b Value) (Value, error) {
	if a.t == Str && b.t == Str {
		return NewStr(a.s + b.s), nil
	}
	if a.IsNumber() && b.IsNumber() {
		if a.t == Float || b.t == Float {
			return NewFloat(a.Float() + b.Float()), nil
		}
		return NewInt(a.i + b.i), nil
	}
	return Value{}, fmt.Errorf("cannot add %s and %s", a.t, b.t)
}

// Sub implements the host expression binary `-` operator; both operands must
// be numeric, following the same float-promotion rule as Add.
func Sub(a, b Value) (Value, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return Value{}, fmt.Errorf("cannot subtract %s from %s", b.t, a.t)
	}
	if a.t == Float || b.t == Float {
		return NewFloat(a.Float() - b.Float()), nil
	}
	return NewInt(a.i - b.i), nil
}

// Neg implements unary minus.
func Neg(a Value) (Value, error) {
	if !a.IsNumber() {
		return Value{}, fmt.Errorf("cannot negate %s", a.t)
	}
	if a.t == Float {
		return NewFloat(-a.f), nil
	}
	return NewInt(-a.i), nil
}

// Not implements the host expression `!` operator: coerce to bool and negate.
func Not(a Value) Value {
	return NewBool(!a.Bool())
}
