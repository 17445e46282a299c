package runtime

import (
	"math"
	"strconv"
	"strings"
)

// ToNumber coerces a value to a number: missing→NaN, null→0, boolean→0/1,
// strings parsed as decimals, objects→NaN.
func (v *Value) ToNumber() float64 {
	switch v.Type {
	case TypeUndefined:
		return math.NaN()
	case TypeNull:
		return 0
	case TypeBoolean:
		if v.Bool {
			return 1
		}
		return 0
	case TypeNumber:
		return v.Number
	case TypeString:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return 0
		}
		if s == "Infinity" || s == "+Infinity" {
			return math.Inf(1)
		}
		if s == "-Infinity" {
			return math.Inf(-1)
		}
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			if n, err := strconv.ParseUint(s[2:], 16, 64); err == nil {
				return float64(n)
			}
			return math.NaN()
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	default:
		return math.NaN()
	}
}

// ToInt32 coerces through the 32-bit signed integer representation used by
// the bitwise operators: value modulo 2^32, reinterpreted as signed.
func (v *Value) ToInt32() int32 {
	return int32(v.ToUint32())
}

// ToUint32 is the unsigned companion, used by '>>>'.
func (v *Value) ToUint32() uint32 {
	n := v.ToNumber()
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	n = math.Mod(math.Trunc(n), 4294967296)
	if n < 0 {
		n += 4294967296
	}
	return uint32(n)
}

// Equals is the single direct comparison used for ==, ===, !=, !== and
// switch-case matching alike: same tag, same payload, objects by identity.
// There is no abstract-equality coercion ladder.
func Equals(a, b *Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeUndefined, TypeNull:
		return true
	case TypeBoolean:
		return a.Bool == b.Bool
	case TypeNumber:
		if math.IsNaN(a.Number) || math.IsNaN(b.Number) {
			return false
		}
		return a.Number == b.Number
	case TypeString:
		return a.Str == b.Str
	case TypeObject:
		return a.Object == b.Object
	default:
		return false
	}
}

// Compare evaluates a relational operator. Both operands strings compare
// lexicographically; otherwise both coerce to numbers, and any NaN operand
// makes every relation false.
func Compare(op string, a, b *Value) bool {
	if a.Type == TypeString && b.Type == TypeString {
		switch op {
		case "<":
			return a.Str < b.Str
		case ">":
			return a.Str > b.Str
		case "<=":
			return a.Str <= b.Str
		case ">=":
			return a.Str >= b.Str
		}
		return false
	}
	x, y := a.ToNumber(), b.ToNumber()
	if math.IsNaN(x) || math.IsNaN(y) {
		return false
	}
	switch op {
	case "<":
		return x < y
	case ">":
		return x > y
	case "<=":
		return x <= y
	case ">=":
		return x >= y
	}
	return false
}
