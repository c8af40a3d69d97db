package answer

import (
	"math"
	"strconv"
	"strings"
)

// Extract reduces an answer to its numeric contribution. It never fails:
// anything that does not carry a number contributes 0.
func Extract(v Value) float64 {
	switch v.kind {
	case KindAbsent:
		return 0
	case KindNumber:
		return finite(v.num)
	case KindString:
		return ParseEmbedded(v.str)
	case KindList:
		total := 0.0
		for _, it := range v.items {
			// Only flat numbers and strings count inside a multi-select answer.
			switch it.kind {
			case KindNumber, KindString:
				total += Extract(it)
			}
		}
		return finite(total)
	case KindOther:
		return 0
	}
	return 0
}

// ParseEmbedded returns the number encoded after the last hyphen of s,
// so "item3-5" yields 5. No hyphen or an unparsable suffix yields 0.
func ParseEmbedded(s string) float64 {
	idx := strings.LastIndex(s, "-")
	if idx == -1 {
		return 0
	}
	return parseNumber(s[idx+1:])
}

// parseNumber follows the usual form-value coercion: surrounding whitespace
// is ignored, an empty string is 0, and prefixed integers are accepted.
// Non-finite results are 0.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0
			}
			return float64(n)
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

// finite maps NaN and the infinities to 0. Every spelling of infinity and
// any sum that overflows therefore contributes nothing.
func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
