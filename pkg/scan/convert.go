package scan

import (
	"strconv"
)

// Token conversion mirrors strtol/strtod: the longest leading substring
// that forms a number is converted and anything after it is ignored, so a
// token that is pure garbage quietly becomes zero and out-of-range values
// clamp instead of failing. Catalog producers occasionally append
// annotations to numeric fields; strictness here would make whole files
// unreadable over one cosmetic token.

// parseFloat converts the leading float prefix of tok.
func parseFloat(tok []byte) float64 {
	p := floatPrefix(tok)
	if p == 0 {
		return 0
	}
	v, _ := strconv.ParseFloat(string(tok[:p]), 64)
	return v
}

// parseInt converts the leading base-10 integer prefix of tok.
func parseInt(tok []byte) int64 {
	p := intPrefix(tok)
	if p == 0 {
		return 0
	}
	// On range overflow ParseInt clamps to the int64 boundary, matching strtol.
	v, _ := strconv.ParseInt(string(tok[:p]), 10, 64)
	return v
}

// parseUint converts the leading base-10 integer prefix of tok. A leading
// minus sign wraps modulo 2^64, as strtoul does.
func parseUint(tok []byte) uint64 {
	p := intPrefix(tok)
	if p == 0 {
		return 0
	}
	s := tok[:p]
	if s[0] == '-' {
		v, _ := strconv.ParseInt(string(s), 10, 64)
		return uint64(v)
	}
	if s[0] == '+' {
		s = s[1:]
	}
	v, _ := strconv.ParseUint(string(s), 10, 64)
	return v
}

// intPrefix returns the length of the leading [+-]?digits prefix, or 0 if
// tok has no leading integer.
func intPrefix(tok []byte) int {
	i := 0
	if i < len(tok) && (tok[i] == '+' || tok[i] == '-') {
		i++
	}
	start := i
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	if i == start {
		return 0
	}
	return i
}

// floatPrefix returns the length of the leading floating-point prefix:
// [+-]? digits [. digits] [ (e|E) [+-] digits ]. A bare "." or a sign with
// no digits yields 0; an exponent marker without digits is excluded from
// the prefix.
func floatPrefix(tok []byte) int {
	i := 0
	if i < len(tok) && (tok[i] == '+' || tok[i] == '-') {
		i++
	}
	digits := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
		digits++
	}
	if i < len(tok) && tok[i] == '.' {
		i++
		for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	end := i
	if i < len(tok) && (tok[i] == 'e' || tok[i] == 'E') {
		j := i + 1
		if j < len(tok) && (tok[j] == '+' || tok[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(tok) && tok[j] >= '0' && tok[j] <= '9' {
			j++
			expDigits++
		}
		if expDigits > 0 {
			end = j
		}
	}
	return end
}
