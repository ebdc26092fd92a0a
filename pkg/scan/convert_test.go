package scan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10.5", 10.5},
		{"-0.25", -0.25},
		{"+3", 3},
		{"1.23e12", 1.23e12},
		{"1.5E-3", 1.5e-3},
		{"123abc", 123},       // trailing garbage ignored
		{"1e", 1},             // exponent marker without digits excluded
		{"1e+", 1},
		{"2.5e3x", 2500},
		{"abc", 0},            // no numeric prefix
		{"", 0},
		{".", 0},
		{"-", 0},
		{".5", 0.5},
		{"-.5", -0.5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseFloat([]byte(tt.in)), "parseFloat(%q)", tt.in)
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"42", 42},
		{"-17", -17},
		{"+8", 8},
		{"123abc", 123},
		{"12.9", 12}, // integer prefix stops at the dot
		{"abc", 0},
		{"", 0},
		{"-", 0},
		{"99999999999999999999", math.MaxInt64},  // clamps like strtol
		{"-99999999999999999999", math.MinInt64},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseInt([]byte(tt.in)), "parseInt(%q)", tt.in)
	}
}

func TestParseUint(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"42", 42},
		{"+7", 7},
		{"123abc", 123},
		{"abc", 0},
		{"", 0},
		{"-1", math.MaxUint64}, // wraps modulo 2^64 like strtoul
		{"-2", math.MaxUint64 - 1},
		{"18446744073709551615", math.MaxUint64},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseUint([]byte(tt.in)), "parseUint(%q)", tt.in)
	}
}

func TestFloatPrefix(t *testing.T) {
	assert.Equal(t, 4, floatPrefix([]byte("10.5")))
	assert.Equal(t, 7, floatPrefix([]byte("1.23e12")))
	assert.Equal(t, 1, floatPrefix([]byte("1e")))
	assert.Equal(t, 3, floatPrefix([]byte("1.5garbage")))
	assert.Equal(t, 0, floatPrefix([]byte("e12")))
	assert.Equal(t, 0, floatPrefix([]byte("+.")))
}
