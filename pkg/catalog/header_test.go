package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmoforge/treescan/pkg/config"
	"github.com/cosmoforge/treescan/pkg/errors"
)

func testLimits() config.LimitsConfig {
	return config.Default().Limits
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		want  []string
		isErr bool
	}{
		{
			name: "annotated consistent-trees header",
			line: "#scale(0) id(1) desc_scale(2) desc_id(3) num_prog(4)",
			want: []string{"scale", "id", "desc_scale", "desc_id", "num_prog"},
		},
		{
			name: "unannotated names",
			line: "#mvir x y",
			want: []string{"mvir", "x", "y"},
		},
		{
			name: "comma delimited",
			line: "#a(0),b(1),c(2)",
			want: []string{"a", "b", "c"},
		},
		{
			name: "trailing newline",
			line: "#a(0) b(1)\n",
			want: []string{"a", "b"},
		},
		{
			name: "annotation without closing paren is kept unchecked",
			line: "#a(0) b(1",
			want: []string{"a", "b"},
		},
		{
			name:  "missing sentinel",
			line:  "scale(0) id(1)",
			isErr: true,
		},
		{
			name:  "empty line",
			line:  "",
			isErr: true,
		},
		{
			name:  "annotation index mismatch",
			line:  "#a(1) b(0)",
			isErr: true,
		},
		{
			name:  "annotation not an integer",
			line:  "#a(x) b(1)",
			isErr: true,
		},
		{
			name:  "doubled delimiter makes the passes disagree",
			line:  "#a  b",
			isErr: true,
		},
		{
			name:  "sentinel inside a token makes the passes disagree",
			line:  "#a#b",
			isErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hdr, err := ParseHeader(tt.line, testLimits())
			if tt.isErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrorTypeFormat), "want a format error, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, hdr.Names)
			assert.Equal(t, len(tt.want), hdr.Columns())
		})
	}
}

func TestParseHeaderNameTooLong(t *testing.T) {
	limits := testLimits()
	long := strings.Repeat("m", limits.MaxNameLen)

	_, err := ParseHeader("#scale(0) "+long+"(1)", limits)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFormat))
}

func TestSplitAnyKeepsEmptyFields(t *testing.T) {
	assert.Equal(t, []string{"a", "", "b"}, splitAny("a,,b", ","))
	assert.Equal(t, []string{"", "a", "b", ""}, splitAny("#a b\n", " \n#"))
	assert.Equal(t, []string{"only"}, splitAny("only", " ,"))
}
