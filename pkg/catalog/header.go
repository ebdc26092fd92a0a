package catalog

import (
	"strconv"
	"strings"

	"github.com/cosmoforge/treescan/pkg/config"
	"github.com/cosmoforge/treescan/pkg/errors"
)

// Sentinel is the comment character that opens the column header and every
// tree header line in a catalog.
const Sentinel byte = '#'

// Header is the resolved column header of a catalog file: the ordered
// column names, insertion order matching file column order.
type Header struct {
	Names []string
}

// Columns returns the number of columns the file declares.
func (h *Header) Columns() int {
	return len(h.Names)
}

// countDelims is the delimiter set of the counting pass.
const countDelims = " ,"

// nameDelims is the delimiter set of the naming pass. It additionally
// splits on newline and the sentinel, which discards the leading sentinel
// as an empty token.
const nameDelims = " ,\n#"

// ParseHeader tokenizes one header line into column names.
//
// The line must begin with the sentinel. Two passes run over it: a counting
// pass splitting on space and comma, and a naming pass splitting on space,
// comma, newline, and the sentinel. The counting pass counts every raw
// token, empty ones included, so a header with doubled delimiters is a
// format error when the passes disagree. Each name may carry a trailing
// "(N)" annotation; N must equal the name's zero-based position.
func ParseHeader(line string, limits config.LimitsConfig) (*Header, error) {
	if len(line) == 0 || line[0] != Sentinel {
		got := "empty line"
		if len(line) > 0 {
			got = strconv.QuoteRune(rune(line[0]))
		}
		return nil, errors.Newf(errors.ErrorTypeFormat,
			"catalog header must begin with %q, got %s", string(Sentinel), got)
	}

	totalCols := countTokens(line)

	hdr := &Header{Names: make([]string, 0, totalCols)}
	for _, token := range splitAny(line, nameDelims) {
		if len(token) == 0 {
			continue
		}
		if len(token) >= limits.MaxNameLen {
			return nil, errors.Newf(errors.ErrorTypeFormat,
				"column name %q exceeds maximum length %d", token, limits.MaxNameLen)
		}
		name, err := stripIndexAnnotation(token, len(hdr.Names))
		if err != nil {
			return nil, err
		}
		hdr.Names = append(hdr.Names, name)
	}

	if len(hdr.Names) != totalCols {
		return nil, errors.Newf(errors.ErrorTypeFormat,
			"header token count mismatch: counting pass saw %d columns, naming pass saw %d",
			totalCols, len(hdr.Names))
	}

	return hdr, nil
}

// countTokens counts raw tokens in the counting pass, including empty
// tokens produced by consecutive delimiters.
func countTokens(line string) int {
	return len(splitAny(line, countDelims))
}

// splitAny splits s on every occurrence of any delimiter byte, keeping
// empty fields (strsep semantics).
func splitAny(s, delims string) []string {
	out := make([]string, 0, 32)
	start := 0
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(delims, s[i]) >= 0 {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

// stripIndexAnnotation copies the name up to an opening parenthesis. If the
// annotation is present, the digits between the parentheses must equal the
// column's zero-based position.
func stripIndexAnnotation(token string, position int) (string, error) {
	open := strings.IndexByte(token, '(')
	if open < 0 {
		return token, nil
	}
	name := token[:open]
	closing := strings.IndexByte(token[open:], ')')
	if closing >= 0 {
		idx, err := strconv.Atoi(token[open+1 : open+closing])
		if err != nil {
			return "", errors.Newf(errors.ErrorTypeFormat,
				"column %q: index annotation is not an integer", token)
		}
		if idx != position {
			return "", errors.Newf(errors.ErrorTypeFormat,
				"column %q: index annotation %d does not match position %d", token, idx, position)
		}
	}
	return name, nil
}
