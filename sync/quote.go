package sync

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Quote renders any value as a SQL literal. This is the single escaping
// boundary for the generated scripts: nil becomes NULL, booleans 0/1,
// non-finite floats NULL, and strings are quoted with embedded NUL bytes
// stripped and single quotes doubled.
func Quote(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if x {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "NULL"
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return quoteString(x)
	default:
		return quoteString(fmt.Sprint(x))
	}
}

func quoteString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ReplaceAll(s, "'", "''")
	return "'" + s + "'"
}
