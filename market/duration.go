package market

import (
	"fmt"
	"strconv"
)

// ETAParseError reports a turnaround string that does not match the catalog's
// compact "<integer><unit>" form.
type ETAParseError struct {
	Input string
}

func (e *ETAParseError) Error() string {
	return fmt.Sprintf("unparsable ETA %q (expected <integer><unit> with unit s, m, h or d)", e.Input)
}

// ParseETA parses a compact duration string ("30s", "45m", "2h", "1d") into
// milliseconds. Callers in scoring paths treat a parse failure as zero for
// ranking parity, but must surface the error rather than swallow it: a zero
// ETA biases speed-based scoring toward the malformed entry.
func ParseETA(s string) (int64, error) {
	if len(s) < 2 {
		return 0, &ETAParseError{Input: s}
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n < 0 {
		return 0, &ETAParseError{Input: s}
	}
	switch s[len(s)-1] {
	case 's':
		return int64(n) * 1000, nil
	case 'm':
		return int64(n) * 60_000, nil
	case 'h':
		return int64(n) * 3_600_000, nil
	case 'd':
		return int64(n) * 86_400_000, nil
	default:
		return 0, &ETAParseError{Input: s}
	}
}
