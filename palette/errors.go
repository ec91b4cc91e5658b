package palette

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoMatchFound is matched by every *NoMatchFoundError.
var ErrNoMatchFound = errors.New("no match found")

// NoMatchFoundError reports an empty candidate set along with the filters
// that produced it.
type NoMatchFoundError struct {
	Makers   []string
	Types    []string
	Finishes []string
	// Skipped counts candidates dropped because their color was malformed.
	Skipped int
}

func (e *NoMatchFoundError) Error() string {
	var b strings.Builder
	b.WriteString("no match found")
	var filters []string
	if len(e.Makers) > 0 {
		filters = append(filters, "maker="+strings.Join(e.Makers, ","))
	}
	if len(e.Types) > 0 {
		filters = append(filters, "type="+strings.Join(e.Types, ","))
	}
	if len(e.Finishes) > 0 {
		filters = append(filters, "finish="+strings.Join(e.Finishes, ","))
	}
	if len(filters) > 0 {
		fmt.Fprintf(&b, " for %s", strings.Join(filters, " "))
	}
	if e.Skipped > 0 {
		fmt.Fprintf(&b, " (%d candidates skipped as invalid)", e.Skipped)
	}
	return b.String()
}

func (e *NoMatchFoundError) Is(target error) bool { return target == ErrNoMatchFound }
