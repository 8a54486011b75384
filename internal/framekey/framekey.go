package framekey

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParse is returned when a string contains no name=digits token.
var ErrParse = errors.New("malformed frame key")

// tokenRegex matches a single name=digits assignment.
var tokenRegex = regexp.MustCompile(`([A-Za-z0-9]+)=([0-9]+)`)

// Pair is one name=digits assignment as it appears in a key. Raw keeps the
// leading zeros because their count defines the padding width.
type Pair struct {
	Name string
	Raw  string
}

// Width returns the number of digits of Raw.
func (p Pair) Width() int {
	return len(p.Raw)
}

// String renders the pair as name=raw.
func (p Pair) String() string {
	return p.Name + "=" + p.Raw
}

// Parse extracts every name=digits token from raw, in order of appearance.
func Parse(raw string) ([]Pair, error) {
	matches := tokenRegex.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no name=value tokens in %q", ErrParse, raw)
	}

	pairs := make([]Pair, 0, len(matches))
	for _, m := range matches {
		pairs = append(pairs, Pair{Name: m[1], Raw: m[2]})
	}
	return pairs, nil
}

// Format concatenates pairs into a canonical key.
func Format(pairs []Pair) string {
	var b strings.Builder
	for _, p := range pairs {
		b.WriteString(p.String())
	}
	return b.String()
}
