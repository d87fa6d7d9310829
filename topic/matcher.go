package topic

import (
	"regexp"
	"strings"
)

// Matcher is a compiled subscriber pattern: a predicate over concrete
// topics (spec.md §4.2).
type Matcher struct {
	Pattern string // raw pattern, as given to Compile
	re      *regexp.Regexp
}

// Compile validates pattern and builds its Matcher.
//
// Each term translates to a regexp fragment — "=" to "[^.]+", "+" to
// "[^.]+(?:\.[^.]+)*", a literal term to itself — joined with escaped
// dots and anchored at both ends, exactly as spec.md §4.2 recommends.
func Compile(pattern string) (*Matcher, error) {
	if err := ValidateSubscribeTopic(pattern); err != nil {
		return nil, err
	}

	terms := strings.Split(pattern, ".")
	frags := make([]string, len(terms))
	for i, term := range terms {
		switch term {
		case "=":
			frags[i] = `[^.]+`
		case "+":
			frags[i] = `[^.]+(?:\.[^.]+)*`
		default:
			frags[i] = regexp.QuoteMeta(term)
		}
	}

	re, err := regexp.Compile("^" + strings.Join(frags, `\.`) + "$")
	if err != nil {
		return nil, err
	}
	return &Matcher{Pattern: pattern, re: re}, nil
}

// Match reports whether the concrete topic satisfies the pattern.
func (m *Matcher) Match(concreteTopic string) bool {
	return m.re.MatchString(concreteTopic)
}

// String returns the raw pattern.
func (m *Matcher) String() string {
	return m.Pattern
}
