// Package topic implements the topic grammar from spec.md §3/§4.2: dot
// separated terms, concrete terms restricted to [A-Za-z0-9-]+, and two
// subscriber-only wildcard terms, "=" (exactly one term) and "+" (one or
// more consecutive terms).
package topic

import "strings"

const termChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-"

func isLiteralTerm(term string) bool {
	if term == "" {
		return false
	}
	for i := 0; i < len(term); i++ {
		if strings.IndexByte(termChars, term[i]) < 0 {
			return false
		}
	}
	return true
}

// ValidatePublishTopic reports whether t is a concrete topic a publisher may
// use: non-empty dot-separated literal terms, no wildcards.
func ValidatePublishTopic(t string) error {
	return validate(t, false)
}

// ValidateSubscribeTopic reports whether t is a valid subscriber pattern:
// everything ValidatePublishTopic accepts, plus whole terms "=" and "+".
func ValidateSubscribeTopic(t string) error {
	return validate(t, true)
}

func validate(t string, wildcards bool) error {
	if len(t) == 0 {
		return ErrEmpty
	}

	terms := strings.Split(t, ".")
	for _, term := range terms {
		if term == "=" || term == "+" {
			if !wildcards {
				return ErrWildcard
			}
			continue
		}
		if !isLiteralTerm(term) {
			return ErrTerm
		}
	}
	return nil
}

// Sanitize maps pattern into a string safe to embed in a single path
// segment. It need not be reversible (spec.md §4.2) — recovery of the raw
// pattern goes through the "pattern" sidecar file instead (spec.md §4.5/§9).
func Sanitize(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern))
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; {
		case c == '=':
			b.WriteString("_EQ_")
		case c == '+':
			b.WriteString("_PLUS_")
		case c == '.':
			b.WriteString("_")
		case strings.IndexByte(termChars, c) >= 0:
			b.WriteByte(c)
		default:
			b.WriteString("_X_")
		}
	}
	return b.String()
}
