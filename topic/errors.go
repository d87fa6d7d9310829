package topic

import "errors"

var (
	ErrEmpty    = errors.New("topic: empty")
	ErrTerm     = errors.New("topic: invalid term")
	ErrWildcard = errors.New("topic: wildcard not allowed here")
)
