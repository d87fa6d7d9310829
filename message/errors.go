package message

import "errors"

var (
	ErrTag       = errors.New("message: invalid header variant tag")
	ErrDupHeader = errors.New("message: duplicate header key")
	ErrHeaderVal = errors.New("message: header value is not a permitted scalar")
)
