package turbofish

import (
	"errors"
	"fmt"
)

// ErrMalformed is matched by every error returned from Parse.
var ErrMalformed = errors.New("malformed turbofish")

// ParseError describes where and why Parse rejected its input.
type ParseError struct {
	Input  string
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("turbofish: %s at offset %d", e.Msg, e.Offset)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformed
}
