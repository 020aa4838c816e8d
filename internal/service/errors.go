package service

import "errors"

// ValidationError marks missing or malformed caller input. Handlers turn it
// into a 400 with the message verbatim; everything else surfaces as a
// generic upstream failure.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// ErrInvalidTransition means the requested funnel move does not exist from
// the session's current stage. The funnel only branches at accept/decline.
var ErrInvalidTransition = errors.New("no such transition from current funnel stage")
