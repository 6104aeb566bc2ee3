package domain

import "github.com/pkg/errors"

var (
	ErrMissingAuth     = errors.New("No bearer token found")
	ErrSessionNotFound = errors.New("Conversation not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUpstream        = errors.New("upstream request failed")
	ErrModelInvocation = errors.New("model invocation failed")
	ErrMalformedReply  = errors.New("malformed model reply")
)
