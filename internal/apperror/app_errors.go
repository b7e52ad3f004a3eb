package apperror

import "errors"

var (
	ErrEmptyGameCode      = errors.New("game code is empty")
	ErrMalformedEnvelope  = errors.New("malformed message envelope")
	ErrMalformedPayload   = errors.New("malformed message payload")
	ErrUnexpectedResponse = errors.New("unexpected non-JSON response")
)
