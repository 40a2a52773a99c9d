package domain

import "errors"

// Failure kinds shared by the gate and the action handlers. None of them are retried.
var (
	ErrMissingCredential         = errors.New("missing credential")
	ErrInvalidLocalRequest       = errors.New("invalid local request")
	ErrUpstreamUnreachable       = errors.New("upstream unreachable")
	ErrUpstreamMalformedResponse = errors.New("upstream malformed response")
	ErrUpstreamRejected          = errors.New("upstream rejected")
	ErrSessionInvalid            = errors.New("session invalid")
)

// ErrorKind returns the stable wire name of a failure, used in failure envelopes and metrics
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, ErrInvalidLocalRequest):
		return "invalid_request"
	case errors.Is(err, ErrUpstreamUnreachable):
		return "upstream_unreachable"
	case errors.Is(err, ErrUpstreamMalformedResponse):
		return "upstream_malformed_response"
	case errors.Is(err, ErrUpstreamRejected):
		return "upstream_rejected"
	case errors.Is(err, ErrSessionInvalid):
		return "session_invalid"
	default:
		return "internal"
	}
}
