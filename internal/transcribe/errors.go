package transcribe

import "errors"

// Sentinel errors for transcription API failures. Provider errors are
// classified into these at the adapter boundary.
var (
	ErrRateLimit     = errors.New("rate limit exceeded")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrTimeout       = errors.New("request timeout")
	ErrAuthFailed    = errors.New("authentication failed")
	ErrBadRequest    = errors.New("bad request")
	ErrEmptyAudio    = errors.New("audio is empty")
)
