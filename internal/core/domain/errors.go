package domain

import "errors"

var (
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrEmptyContent     = errors.New("email content is empty")
	ErrModelUnavailable = errors.New("ai model is unavailable")
	ErrExternalModel    = errors.New("ai model call failed")
)

func IsRateLimitedError(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
