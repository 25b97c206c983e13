package pipeline

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthenticated     = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPodcastNotFound     = errors.New("podcast not found")
	ErrUpstream            = errors.New("upstream failure")
	ErrPersistence         = errors.New("failed to save generated content")

	ErrMissingPodcastID = fmt.Errorf("%w: podcastId is required", ErrInvalidInput)
	ErrMalformedLocator = fmt.Errorf("%w: missing file path", ErrInvalidInput)

	ErrStorage       = fmt.Errorf("%w: storage", ErrUpstream)
	ErrTranscription = fmt.Errorf("%w: transcription", ErrUpstream)
	ErrGeneration    = fmt.Errorf("%w: generation", ErrUpstream)
)

// HTTPStatus maps an error from the pipeline to a response status.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrPodcastNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text sent to clients. Upstream details stay in logs.
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "Unauthorized"
	case errors.Is(err, ErrForbidden):
		return "Forbidden"
	case errors.Is(err, ErrMissingPodcastID):
		return "podcastId is required"
	case errors.Is(err, ErrMalformedLocator):
		return "Missing file path. Re-upload the podcast."
	case errors.Is(err, ErrInvalidInput):
		return "Invalid request"
	case errors.Is(err, ErrInsufficientBalance):
		return "No tokens remaining. Upgrade your plan to continue."
	case errors.Is(err, ErrPodcastNotFound):
		return "Podcast not found"
	case errors.Is(err, ErrStorage):
		return "Failed to fetch audio file"
	case errors.Is(err, ErrTranscription):
		return "Transcription failed"
	case errors.Is(err, ErrGeneration):
		return "Generation failed"
	default:
		return "Internal server error"
	}
}
