package server

import (
	"errors"
	"net/http"

	"github.com/poiesic/vidqa/core"
	"github.com/poiesic/vidqa/session"
)

// statusFor maps a pipeline or session error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidURL), errors.Is(err, core.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNoVideoLoaded):
		return http.StatusConflict
	case errors.Is(err, core.ErrTranscriptUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrTranscriptFetch),
		errors.Is(err, core.ErrIndexBuild),
		errors.Is(err, core.ErrAnswerGeneration):
		return http.StatusBadGateway
	case errors.Is(err, session.ErrManagerClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
