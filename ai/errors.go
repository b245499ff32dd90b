package ai

import "errors"

// ErrEmptyResponse is returned when a model answers with no choices.
var ErrEmptyResponse = errors.New("empty response from model")
