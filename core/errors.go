// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "errors"

// Pipeline errors. Every failure surfaced by setup or ask wraps exactly one
// of these so callers can branch with errors.Is.
var (
	// ErrInvalidURL indicates no video identifier could be extracted from the input.
	ErrInvalidURL = errors.New("invalid YouTube URL")

	// ErrTranscriptUnavailable indicates the video has no captions in the requested language.
	ErrTranscriptUnavailable = errors.New("transcript unavailable")

	// ErrTranscriptFetch indicates the transcript service could not be reached or returned garbage.
	ErrTranscriptFetch = errors.New("error getting transcript")

	// ErrIndexBuild indicates embedding or indexing the transcript failed.
	ErrIndexBuild = errors.New("error building index")

	// ErrAnswerGeneration indicates retrieval or the language model call failed.
	ErrAnswerGeneration = errors.New("error generating answer")
)

// Domain validation errors
var (
	// ErrInvalidVideoID indicates a VideoID is not 11 characters of [0-9A-Za-z_-].
	ErrInvalidVideoID = errors.New("invalid video id")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidMessage indicates a ChatMessage failed validation.
	ErrInvalidMessage = errors.New("invalid chat message")

	// ErrEmptyContent indicates a text field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidRole indicates an unknown Role value.
	ErrInvalidRole = errors.New("invalid role")

	// ErrEmptyQuestion indicates a blank question was asked.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrLengthLimit indicates a decoded collection claims more elements
	// than any stored record can hold.
	ErrLengthLimit = errors.New("length exceeds limit")
)
