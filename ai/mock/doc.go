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


// Package mock provides test doubles for the ai package interfaces.
//
// # Usage
//
//	embedder := mock.NewKeywordEmbedder()
//	completer := mock.NewExtractiveCompleter("I couldn't find this information in the video")
//	provider := mock.NewMockProviderWithServices(embedder, completer)
//
//	// Inject failures
//	completer.CompleteFunc = func(ctx context.Context, prompt string, t float64) (string, error) {
//	    return "", errors.New("model offline")
//	}
//
//	// Check calls
//	count := completer.CallCount()
//	prompt := completer.LastPrompt()
//
// # Default Behavior
//
//   - MockEmbedder: deterministic vectors from the text hash
//   - KeywordEmbedder: hashed bag-of-keywords vectors, so shared words raise similarity
//   - MockCompleter: a canned answer
//   - ExtractiveCompleter: quotes the best matching context sentence or a fallback
//   - MockProvider: aggregates a mock embedder and completer
package mock
