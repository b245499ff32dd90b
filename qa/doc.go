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


// Package qa answers questions about a single video.
//
// A Builder turns a video URL into a Pipeline: it extracts the identifier,
// fetches the transcript, splits it into overlapping chunks and indexes them.
// Pipeline.Ask retrieves the chunks closest to a question and has the
// completion model answer from those chunks alone.
//
// Basic usage:
//
//	builder, err := qa.NewBuilder(fetcher, provider)
//	if err != nil {
//		return err
//	}
//	pipeline, err := builder.Setup(ctx, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
//	if err != nil {
//		return err
//	}
//	defer pipeline.Close()
//
//	answer, err := pipeline.Ask(ctx, "What is the song about?")
package qa
