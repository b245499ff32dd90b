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


// Package search builds and queries the similarity index of a transcript.
//
// BuildIndex embeds every chunk in one batch, normalises the vectors and
// stores them in a storage.ChunkRepository. Retriever embeds a question with
// the same embedder and returns the k chunks with the highest cosine
// similarity. Ranking is deterministic: equal scores keep transcript order.
//
// Retriever also satisfies langchaingo's schema.Retriever so the index can be
// plugged into langchaingo chains.
package search
