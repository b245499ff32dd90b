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


// Package storage provides the storage abstraction layer for vidqa.
//
// Two repositories are defined. ChunkRepository is the similarity index built
// for a single video: it is filled once after chunking and embedding, then
// queried for every question. TranscriptRepository is an optional cache of
// fetched transcripts, keyed by video and language, so repeated sessions on
// the same video skip the network.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the interface:
//
//	index, err := badger.NewMemoryIndex()          // storage.ChunkRepository
//	cache, err := badger.OpenTranscriptCache(dir)  // storage.TranscriptRepository
//
// Constructors that attach to a caller-owned backend may return concrete types.
//
// # Serialization
//
// Values are encoded with MUS (github.com/mus-format/mus-go). ChunkMUS and
// TranscriptMUS are the serializers; MarshalChunk and friends wrap them.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
