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


// Package chunking splits transcript text into overlapping windows for retrieval.
//
// The Splitter implements a recursive character strategy. Text is cut on
// the coarsest separator it contains. Pieces that are still too long are cut
// again on finer separators, down to single characters. The pieces are then
// merged greedily into chunks of at most ChunkSize characters, and each new
// chunk repeats up to ChunkOverlap characters from the end of the previous one.
//
// Separators stay attached to the piece they terminate, so the pieces tile
// the input exactly. Every chunk is a verbatim substring of the input with
// known byte offsets, which lets the caller map chunks back to playback time.
//
// Sizes are measured in characters (runes), offsets in bytes.
package chunking
