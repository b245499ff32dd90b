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


package badger

import (
	"context"

	"github.com/poiesic/vidqa/core"
	"github.com/poiesic/vidqa/storage"
)

// NewPopulatedMemoryIndex creates an in-memory index holding chunks for testing.
// Caller must close the index when done.
func NewPopulatedMemoryIndex(chunks ...*core.Chunk) (storage.ChunkRepository, error) {
	index, err := NewMemoryIndex()
	if err != nil {
		return nil, err
	}
	if err := index.AddChunks(context.Background(), chunks...); err != nil {
		index.Close()
		return nil, err
	}
	return index, nil
}
