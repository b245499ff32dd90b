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


package youtube

import (
	"context"
	"fmt"
	"sync"

	"github.com/poiesic/vidqa/core"
)

// StaticFetcher serves transcripts from memory. Unknown videos fail with
// core.ErrTranscriptUnavailable. Intended for tests and offline runs.
type StaticFetcher struct {
	mu          sync.Mutex
	transcripts map[core.VideoID]*core.Transcript
	calls       int

	// Err, when set, is returned by every fetch.
	Err error
}

var _ Fetcher = (*StaticFetcher)(nil)

// NewStaticFetcher creates a fetcher serving transcripts keyed by video ID.
func NewStaticFetcher(transcripts ...*core.Transcript) *StaticFetcher {
	f := &StaticFetcher{transcripts: make(map[core.VideoID]*core.Transcript)}
	for _, t := range transcripts {
		f.transcripts[t.VideoID] = t
	}
	return f
}

// FetchTranscript returns the stored transcript for id.
func (f *StaticFetcher) FetchTranscript(_ context.Context, id core.VideoID, _ string) (*core.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.Err != nil {
		return nil, f.Err
	}
	t, ok := f.transcripts[id]
	if !ok {
		return nil, fmt.Errorf("%w: no captions available for this video", core.ErrTranscriptUnavailable)
	}
	return t, nil
}

// Calls returns the number of fetches served.
func (f *StaticFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
