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


// Package youtube resolves video links to identifiers and downloads caption
// transcripts from YouTube.
//
// ExtractVideoID understands the common link shapes (watch pages, youtu.be
// short links, embeds and shorts). Client talks to the public player API to
// locate a caption track and downloads its timed text. CachedFetcher wraps any
// Fetcher with a persistent transcript cache.
package youtube
