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


package vidqa

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/poiesic/vidqa/ai"
	"github.com/poiesic/vidqa/chunking"
	"github.com/poiesic/vidqa/search"
	"github.com/poiesic/vidqa/youtube"
)

// Config holds everything needed to build an App.
type Config struct {
	// Language is the caption language requested from YouTube.
	Language string `toml:"language"`

	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the maximum number of characters shared by neighbouring chunks.
	ChunkOverlap int `toml:"chunk_overlap"`

	// TopK is the number of chunks given to the model per question.
	TopK int `toml:"top_k"`

	// Timestamps asks the model to cite [HH:MM:SS] positions.
	Timestamps bool `toml:"timestamps"`

	// CacheDir enables the on-disk transcript cache when set.
	CacheDir string `toml:"cache_dir"`

	// MaxConcurrentSetups bounds how many videos are indexed at once.
	MaxConcurrentSetups int `toml:"max_concurrent_setups"`

	// TranscriptRateLimit is the number of requests per second sent to YouTube.
	TranscriptRateLimit float64 `toml:"transcript_rate_limit"`

	AI *ai.Config `toml:"ai"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Language:            "en",
		ChunkSize:           chunking.DefaultChunkSize,
		ChunkOverlap:        chunking.DefaultChunkOverlap,
		TopK:                search.DefaultTopK,
		Timestamps:          true,
		MaxConcurrentSetups: 4,
		TranscriptRateLimit: youtube.DefaultRateLimit,
		AI:                  ai.DefaultConfig(),
	}
}

// LoadConfig reads a TOML file over the defaults. Unknown keys are an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate checks the configuration and normalises the AI hosts.
func (c *Config) Validate() error {
	if c.Language == "" {
		return errors.New("config: language is required")
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("config: chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("config: chunk_overlap must be in [0, %d), got %d", c.ChunkSize, c.ChunkOverlap)
	}
	if c.TopK < 1 {
		return fmt.Errorf("config: top_k must be at least 1, got %d", c.TopK)
	}
	if c.MaxConcurrentSetups < 1 {
		return fmt.Errorf("config: max_concurrent_setups must be at least 1, got %d", c.MaxConcurrentSetups)
	}
	if c.TranscriptRateLimit <= 0 {
		return fmt.Errorf("config: transcript_rate_limit must be positive, got %v", c.TranscriptRateLimit)
	}
	if c.AI == nil {
		return errors.New("config: ai section is required")
	}
	return c.AI.Validate()
}
