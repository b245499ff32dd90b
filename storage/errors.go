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


package storage

import "errors"

var (
	// ErrNotFound is returned when nothing is stored under a key.
	ErrNotFound = errors.New("not found in storage")

	// ErrStorageClosed is returned by repositories after Close.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrInvalidQuery is returned for a similarity query with no vector or a
	// non-positive limit.
	ErrInvalidQuery = errors.New("invalid similarity query")

	// ErrSerializationFailed wraps encoding and decoding failures of stored values.
	ErrSerializationFailed = errors.New("stored value could not be decoded")
)
