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
	// ErrCacheClosed is returned by every cache operation after Close.
	ErrCacheClosed = errors.New("embedding cache is closed")

	// ErrCorruptVector means a stored vector could not be decoded.
	ErrCorruptVector = errors.New("corrupt cached vector")

	// ErrShortVector means a stored vector declares more components than it holds.
	ErrShortVector = errors.New("cached vector shorter than its declared length")
)
