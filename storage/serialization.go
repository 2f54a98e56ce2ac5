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

import (
	"fmt"

	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// float32Size is the encoded size of one vector component.
const float32Size = 4

// MarshalVector serializes an embedding to bytes: a varint length followed
// by fixed-width components.
func MarshalVector(vector []float32) []byte {
	size := varint.PositiveInt.Size(len(vector))
	for _, f := range vector {
		size += raw.Float32.Size(f)
	}
	buf := make([]byte, size)
	n := varint.PositiveInt.Marshal(len(vector), buf)
	for _, f := range vector {
		n += raw.Float32.Marshal(f, buf[n:])
	}
	return buf
}

// UnmarshalVector deserializes an embedding written by MarshalVector.
func UnmarshalVector(data []byte) ([]float32, error) {
	length, n, err := varint.PositiveInt.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptVector, err)
	}
	if length < 0 || length > (len(data)-n)/float32Size {
		return nil, fmt.Errorf("%w: %d components, %d bytes", ErrShortVector, length, len(data)-n)
	}

	vector := make([]float32, length)
	for i := range vector {
		f, m, err := raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptVector, err)
		}
		vector[i] = f
		n += m
	}
	return vector, nil
}
