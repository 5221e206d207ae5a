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
	"encoding/binary"
	"fmt"
	"math"

	"github.com/bytedance/sonic"
	"github.com/poiesic/saarthi/core"
)

// MarshalMeta serializes IndexMeta to JSON.
func MarshalMeta(meta *IndexMeta) ([]byte, error) {
	data, err := sonic.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalMeta deserializes IndexMeta from JSON.
func UnmarshalMeta(data []byte) (*IndexMeta, error) {
	var meta IndexMeta
	if err := sonic.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &meta, nil
}

// MarshalEntry serializes an IndexEntry.
//
// Layout: uint32 big-endian length of the record JSON, the record JSON,
// then the vector as little-endian float32 values.
func MarshalEntry(entry *IndexEntry) ([]byte, error) {
	record, err := sonic.Marshal(&entry.Record)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	buf := make([]byte, 4+len(record)+4*len(entry.Vector))
	binary.BigEndian.PutUint32(buf, uint32(len(record)))
	offset := 4 + copy(buf[4:], record)
	for _, v := range entry.Vector {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
		offset += 4
	}
	return buf, nil
}

// UnmarshalEntry deserializes an IndexEntry.
func UnmarshalEntry(data []byte) (*IndexEntry, error) {
	if len(data) < 4 {
		return nil, ErrTruncatedData
	}
	size := int(binary.BigEndian.Uint32(data))
	data = data[4:]
	if len(data) < size {
		return nil, ErrTruncatedData
	}
	var record core.VerseRecord
	if err := sonic.Unmarshal(data[:size], &record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	data = data[size:]
	if len(data)%4 != 0 {
		return nil, ErrTruncatedData
	}
	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return &IndexEntry{Record: record, Vector: vector}, nil
}
