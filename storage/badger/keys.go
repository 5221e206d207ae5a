package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types
const (
	indexMetaKey     = "idxmeta"
	indexEntryPrefix = "idxent"
)

// makeGenerationPrefix returns the key prefix shared by all entries of one
// index generation.
// Format: prefix:generation
func makeGenerationPrefix(generation uint64) []byte {
	prefix := indexEntryPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], generation)
	return buf
}

// makeEntryKey generates a key for the i-th entry of a generation.
// Format: prefix:generation:position
func makeEntryKey(generation uint64, position int) []byte {
	prefix := makeGenerationPrefix(generation)
	buf := make([]byte, len(prefix)+4)
	offset := copy(buf, prefix)
	// BigEndian keeps iteration order equal to insertion order
	binary.BigEndian.PutUint32(buf[offset:], uint32(position))
	return buf
}
