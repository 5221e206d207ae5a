package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerseRecord_Formatting(t *testing.T) {
	record := VerseRecord{
		Source:      SourceGita,
		Chapter:     "2",
		Verse:       "47",
		Sanskrit:    "कर्मण्येवाधिकारस्ते",
		Translation: "You have a right to your actions alone.",
	}

	assert.Equal(t, "Bhagavad Gita_2_47", record.ID())
	assert.Equal(t, "Bhagavad Gita 2.47", record.Citation())
	assert.Equal(t, "You have a right to your actions alone. (Sanskrit: कर्मण्येवाधिकारस्ते)", record.EmbeddingText())
}

func TestVerseRecord_CompositeVerse(t *testing.T) {
	record := VerseRecord{
		Source:      SourceUpanishads,
		Chapter:     "Brihadaranyaka",
		Verse:       "1.4.10",
		Translation: "I am Brahman.",
	}

	assert.Equal(t, "Upanishads_Brihadaranyaka_1.4.10", record.ID())
	assert.Equal(t, "Upanishads Brihadaranyaka.1.4.10", record.Citation())
}

func TestNormalizeRef(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2", "2"},
		{"02", "2"},
		{" 2 ", "2"},
		{"0", "0"},
		{"Brihadaranyaka", "brihadaranyaka"},
		{" Katha ", "katha"},
		{"1.4.10", "1.4.10"},
		{"", ""},
		{"-3", "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRef(tt.in))
		})
	}
}

func TestVerseKey_Tolerance(t *testing.T) {
	a := VerseRecord{Source: "Gita", Chapter: "02", Verse: "47"}
	b := VerseRecord{Source: "Bhagavad Gita", Chapter: "2", Verse: " 47"}
	c := VerseRecord{Source: "Yoga Sutras", Chapter: "2", Verse: "47"}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Equal(t, NewVerseKey("bhagavad gita", "2", "47"), b.Key())
}

func TestFingerprint(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, Fingerprint("a", "b"), Fingerprint("a", "b"))
		assert.Len(t, Fingerprint("a"), 32)
	})

	t.Run("length prefixed", func(t *testing.T) {
		assert.NotEqual(t, Fingerprint("ab", "c"), Fingerprint("a", "bc"))
	})

	t.Run("corpus fingerprint depends on model and order", func(t *testing.T) {
		records := []VerseRecord{
			{Source: SourceGita, Chapter: "1", Verse: "1", Translation: "one"},
			{Source: SourceGita, Chapter: "1", Verse: "2", Translation: "two"},
		}
		reversed := []VerseRecord{records[1], records[0]}

		base := CorpusFingerprint("model-a", records)
		assert.Equal(t, base, CorpusFingerprint("model-a", records))
		assert.NotEqual(t, base, CorpusFingerprint("model-b", records))
		assert.NotEqual(t, base, CorpusFingerprint("model-a", reversed))
	})
}
