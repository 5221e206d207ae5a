package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateVerse(t *testing.T) {
	valid := func() *VerseRecord {
		return &VerseRecord{
			Source:      SourceGita,
			Chapter:     "2",
			Verse:       "47",
			Sanskrit:    "कर्मण्येवाधिकारस्ते",
			Translation: "You have a right to your actions alone.",
		}
	}

	t.Run("valid record", func(t *testing.T) {
		require.NoError(t, ValidateVerse(valid()))
	})

	t.Run("missing sanskrit is allowed", func(t *testing.T) {
		record := valid()
		record.Sanskrit = ""
		require.NoError(t, ValidateVerse(record))
	})

	t.Run("nil record", func(t *testing.T) {
		err := ValidateVerse(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidVerse)
	})

	tests := []struct {
		name   string
		mutate func(*VerseRecord)
		want   error
	}{
		{"empty source", func(r *VerseRecord) { r.Source = "" }, ErrEmptySource},
		{"blank chapter", func(r *VerseRecord) { r.Chapter = "  " }, ErrEmptyChapter},
		{"empty verse", func(r *VerseRecord) { r.Verse = "" }, ErrEmptyVerse},
		{"empty translation", func(r *VerseRecord) { r.Translation = "" }, ErrEmptyTranslation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := valid()
			tt.mutate(record)
			err := ValidateVerse(record)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidVerse)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestIngestError(t *testing.T) {
	cause := errors.New("boom")
	err := NewIngestError("data/gita.csv", "unreadable", cause)

	assert.ErrorIs(t, err, ErrIngest)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "data/gita.csv")
	assert.Contains(t, err.Error(), "unreadable")

	wrapped := fmt.Errorf("loading: %w", err)
	var ingestErr *IngestError
	require.True(t, errors.As(wrapped, &ingestErr))
	assert.Equal(t, "data/gita.csv", ingestErr.Path)

	noCause := NewIngestError("x.csv", "missing column translation", nil)
	assert.ErrorIs(t, noCause, ErrIngest)
	assert.Equal(t, "ingest failed: x.csv: missing column translation", noCause.Error())
}
