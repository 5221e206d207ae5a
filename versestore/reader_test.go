package versestore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/poiesic/saarthi/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile(t *testing.T) {
	tagger, err := NewTagger(nil)
	require.NoError(t, err)

	t.Run("heuristic gita", func(t *testing.T) {
		path := writeSource(t, t.TempDir(), "gita.csv", gitaCSV)

		result, err := ReadFile(path, tagger)
		require.NoError(t, err)
		assert.Equal(t, OriginHeuristic, result.Origin)
		require.Len(t, result.Records, 2)
		assert.Equal(t, core.SourceGita, result.Records[0].Source)
		assert.Equal(t, "2", result.Records[0].Chapter)
		assert.Equal(t, "47", result.Records[0].Verse)
		assert.Equal(t, "You have a right to perform your prescribed duties.", result.Records[0].Translation)
	})

	t.Run("heuristic sutra with padded headers", func(t *testing.T) {
		path := writeSource(t, t.TempDir(), "Yoga_Sutras.csv", sutraCSV)

		result, err := ReadFile(path, tagger)
		require.NoError(t, err)
		require.Len(t, result.Records, 2)
		for _, r := range result.Records {
			assert.Equal(t, core.SourceYogaSutras, r.Source)
		}
	})

	t.Run("source column wins", func(t *testing.T) {
		path := writeSource(t, t.TempDir(), "sutras_mixed.csv",
			"chapter,verse,sanskrit,translation,source\n"+
				"Isha,1,ईशा वास्यमिदं सर्वम्,All this is pervaded by the Lord.,Upanishads\n"+
				"1,1,अथातो ब्रह्मजिज्ञासा,Now therefore the inquiry into Brahman.,brahma sutras\n")

		result, err := ReadFile(path, tagger)
		require.NoError(t, err)
		assert.Equal(t, OriginColumn, result.Origin)
		require.Len(t, result.Records, 2)
		assert.Equal(t, core.SourceUpanishads, result.Records[0].Source)
		assert.Equal(t, core.SourceBrahmaSutras, result.Records[1].Source)
	})

	t.Run("byte order mark stripped", func(t *testing.T) {
		path := writeSource(t, t.TempDir(), "gita.csv", "\ufeff"+gitaCSV)

		result, err := ReadFile(path, tagger)
		require.NoError(t, err)
		assert.Len(t, result.Records, 2)
	})

	t.Run("invalid rows skipped", func(t *testing.T) {
		path := writeSource(t, t.TempDir(), "gita.csv",
			"chapter,verse,sanskrit,translation\n"+
				"2,47,,You have a right to action.\n"+
				",48,x,Missing chapter\n"+
				"2,49,x,\n")

		result, err := ReadFile(path, tagger)
		require.NoError(t, err)
		require.Len(t, result.Records, 1)
		assert.Equal(t, 2, result.InvalidRows)
		assert.Empty(t, result.Records[0].Sanskrit)
	})

	t.Run("missing columns", func(t *testing.T) {
		path := writeSource(t, t.TempDir(), "gita.csv", "chapter,verse,text\n1,1,hello\n")

		_, err := ReadFile(path, tagger)
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrIngest))

		var ingestErr *core.IngestError
		require.True(t, errors.As(err, &ingestErr))
		assert.Contains(t, ingestErr.Reason, "sanskrit")
		assert.Contains(t, ingestErr.Reason, "translation")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeSource(t, t.TempDir(), "gita.csv", "")

		_, err := ReadFile(path, tagger)
		assert.ErrorIs(t, err, core.ErrIngest)
	})

	t.Run("invalid utf8", func(t *testing.T) {
		path := writeSource(t, t.TempDir(), "gita.csv", "chapter,verse,sanskrit,translation\n1,1,\xff\xfe,bad\n")

		_, err := ReadFile(path, tagger)
		var ingestErr *core.IngestError
		require.True(t, errors.As(err, &ingestErr))
		assert.Equal(t, reasonEncoding, ingestErr.Reason)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(t.TempDir(), "absent.csv"), tagger)
		assert.ErrorIs(t, err, core.ErrIngest)
	})

	t.Run("nil tagger", func(t *testing.T) {
		path := writeSource(t, t.TempDir(), "gita.csv", gitaCSV)
		_, err := ReadFile(path, nil)
		assert.ErrorIs(t, err, ErrTaggerRequired)
	})
}
