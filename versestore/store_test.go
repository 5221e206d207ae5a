package versestore

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/poiesic/saarthi/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	writeSource(t, dir, "gita.csv", gitaCSV)
	writeSource(t, dir, "yoga_sutras.csv", sutraCSV)

	store, err := New()
	require.NoError(t, err)
	_, err = store.Load(context.Background(), dir)
	require.NoError(t, err)
	return store
}

func TestStore_Lookup(t *testing.T) {
	store := loadedStore(t)

	tests := []struct {
		name    string
		source  string
		chapter string
		verse   string
		want    string
		found   bool
	}{
		{"canonical source", "Bhagavad Gita", "2", "47", "You have a right to perform your prescribed duties.", true},
		{"alias and zero padding", "gita", "02", "047", "You have a right to perform your prescribed duties.", true},
		{"other source", "Yoga Sutras", "1", "2", "Yoga is the cessation of the fluctuations of the mind.", true},
		{"wrong source", "Yoga Sutras", "2", "47", "", false},
		{"no source scans in ingestion order", "", "1", "3", "Then the Seer abides in Its own true nature.", true},
		{"missing verse", "gita", "18", "99", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, ok := store.Lookup(tt.source, tt.chapter, tt.verse)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, record.Translation)
		})
	}
}

func TestStore_SourcesAndLen(t *testing.T) {
	store := loadedStore(t)
	assert.Equal(t, 4, store.Len())
	assert.Equal(t, []string{core.SourceGita, core.SourceYogaSutras}, store.Sources())
	assert.Len(t, store.Records(), 4)
}

func TestStore_Replace(t *testing.T) {
	store := loadedStore(t)

	corpus, dups := NewCorpusFromRecords([]core.VerseRecord{
		{Source: core.SourceUpanishads, Chapter: "Isha", Verse: "1", Translation: "All this is pervaded by the Lord."},
		{Source: core.SourceUpanishads, Chapter: "isha", Verse: "1", Translation: "duplicate"},
	})
	assert.Equal(t, 1, dups)

	store.Replace(corpus)
	assert.Equal(t, 1, store.Len())
	_, ok := store.Lookup("gita", "2", "47")
	assert.False(t, ok)

	record, ok := store.Lookup("upanishad", "ISHA", "1")
	require.True(t, ok)
	assert.Equal(t, "All this is pervaded by the Lord.", record.Translation)

	store.Replace(nil)
	assert.Equal(t, 0, store.Len())
}

func TestStore_RandomAndDaily(t *testing.T) {
	empty, err := New()
	require.NoError(t, err)
	_, ok := empty.Random(rand.New(rand.NewPCG(1, 2)))
	assert.False(t, ok)
	_, ok = empty.DailyVerse(time.Now())
	assert.False(t, ok)

	store := loadedStore(t)
	record, ok := store.Random(rand.New(rand.NewPCG(1, 2)))
	require.True(t, ok)
	assert.NotEmpty(t, record.Translation)

	morning := time.Date(2025, 3, 14, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 14, 22, 0, 0, 0, time.UTC)
	a, ok := store.DailyVerse(morning)
	require.True(t, ok)
	b, ok := store.DailyVerse(evening)
	require.True(t, ok)
	assert.Equal(t, a, b)
}

func TestNew_Options(t *testing.T) {
	_, err := New(WithLoader(nil))
	assert.ErrorIs(t, err, ErrLoaderRequired)

	loader, err := NewLoader()
	require.NoError(t, err)
	store, err := New(WithLoader(loader), WithLogger(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}
