package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/saarthi/ai/mock"
	"github.com/poiesic/saarthi/core"
	"github.com/poiesic/saarthi/index"
	"github.com/poiesic/saarthi/reference"
	"github.com/poiesic/saarthi/versestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var corpusRecords = []core.VerseRecord{
	{Source: core.SourceGita, Chapter: "2", Verse: "47", Sanskrit: "कर्मण्येवाधिकारस्ते", Translation: "You have a right to perform your prescribed duties."},
	{Source: core.SourceGita, Chapter: "2", Verse: "48", Sanskrit: "योगस्थः कुरु कर्माणि", Translation: "Perform your duty equipoised."},
	{Source: core.SourceGita, Chapter: "9", Verse: "1", Sanskrit: "इदं तु ते गुह्यतमं", Translation: "I shall now impart to you this most confidential knowledge."},
	{Source: core.SourceYogaSutras, Chapter: "1", Verse: "2", Sanskrit: "योगश्चित्तवृत्तिनिरोधः", Translation: "Yoga is the cessation of the fluctuations of the mind."},
	{Source: core.SourceYogaSutras, Chapter: "2", Verse: "47", Sanskrit: "ततो द्वन्द्वानभिघातः", Translation: "From that, one is undisturbed by the dualities."},
}

type fixture struct {
	store     *versestore.Store
	index     *index.Index
	embedder  *mock.MockEmbedder
	retriever *Retriever
}

func newFixture(t *testing.T, build bool, opts ...Option) *fixture {
	t.Helper()
	store, err := versestore.New()
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	ix, err := index.New(embedder)
	require.NoError(t, err)
	t.Cleanup(ix.Release)

	if build {
		corpus, _ := versestore.NewCorpusFromRecords(corpusRecords)
		_, err := ix.Build(context.Background(), corpus.Records())
		require.NoError(t, err)
		store.Replace(corpus)
	}

	retriever, err := New(store, ix, opts...)
	require.NoError(t, err)
	return &fixture{store: store, index: ix, embedder: embedder, retriever: retriever}
}

// recordingMonitor records which hooks fired.
type recordingMonitor struct {
	calls    []string
	match    reference.Match
	exact    *core.VerseRecord
	semantic []core.ScoredVerse
	failure  error
	result   *Result
}

func (m *recordingMonitor) Start(_ Query) { m.calls = append(m.calls, "start") }
func (m *recordingMonitor) ParsedReference(match reference.Match) {
	m.calls = append(m.calls, "parsed")
	m.match = match
}
func (m *recordingMonitor) ExactHit(record core.VerseRecord) {
	m.calls = append(m.calls, "exact")
	m.exact = &record
}
func (m *recordingMonitor) SemanticHits(hits []core.ScoredVerse) {
	m.calls = append(m.calls, "semantic")
	m.semantic = hits
}
func (m *recordingMonitor) Failure(err error) {
	m.calls = append(m.calls, "failure")
	m.failure = err
}
func (m *recordingMonitor) Finish(result *Result) {
	m.calls = append(m.calls, "finish")
	m.result = result
}

func TestNew_Validation(t *testing.T) {
	store, err := versestore.New()
	require.NoError(t, err)
	ix, err := index.New(mock.NewMockEmbedder())
	require.NoError(t, err)
	defer ix.Release()

	_, err = New(nil, ix)
	assert.ErrorIs(t, err, ErrStoreRequired)
	_, err = New(store, nil)
	assert.ErrorIs(t, err, ErrIndexRequired)
}

func TestRetrieve_ExactReference(t *testing.T) {
	f := newFixture(t, true)
	monitor := &recordingMonitor{}

	result := f.retriever.RetrieveWithMonitor(context.Background(), Query{Text: "Explain 2.47"}, monitor)
	require.NoError(t, result.Err)
	assert.True(t, result.Exact)
	assert.Equal(t, []string{DirectReferenceCitation}, result.Citations)
	assert.Equal(t, "**Bhagavad Gita 2.47**\nSanskrit: कर्मण्येवाधिकारस्ते\nTranslation: You have a right to perform your prescribed duties.", result.ContextText)

	assert.Equal(t, []string{"start", "parsed", "exact", "finish"}, monitor.calls)
}

func TestRetrieve_ExactNeverEmbeds(t *testing.T) {
	f := newFixture(t, true)
	before := f.embedder.CallCount()

	for _, text := range []string{"2.47", "2:48", "what does chapter 9 verse 1 say"} {
		result := f.retriever.Retrieve(context.Background(), Query{Text: text})
		assert.True(t, result.Exact, text)
	}
	assert.Equal(t, before, f.embedder.CallCount())
}

func TestRetrieve_SourceNarrowsLookup(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	t.Run("first in ingestion order without a source", func(t *testing.T) {
		result := f.retriever.Retrieve(ctx, Query{Text: "2.47"})
		assert.Contains(t, result.ContextText, "**Bhagavad Gita 2.47**")
	})

	t.Run("named source", func(t *testing.T) {
		result := f.retriever.Retrieve(ctx, Query{Text: "Yoga Sutras 2.47"})
		require.True(t, result.Exact)
		assert.Contains(t, result.ContextText, "**Yoga Sutras 2.47**")
	})

	t.Run("named source without that verse falls through", func(t *testing.T) {
		result := f.retriever.Retrieve(ctx, Query{Text: "Yoga Sutras 9.1"})
		assert.False(t, result.Exact)
		assert.Len(t, result.Citations, DefaultN)
	})
}

func TestRetrieve_CompactPrecedence(t *testing.T) {
	f := newFixture(t, true)
	monitor := &recordingMonitor{}

	result := f.retriever.RetrieveWithMonitor(context.Background(),
		Query{Text: "chapter 2 verse 47, see also 9.1"}, monitor)
	require.True(t, result.Exact)
	assert.Contains(t, result.ContextText, "**Bhagavad Gita 9.1**")
	assert.IsType(t, reference.CompactMatch{}, monitor.match)
}

func TestRetrieve_Semantic(t *testing.T) {
	f := newFixture(t, true)
	monitor := &recordingMonitor{}

	result := f.retriever.RetrieveWithMonitor(context.Background(), Query{Text: "what is dharma"}, monitor)
	require.NoError(t, result.Err)
	assert.False(t, result.Exact)
	assert.Equal(t, []string{"start", "parsed", "semantic", "finish"}, monitor.calls)
	assert.IsType(t, reference.NoMatch{}, monitor.match)
	assert.Nil(t, monitor.exact)

	require.Len(t, result.Citations, DefaultN)
	require.Len(t, result.Hits, DefaultN)
	lines := strings.Split(strings.TrimSuffix(result.ContextText, "\n"), "\n")
	require.Len(t, lines, DefaultN)
	for i, hit := range result.Hits {
		assert.Equal(t, hit.Record.Citation(), result.Citations[i])
		assert.Equal(t, hit.Record.Citation()+": "+hit.Record.Translation, lines[i])
	}
}

func TestRetrieve_SemanticN(t *testing.T) {
	f := newFixture(t, true, WithDefaultN(2))
	ctx := context.Background()

	assert.Len(t, f.retriever.Retrieve(ctx, Query{Text: "peace"}).Citations, 2)
	assert.Len(t, f.retriever.Retrieve(ctx, Query{Text: "peace", N: 4}).Citations, 4)
	assert.Len(t, f.retriever.Retrieve(ctx, Query{Text: "peace", N: 50}).Citations, len(corpusRecords))
}

func TestRetrieve_ExactMatchFindsSemanticTopHit(t *testing.T) {
	f := newFixture(t, true)
	record := corpusRecords[3]

	result := f.retriever.Retrieve(context.Background(), Query{Text: record.EmbeddingText(), N: 1})
	require.Len(t, result.Hits, 1)
	assert.Equal(t, record, result.Hits[0].Record)
}

func TestRetrieve_UnbuiltIndex(t *testing.T) {
	f := newFixture(t, false)
	monitor := &recordingMonitor{}

	result := f.retriever.RetrieveWithMonitor(context.Background(), Query{Text: ""}, monitor)
	assert.Equal(t, "", result.ContextText)
	assert.Empty(t, result.Citations)
	assert.NotNil(t, result.Citations)
	assert.True(t, result.Empty())
	assert.ErrorIs(t, result.Err, core.ErrIndexNotReady)
	assert.Equal(t, []string{"start", "parsed", "failure", "finish"}, monitor.calls)
}

func TestRetrieve_ReferenceMissingFromStore(t *testing.T) {
	f := newFixture(t, false)

	result := f.retriever.Retrieve(context.Background(), Query{Text: "2.47"})
	assert.True(t, result.Empty())
	assert.ErrorIs(t, result.Err, core.ErrIndexNotReady)
}

func TestRetrieve_EmbeddingFailureDegrades(t *testing.T) {
	f := newFixture(t, true)
	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("connection refused")
	}

	result := f.retriever.Retrieve(context.Background(), Query{Text: "what is dharma"})
	assert.True(t, result.Empty())
	assert.Empty(t, result.ContextText)
	assert.ErrorIs(t, result.Err, core.ErrEmbeddingBackend)

	// Exact references still resolve.
	result = f.retriever.Retrieve(context.Background(), Query{Text: "2.48"})
	assert.True(t, result.Exact)
}

func TestRetrieve_EmptyIndex(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.index.Build(context.Background(), nil)
	require.NoError(t, err)

	result := f.retriever.Retrieve(context.Background(), Query{Text: "karma"})
	assert.NoError(t, result.Err)
	assert.True(t, result.Empty())
	assert.Empty(t, result.ContextText)
}

func TestRetrieve_EveryIndexedVerseResolvesExactly(t *testing.T) {
	f := newFixture(t, true)
	for _, record := range corpusRecords {
		if record.Source != core.SourceGita {
			continue
		}
		result := f.retriever.Retrieve(context.Background(), Query{Text: record.Chapter + "." + record.Verse})
		require.True(t, result.Exact, record.Citation())
		assert.Contains(t, result.ContextText, record.Translation)
	}
}
