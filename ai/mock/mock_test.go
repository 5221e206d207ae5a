package mock

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/poiesic/saarthi/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder(t *testing.T) {
	ctx := context.Background()
	embedder := NewMockEmbedder()

	a, err := embedder.EmbedText(ctx, "karma yoga")
	require.NoError(t, err)
	b, err := embedder.EmbedText(ctx, "karma yoga")
	require.NoError(t, err)
	c, err := embedder.EmbedText(ctx, "bhakti yoga")
	require.NoError(t, err)

	assert.Len(t, a, DefaultDimensions)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	var sum float64
	for _, v := range a {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-4)

	batch, err := embedder.EmbedTexts(ctx, []string{"karma yoga", "bhakti yoga"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{a, c}, batch)
	assert.Equal(t, 4, embedder.CallCount())
	assert.Equal(t, DefaultModel, embedder.Model())

	embedder.Reset()
	assert.Equal(t, 0, embedder.CallCount())
}

func TestMockEmbedder_Injection(t *testing.T) {
	boom := errors.New("boom")
	embedder := NewMockEmbedder().WithModel("all-minilm").WithDimensions(3)
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, boom
	}

	_, err := embedder.EmbedTexts(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, boom)

	v, err := embedder.EmbedText(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, v, 3)
	assert.Equal(t, "all-minilm", embedder.Model())
}

func TestMockEmbedder_ConcurrentCallCount(t *testing.T) {
	embedder := NewMockEmbedder()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = embedder.EmbedTexts(context.Background(), []string{"a", "b"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, embedder.CallCount())
}

func TestMockGenerator(t *testing.T) {
	generator := NewMockGenerator()
	assert.Nil(t, generator.LastRequest())

	req := &ai.GenerationRequest{UserPrompt: "hello"}
	answer, err := generator.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", answer)
	assert.Same(t, req, generator.LastRequest())
	assert.Equal(t, 1, generator.CallCount())
	assert.Len(t, generator.Requests(), 1)
}

func TestMockProvider(t *testing.T) {
	provider := NewMockProvider()
	require.NotNil(t, provider.Embedder())
	require.NotNil(t, provider.Generator())
	assert.NoError(t, provider.Close())

	retrievalOnly := NewMockProviderWithServices(NewMockEmbedder(), nil)
	assert.Nil(t, retrievalOnly.Generator())
}
