package index

import (
	"context"
	"fmt"
	"sync"
)

// embedAll embeds texts in batches on the worker pool. Vectors come back
// normalized and in input order. The first failing batch cancels the rest.
func (ix *Index) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var tracker *ProgressTracker
	if ix.progress != nil {
		tracker = NewProgressTracker(ix.progress, len(texts), ix.batchSize)
		tracker.Start()
	}

	vectors := make([][]float32, len(texts))
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for start := 0; start < len(texts); start += ix.batchSize {
		end := min(start+ix.batchSize, len(texts))
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			batch, err := ix.embedBatch(ctx, texts[start:end])
			if err != nil {
				fail(fmt.Errorf("batch %d-%d: %w", start, end, err))
				return
			}
			copy(vectors[start:end], batch)
			if tracker != nil {
				tracker.Increment(end - start)
			}
			ix.logger.Debug("embedded batch", "start", start, "end", end)
		}
		if err := ix.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tracker != nil {
		tracker.Finish()
	}
	return vectors, nil
}

// embedBatch embeds one batch with retry and normalizes the result.
func (ix *Index) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = ix.embedder.EmbedTexts(ctx, texts)
		return err
	}, ix.maxAttempts, ix.retryDelay)
	if err != nil {
		return nil, err
	}

	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCount, len(texts), len(embeddings))
	}
	for i := range embeddings {
		embeddings[i] = NormalizeVector(embeddings[i])
	}
	return embeddings, nil
}
