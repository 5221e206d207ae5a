// Package index implements the embedding index over verse records.
//
// Each record is embedded from "{translation} (Sanskrit: {sanskrit})" and
// stored as a unit vector, so cosine similarity is a dot product. Builds are
// full replacements: there is no incremental update path.
//
// The index records the embedding model it was built with. Querying with
// an embedder whose model differs fails with core.ErrModelMismatch rather
// than returning meaningless scores.
//
//	ix, err := index.New(embedder, index.WithRepository(repo))
//	defer ix.Release()
//	meta, err := ix.Build(ctx, records)
//	hits, err := ix.Query(ctx, "what is dharma", 3)
package index
