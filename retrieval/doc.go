// Package retrieval implements hybrid verse retrieval.
//
// A Retriever first looks for an explicit chapter/verse citation in the
// query. When one is found and the verse exists, that verse is returned
// verbatim and semantic search is never consulted. Otherwise the query is
// answered from the embedding index.
//
// Retrieval never fails outright: when the index is missing or the embedder
// errors, Retrieve returns an empty Result with Err set, and the caller
// proceeds without context.
package retrieval
