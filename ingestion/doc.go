// Package ingestion builds the searchable corpus from a directory of verse
// source files.
//
// A Pipeline loads every matching file through the verse store's loader,
// embeds the merged corpus into the index and, only once the index build has
// succeeded, swaps the new corpus into the store. Rebuilds are destructive:
// the previous index and corpus are replaced wholesale. Files that cannot be
// read are skipped and reported in the returned core.IndexStats.
//
// A Watcher re-runs the pipeline when source files change, debouncing bursts
// of filesystem events into a single rebuild.
package ingestion
