// Package versestore loads verse records from a directory of CSV files and
// answers exact (source, chapter, verse) lookups.
//
// Each file must carry the columns chapter, verse, sanskrit and translation.
// A source column, when present, tags rows individually. Otherwise the file
// is tagged from an explicit SourceMapping, and as a last resort from its
// name: files whose name contains "sutra" are Yoga Sutras and everything
// else is Bhagavad Gita.
//
// Files that cannot be read, are not UTF-8, or lack required columns are
// skipped and reported; they never abort a load.
//
//	store, err := versestore.New()
//	result, err := store.Load(ctx, "data")
//	verse, ok := store.Lookup("Bhagavad Gita", "2", "47")
package versestore
