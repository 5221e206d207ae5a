package core

import (
	"path/filepath"
	"slices"
	"strings"
)

// Canonical source tags for the bundled scriptures.
const (
	SourceGita         = "Bhagavad Gita"
	SourceYogaSutras   = "Yoga Sutras"
	SourceUpanishads   = "Upanishads"
	SourceBrahmaSutras = "Brahma Sutras"
)

// sourceAliases maps lower-cased spellings to canonical tags.
var sourceAliases = map[string]string{
	"bhagavad gita":  SourceGita,
	"bhagavadgita":   SourceGita,
	"gita":           SourceGita,
	"bg":             SourceGita,
	"yoga sutras":    SourceYogaSutras,
	"yoga sutra":     SourceYogaSutras,
	"yogasutras":     SourceYogaSutras,
	"ys":             SourceYogaSutras,
	"upanishads":     SourceUpanishads,
	"upanishad":      SourceUpanishads,
	"brahma sutras":  SourceBrahmaSutras,
	"brahma sutra":   SourceBrahmaSutras,
	"brahmasutras":   SourceBrahmaSutras,
	"vedanta sutras": SourceBrahmaSutras,
	"bs":             SourceBrahmaSutras,
}

// CanonicalSource resolves a known alias to its canonical tag.
// Unknown sources are returned trimmed but otherwise unchanged.
func CanonicalSource(source string) string {
	trimmed := strings.TrimSpace(source)
	if canonical, ok := sourceAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// SourceAliases returns every alias that resolves to the given tag,
// including the tag itself in lower case.
func SourceAliases(source string) []string {
	canonical := CanonicalSource(source)
	aliases := []string{strings.ToLower(canonical)}
	for alias, tag := range sourceAliases {
		if tag == canonical && alias != aliases[0] {
			aliases = append(aliases, alias)
		}
	}
	slices.Sort(aliases[1:])
	return aliases
}

// SourceFromFilename is the fallback heuristic used when neither a source
// column nor an explicit mapping names the source of a file: any file whose
// name contains "sutra" is Yoga Sutras, everything else is Bhagavad Gita.
func SourceFromFilename(path string) string {
	name := strings.ToLower(filepath.Base(path))
	if strings.Contains(name, "sutra") {
		return SourceYogaSutras
	}
	return SourceGita
}
