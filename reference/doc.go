// Package reference detects explicit chapter/verse citations in free text.
//
// Two surface grammars are recognized, in priority order:
//   - Compact: "2.47" or "2:47" anywhere in the text; the first occurrence wins.
//   - Verbose: "chapter 2 ... verse 47", case-insensitive, with any text between.
//
// A compact citation always takes precedence over a verbose one, so
// "chapter 2 verse 47, see also 9.1" resolves to 9.1. The result is a
// tagged variant (CompactMatch, VerboseMatch or NoMatch) so callers can tell
// which grammar fired.
package reference
