package reference

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/poiesic/saarthi/core"
)

// queryLexer splits free text into the tokens both citation grammars are
// written against. Rules are tried in order at each position, so the
// keywords only match at the start of a word.
var queryLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Chapter", Pattern: `(?i)chapter`},
	{Name: "Verse", Pattern: `(?i)verse`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Sep", Pattern: `[.:]`},
	{Name: "Word", Pattern: `[\p{L}\p{M}_]+`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Other", Pattern: `(?s).`},
})

var (
	tokChapter    = queryLexer.Symbols()["Chapter"]
	tokVerse      = queryLexer.Symbols()["Verse"]
	tokNumber     = queryLexer.Symbols()["Number"]
	tokSep        = queryLexer.Symbols()["Sep"]
	tokWord       = queryLexer.Symbols()["Word"]
	tokWhitespace = queryLexer.Symbols()["Whitespace"]
)

// Parse looks for an explicit chapter/verse citation in text.
//
// The compact grammar ("2.47", "2:47") is tried first and its first
// occurrence wins, even when a verbose "chapter N ... verse M" citation
// appears earlier in the text. Numbers that do not fit in an int are not
// citations; scanning continues past them.
func Parse(text string) Match {
	tokens, err := tokenize(text)
	if err != nil {
		return NoMatch{}
	}
	if m, ok := findCompact(tokens); ok {
		return m
	}
	if m, ok := findVerbose(tokens); ok {
		return m
	}
	return NoMatch{}
}

func tokenize(text string) ([]lexer.Token, error) {
	lex, err := queryLexer.LexString("", text)
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}
	// Drop the trailing EOF token.
	if n := len(tokens); n > 0 && tokens[n-1].EOF() {
		tokens = tokens[:n-1]
	}
	return tokens, nil
}

// findCompact scans for Number Sep Number with nothing in between.
func findCompact(tokens []lexer.Token) (CompactMatch, bool) {
	for i := 0; i+2 < len(tokens); i++ {
		if tokens[i].Type != tokNumber || tokens[i+1].Type != tokSep || tokens[i+2].Type != tokNumber {
			continue
		}
		chapter, ok := atoi(tokens[i].Value)
		if !ok {
			continue
		}
		verse, ok := atoi(tokens[i+2].Value)
		if !ok {
			continue
		}
		return CompactMatch{Chapter: chapter, Verse: verse, Offset: tokens[i].Pos.Offset}, true
	}
	return CompactMatch{}, false
}

// findVerbose scans for a "chapter" keyword followed by a number, then a
// later "verse" keyword followed by a number.
func findVerbose(tokens []lexer.Token) (VerboseMatch, bool) {
	for i := range tokens {
		if tokens[i].Type != tokChapter {
			continue
		}
		chapter, next, ok := numberAfter(tokens, i)
		if !ok {
			continue
		}
		for j := next; j < len(tokens); j++ {
			if tokens[j].Type != tokVerse {
				continue
			}
			if verse, _, ok := numberAfter(tokens, j); ok {
				return VerboseMatch{Chapter: chapter, Verse: verse, Offset: tokens[i].Pos.Offset}, true
			}
		}
	}
	return VerboseMatch{}, false
}

// numberAfter reads the number that follows the keyword at position i,
// allowing whitespace in between. It returns the index after the number.
func numberAfter(tokens []lexer.Token, i int) (int, int, bool) {
	j := i + 1
	if j < len(tokens) && tokens[j].Type == tokWhitespace {
		j++
	}
	if j >= len(tokens) || tokens[j].Type != tokNumber {
		return 0, 0, false
	}
	n, ok := atoi(tokens[j].Value)
	if !ok {
		return 0, 0, false
	}
	return n, j + 1, true
}

func atoi(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// DetectSource reports which of the known sources the text names, matching
// whole words against each source's tag and aliases. When several are
// mentioned, the earliest mention wins.
func DetectSource(text string, known []string) (string, bool) {
	tokens, err := tokenize(text)
	if err != nil {
		return "", false
	}
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		switch tok.Type {
		case tokWord, tokChapter, tokVerse, tokNumber:
			words = append(words, strings.ToLower(tok.Value))
		}
	}
	if len(words) == 0 {
		return "", false
	}
	haystack := " " + strings.Join(words, " ") + " "

	best, bestPos, bestLen := "", -1, 0
	for _, source := range known {
		for _, alias := range core.SourceAliases(source) {
			needle := " " + strings.Join(strings.Fields(alias), " ") + " "
			pos := strings.Index(haystack, needle)
			if pos < 0 {
				continue
			}
			if bestPos < 0 || pos < bestPos || (pos == bestPos && len(needle) > bestLen) {
				best, bestPos, bestLen = source, pos, len(needle)
			}
		}
	}
	return best, bestPos >= 0
}
