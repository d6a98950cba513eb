package ingest

import (
	"regexp"
	"strings"
)

var (
	escapeSequences = regexp.MustCompile(`\\[a-zA-Z0-9]+`)
	newlines        = regexp.MustCompile(`\n+`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	disallowed      = regexp.MustCompile(`[^A-Za-z0-9.,:;!?&%$@'"()/-]+`)
)

// CleanText normalizes scraped page text: escape sequences the
// scrapers left behind (a literal backslash-u00a0 and friends),
// newlines, and whitespace runs collapse to single spaces, and
// symbols outside the allowed punctuation set are dropped.
func CleanText(text string) string {
	text = escapeSequences.ReplaceAllString(text, " ")
	text = newlines.ReplaceAllString(text, " ")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	text = disallowed.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// chunkOverlap is the number of words shared between consecutive chunks.
const chunkOverlap = 100

// DefaultChunkWords is the chunk window used by the indexer.
const DefaultChunkWords = 400

// ChunkText cleans text and splits it into windows of at most maxWords
// words, stepping maxWords-100 words so consecutive chunks overlap.
// Empty input yields no chunks.
func ChunkText(text string, maxWords int) []string {
	if maxWords <= chunkOverlap {
		maxWords = DefaultChunkWords
	}

	words := strings.Fields(CleanText(text))
	if len(words) == 0 {
		return nil
	}

	step := maxWords - chunkOverlap
	var chunks []string
	for i := 0; i < len(words); i += step {
		end := i + maxWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
