package extractor_test

import (
	"testing"

	"github.com/sitesage/sitesage/pkg/extractor"
	"github.com/sitesage/sitesage/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tok(text, lemma, pos, dep string) extractor.Token {
	return extractor.Token{Text: text, Lemma: lemma, POS: pos, Dep: dep}
}

func TestMineTriplesSimpleSentence(t *testing.T) {
	// "Nestle makes KitKat."
	sentences := []extractor.Sentence{{Tokens: []extractor.Token{
		tok("Nestle", "Nestle", "PROPN", "nsubj"),
		tok("makes", "make", "VERB", "ROOT"),
		tok("KitKat", "KitKat", "PROPN", "dobj"),
		tok(".", ".", "PUNCT", "punct"),
	}}}

	triples := extractor.MineTriples(sentences)
	require.Len(t, triples, 1)
	assert.Equal(t, types.Triple{Source: "Nestle", Relation: "make", Target: "KitKat"}, triples[0])
}

func TestMineTriplesLastObjectWins(t *testing.T) {
	// "She gave chocolate to Mary and Zoe" — three object-bearing
	// tokens; the scan overwrites the slot so the last one wins.
	sentences := []extractor.Sentence{{Tokens: []extractor.Token{
		tok("She", "she", "PRON", "nsubj"),
		tok("gave", "give", "VERB", "ROOT"),
		tok("chocolate", "chocolate", "NOUN", "dobj"),
		tok("to", "to", "ADP", "prep"),
		tok("Mary", "Mary", "PROPN", "pobj"),
		tok("and", "and", "CCONJ", "cc"),
		tok("Zoe", "Zoe", "PROPN", "pobj"),
	}}}

	triples := extractor.MineTriples(sentences)
	require.Len(t, triples, 1)
	assert.Equal(t, "Zoe", triples[0].Target, "last scanned object token must win")
}

func TestMineTriplesLastSubjectAndVerbWin(t *testing.T) {
	sentences := []extractor.Sentence{{Tokens: []extractor.Token{
		tok("Alice", "Alice", "PROPN", "nsubj"),
		tok("thinks", "think", "VERB", "ROOT"),
		tok("Bob", "Bob", "PROPN", "nsubj"),
		tok("bought", "buy", "VERB", "ccomp"),
		tok("candy", "candy", "NOUN", "dobj"),
	}}}

	triples := extractor.MineTriples(sentences)
	require.Len(t, triples, 1)
	assert.Equal(t, types.Triple{Source: "Bob", Relation: "buy", Target: "candy"}, triples[0])
}

func TestMineTriplesIncompleteSentences(t *testing.T) {
	tests := []struct {
		name   string
		tokens []extractor.Token
	}{
		{
			name: "no verb",
			tokens: []extractor.Token{
				tok("Nestle", "Nestle", "PROPN", "nsubj"),
				tok("KitKat", "KitKat", "PROPN", "dobj"),
			},
		},
		{
			name: "no object",
			tokens: []extractor.Token{
				tok("Nestle", "Nestle", "PROPN", "nsubj"),
				tok("grew", "grow", "VERB", "ROOT"),
			},
		},
		{
			name: "no subject",
			tokens: []extractor.Token{
				tok("makes", "make", "VERB", "ROOT"),
				tok("KitKat", "KitKat", "PROPN", "dobj"),
			},
		},
		{
			name:   "empty sentence",
			tokens: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			triples := extractor.MineTriples([]extractor.Sentence{{Tokens: tt.tokens}})
			assert.Empty(t, triples)
		})
	}
}

func TestMineTriplesPassiveSubjectMatches(t *testing.T) {
	// nsubjpass contains "subj" and must fill the subject slot.
	sentences := []extractor.Sentence{{Tokens: []extractor.Token{
		tok("KitKat", "KitKat", "PROPN", "nsubjpass"),
		tok("made", "make", "VERB", "ROOT"),
		tok("Nestle", "Nestle", "PROPN", "pobj"),
	}}}

	triples := extractor.MineTriples(sentences)
	require.Len(t, triples, 1)
	assert.Equal(t, "KitKat", triples[0].Source)
}

func TestMineTriplesMultipleSentences(t *testing.T) {
	sentences := []extractor.Sentence{
		{Tokens: []extractor.Token{
			tok("Nestle", "Nestle", "PROPN", "nsubj"),
			tok("makes", "make", "VERB", "ROOT"),
			tok("KitKat", "KitKat", "PROPN", "dobj"),
		}},
		{Tokens: []extractor.Token{
			tok("KitKat", "KitKat", "PROPN", "nsubj"),
			tok("contains", "contain", "VERB", "ROOT"),
			tok("chocolate", "chocolate", "NOUN", "dobj"),
		}},
	}

	triples := extractor.MineTriples(sentences)
	require.Len(t, triples, 2)
	assert.Equal(t, "make", triples[0].Relation)
	assert.Equal(t, "contain", triples[1].Relation)
}

func TestMineTriplesTrimsTokenText(t *testing.T) {
	sentences := []extractor.Sentence{{Tokens: []extractor.Token{
		tok(" Nestle ", "Nestle", "PROPN", "nsubj"),
		tok("makes", "make", "VERB", "ROOT"),
		tok("KitKat\n", "KitKat", "PROPN", "dobj"),
	}}}

	triples := extractor.MineTriples(sentences)
	require.Len(t, triples, 1)
	assert.Equal(t, "Nestle", triples[0].Source)
	assert.Equal(t, "KitKat", triples[0].Target)
}

func TestDedupeMentions(t *testing.T) {
	mentions := []types.Mention{
		{Text: "Nestle", Label: "ORG"},
		{Text: "KitKat", Label: "PRODUCT"},
		{Text: "Nestle", Label: "ORG"},
		{Text: "Nestle", Label: "PRODUCT"}, // same surface form, later label loses
	}

	unique := extractor.DedupeMentions(mentions)
	require.Len(t, unique, 2)
	assert.Equal(t, "Nestle", unique[0].Text)
	assert.Equal(t, "ORG", unique[0].Label)
	assert.Equal(t, "KitKat", unique[1].Text)
}
