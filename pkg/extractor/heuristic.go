package extractor

import (
	"strings"

	"github.com/sitesage/sitesage/pkg/types"
)

// Token is one tagged token from a dependency parse.
type Token struct {
	Text  string `json:"text"`
	Lemma string `json:"lemma"`
	POS   string `json:"pos"`
	Dep   string `json:"dep"`
}

// Sentence is an ordered token sequence.
type Sentence struct {
	Tokens []Token `json:"tokens"`
}

// MineTriples applies the shallow per-sentence relation heuristic: a
// single left-to-right scan fills one subject slot (dependency role
// containing "subj"), one object slot (role containing "obj"), and one
// verb slot (POS "VERB"), each overwritten on every later match so the
// last matching token wins. A triple is emitted only when all three
// slots are filled; sentences missing a role contribute nothing.
//
// The last-match tie-break is load-bearing: the populated graph's
// content depends on it, so it must not be "improved" to first-match or
// all-pairs semantics.
func MineTriples(sentences []Sentence) []types.Triple {
	var triples []types.Triple

	for _, sentence := range sentences {
		var subj, verb, obj *Token
		for i := range sentence.Tokens {
			tok := &sentence.Tokens[i]
			if strings.Contains(tok.Dep, "subj") {
				subj = tok
			}
			if strings.Contains(tok.Dep, "obj") {
				obj = tok
			}
			if tok.POS == "VERB" {
				verb = tok
			}
		}
		if subj != nil && verb != nil && obj != nil {
			triples = append(triples, types.Triple{
				Source:   strings.TrimSpace(subj.Text),
				Relation: verb.Lemma,
				Target:   strings.TrimSpace(obj.Text),
			})
		}
	}

	return triples
}

// DedupeMentions collapses mentions to the set of unique surface forms,
// preserving first-seen order. Graph expansion is per unique entity, not
// per mention.
func DedupeMentions(mentions []types.Mention) []types.Mention {
	seen := make(map[string]struct{}, len(mentions))
	unique := make([]types.Mention, 0, len(mentions))
	for _, m := range mentions {
		if _, ok := seen[m.Text]; ok {
			continue
		}
		seen[m.Text] = struct{}{}
		unique = append(unique, m)
	}
	return unique
}
