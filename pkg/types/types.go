package types

import "fmt"

// Passage is a unit of retrievable text with a stable identifier and
// provenance URL. Passages are built by the offline indexer and are
// immutable once stored.
type Passage struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	SourceURL string `json:"source_url"`
}

// Entity is a node in the relationship graph. Name is the case-sensitive
// surface form and acts as the natural key: two extraction passes that
// surface the same name must merge into one entity.
type Entity struct {
	Name    string   `json:"name"`
	Type    string   `json:"type,omitempty"`
	Sources []string `json:"sources,omitempty"`
}

// Mention is a single entity occurrence surfaced by an extractor.
type Mention struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Triple is a (source, relation, target) edge in the relationship graph.
type Triple struct {
	Source   string `json:"source"`
	Relation string `json:"relation"`
	Target   string `json:"target"`
}

// String renders the triple in the wire format consumed by the
// grounding context: "source -[relation]-> target".
func (t Triple) String() string {
	return fmt.Sprintf("%s -[%s]-> %s", t.Source, t.Relation, t.Target)
}

// Neighbor is one element of a nearest-neighbor search result. Score is
// the similarity reported by the vector index; results are ordered by
// descending score.
type Neighbor struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// GroundingContext pairs the concatenated passage text with the
// newline-joined relation triples discovered by graph expansion. It is
// built per query and discarded after the answer is generated.
type GroundingContext struct {
	Passages  string `json:"passages"`
	Relations string `json:"relations"`
}

// Document is one scraped page as written by the crawlers: raw text plus
// provenance URL. Links and images are kept for completeness but the
// online pipeline never reads them.
type Document struct {
	URL    string     `json:"url"`
	Text   string     `json:"text"`
	Links  []string   `json:"links,omitempty"`
	Images [][]string `json:"images,omitempty"`
}
