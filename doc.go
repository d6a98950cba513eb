// Package sitesage answers natural-language questions about a website's
// content by combining two retrieval paths over the same corpus: dense
// vector search over passage embeddings, and one-hop expansion of a
// relationship graph seeded by the entities found in the retrieved
// passages. The merged grounding context is handed to a generation model
// with a fixed instruction prompt.
//
// The library is read-only at query time. Building the passage snapshot,
// the vector index, and the relationship graph happens offline through
// pkg/ingest and the CLI.
package sitesage
