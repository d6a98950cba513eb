// Package types defines the shared data model for the sitesage pipeline:
// passages, entities, relation triples, retrieval results, and the
// grounding context handed to the generation step.
package types
