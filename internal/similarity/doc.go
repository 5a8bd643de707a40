// Package similarity provides the two scorers the aligner consults: a lexical
// ratio over edit distance and a semantic cosine over embedding vectors.
//
// Both scorers are total and deterministic for a fixed configuration and
// return values in [0,1], with 1 meaning identical. Empty inputs are defined
// rather than delegated: two empty texts score 1 and one empty text scores 0.
// Invalid scores (NaN) are reported through Sanitize and never escape as a
// maximum.
//
// Embeddings come from an Embedder. HashedEmbedder works offline by hashing
// stemmed words into a fixed-width vector; the OpenAI-compatible client in
// services/embeddings satisfies the same interface. Vectors are memoized in a
// VectorCache so a line is embedded at most once per run.
package similarity
