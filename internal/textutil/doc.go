// Package textutil provides the text processing shared by the alignment
// passes: subtitle line normalization, split candidate generation, word
// segmentation, vector cosine similarity, and filename sanitization.
//
// The primary use cases are:
//   - Preparing a line for lexical comparison (lowercase letters and spaces only)
//   - Preparing a line for semantic comparison (styling and break markers removed)
//   - Enumerating every way a line can be cut at punctuation or line breaks
//   - Splitting text into stemmed terms for the local embedder
//
// Subtitle text uses ASS conventions: `{...}` override tags carry styling and
// the two-character sequences `\N`, `\n` and `\h` mark hard breaks, soft
// breaks and hard spaces. All normalizers are idempotent.
package textutil
