package similarity

import (
	"context"
	"fmt"
	"log/slog"

	"submerge/internal/logging"
	"submerge/internal/textutil"
)

// Embedder turns texts into vectors. Implementations may batch and block.
type Embedder interface {
	// Embed returns one vector per input text, in order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Name identifies the backend and model; it scopes cache keys.
	Name() string
}

// Semantic scores pairs by cosine similarity of their embeddings, computed
// over the semantic comparison form of each text. Negative cosines clamp to 0.
type Semantic struct {
	embedder Embedder
	cache    *VectorCache
	logger   *slog.Logger
}

// SemanticOption customizes a Semantic scorer.
type SemanticOption func(*Semantic)

// WithCache memoizes vectors in cache.
func WithCache(cache *VectorCache) SemanticOption {
	return func(s *Semantic) {
		s.cache = cache
	}
}

// WithLogger routes warnings to logger.
func WithLogger(logger *slog.Logger) SemanticOption {
	return func(s *Semantic) {
		if logger != nil {
			s.logger = logging.NewComponentLogger(logger, "similarity")
		}
	}
}

// NewSemantic constructs a semantic scorer backed by embedder.
func NewSemantic(embedder Embedder, opts ...SemanticOption) *Semantic {
	s := &Semantic{embedder: embedder, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Similarity implements Scorer.
func (s *Semantic) Similarity(ctx context.Context, a, b string) (float64, error) {
	left := textutil.ForSemanticComparison(a)
	right := textutil.ForSemanticComparison(b)
	if score, ok := trivialScore(left, right); ok {
		return score, nil
	}
	vectors, err := s.vectors(ctx, []string{left, right})
	if err != nil {
		return 0, err
	}
	score, valid := Sanitize(textutil.CosineSimilarity(vectors[0], vectors[1]))
	if !valid {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "semantic similarity was not a number", "similarity_nan",
			logging.String("metric", "semantic"),
			logging.String("backend", s.embedder.Name()),
			logging.String(logging.FieldImpact, "pair scored as 0"),
		)
	}
	return score, nil
}

// Prime embeds texts ahead of scoring so later Similarity calls hit the cache.
// It is a no-op without a cache.
func (s *Semantic) Prime(ctx context.Context, texts []string) error {
	if s.cache == nil {
		return nil
	}
	normalized := make([]string, 0, len(texts))
	for _, text := range texts {
		if n := textutil.ForSemanticComparison(text); n != "" {
			normalized = append(normalized, n)
		}
	}
	_, err := s.vectors(ctx, normalized)
	return err
}

// vectors resolves embeddings for already-normalized texts, embedding every
// cache miss in a single batch.
func (s *Semantic) vectors(ctx context.Context, texts []string) ([][]float32, error) {
	name := s.embedder.Name()
	out := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	pending := make(map[string]int)
	for i, text := range texts {
		if vec, ok := s.cache.Get(CacheKey(name, text)); ok {
			out[i] = vec
			continue
		}
		if _, ok := pending[text]; !ok {
			pending[text] = len(missing)
			missing = append(missing, text)
		}
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	embedded, err := s.embedder.Embed(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("embed %d texts with %s: %w", len(missing), name, err)
	}
	if len(embedded) != len(missing) {
		return nil, fmt.Errorf("embed with %s: got %d vectors for %d texts", name, len(embedded), len(missing))
	}
	for i, text := range missing {
		s.cache.Set(CacheKey(name, text), embedded[i])
	}
	for _, i := range missingIdx {
		out[i] = embedded[pending[texts[i]]]
	}
	return out, nil
}
