package similarity

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"submerge/internal/textutil"
)

// DefaultDimensions is the vector width used when none is configured.
const DefaultDimensions = 512

// HashedEmbedder builds vectors offline by feature hashing. Each stemmed word
// adds a signed unit to the bucket its xxhash selects; adjacent word pairs
// add half a unit when Bigrams is set. Vectors are L2-normalized.
type HashedEmbedder struct {
	Dimensions int
	Bigrams    bool
	Model      string
}

// NewHashedEmbedder returns a HashedEmbedder of the given width with bigrams
// enabled.
func NewHashedEmbedder(dimensions int) *HashedEmbedder {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &HashedEmbedder{Dimensions: dimensions, Bigrams: true, Model: "hashed-porter2"}
}

// Name implements Embedder.
func (h *HashedEmbedder) Name() string {
	return fmt.Sprintf("local/%s/%d", h.Model, h.Dimensions)
}

// Embed implements Embedder. It never blocks and only fails on cancellation.
func (h *HashedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.vector(text)
	}
	return out, nil
}

func (h *HashedEmbedder) vector(text string) []float32 {
	vec := make([]float32, h.Dimensions)
	terms := textutil.Terms(text)
	for i, term := range terms {
		h.add(vec, term, 1)
		if h.Bigrams && i > 0 {
			h.add(vec, terms[i-1]+" "+term, 0.5)
		}
	}
	textutil.Normalize(vec)
	return vec
}

func (h *HashedEmbedder) add(vec []float32, feature string, weight float32) {
	sum := xxhash.Sum64String(feature)
	bucket := sum % uint64(len(vec))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[bucket] += weight
}
