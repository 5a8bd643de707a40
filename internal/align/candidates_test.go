package align

import (
	"context"
	"testing"

	"kr.dev/diff"

	"submerge/internal/textutil"
)

func TestSearchSplit(t *testing.T) {
	ctx := context.Background()
	exact := (&pairScorer{}).Similarity

	t.Run("first best segmentation kept on ties", func(t *testing.T) {
		got, err := searchSplit(ctx, fixedScore(0.5), `Hey, how are you?\N I'm fine thank you.`, []string{"a", "b", "c"}, 0)
		if err != nil {
			t.Fatal(err)
		}
		diff.Test(t, t.Errorf, got.segments, []string{"Hey,", "how are you?", "I'm fine thank you."})
		diff.Test(t, t.Errorf, got.scores, []float64{0.5, 0.5, 0.5})
		if got.score != 0.5 {
			t.Fatalf("score = %v, want 0.5", got.score)
		}
	})

	t.Run("exact segments", func(t *testing.T) {
		got, err := searchSplit(ctx, exact, "Hey, you.", []string{"Hey,", "you."}, 0)
		if err != nil {
			t.Fatal(err)
		}
		if got.score != 1 || len(got.segments) != 2 {
			t.Fatalf("searchSplit = %+v", got)
		}
	})

	t.Run("unpaired segments count as zero", func(t *testing.T) {
		got, err := searchSplit(ctx, exact, "Hey, you.", []string{"Hey,"}, 0)
		if err != nil {
			t.Fatal(err)
		}
		if got.score != 0.5 || len(got.scores) != 1 {
			t.Fatalf("searchSplit = %+v", got)
		}
	})

	t.Run("no boundaries", func(t *testing.T) {
		got, err := searchSplit(ctx, exact, "A and B.", []string{"A.", "B."}, 0)
		if err != nil {
			t.Fatal(err)
		}
		if got.score != 0 || got.segments != nil {
			t.Fatalf("searchSplit = %+v", got)
		}
	})

	t.Run("gain below threshold rejected", func(t *testing.T) {
		got, err := searchSplit(ctx, fixedScore(0.1), "Hey, you.", []string{"x", "y"}, semanticGain)
		if err != nil {
			t.Fatal(err)
		}
		if got.score != 0 || got.segments != nil {
			t.Fatalf("searchSplit = %+v", got)
		}
	})
}

func TestSearchMerge(t *testing.T) {
	ctx := context.Background()

	t.Run("lexical prefix", func(t *testing.T) {
		got, err := searchMerge(ctx, (&pairScorer{}).Similarity, []string{"A.", "B.", "C."}, "A. B.", mergeSearch{join: spaceJoin, scoreSingle: true})
		if err != nil {
			t.Fatal(err)
		}
		if got != (mergeResult{score: 1, lines: 2}) {
			t.Fatalf("searchMerge = %+v", got)
		}
	})

	t.Run("ellipsis fused", func(t *testing.T) {
		scorer := &pairScorer{scores: map[[2]string]float64{{"I was going home", "I was going"}: 0.95}}
		got, err := searchMerge(ctx, scorer.Similarity, []string{`{\i1}I was...`, "...going", "home"}, "I was going", mergeSearch{
			join:    ellipsisJoin,
			prepare: textutil.StripStyling,
			minGain: semanticGain,
		})
		if err != nil {
			t.Fatal(err)
		}
		if got != (mergeResult{score: 1, lines: 2}) {
			t.Fatalf("searchMerge = %+v", got)
		}
	})

	t.Run("small gains ignored", func(t *testing.T) {
		scorer := &pairScorer{scores: map[[2]string]float64{
			{"a b", "t"}:   0.05,
			{"a b c", "t"}: 0.3,
		}}
		got, err := searchMerge(ctx, scorer.Similarity, []string{"a", "b", "c"}, "t", mergeSearch{join: spaceJoin, minGain: semanticGain})
		if err != nil {
			t.Fatal(err)
		}
		if got != (mergeResult{score: 0.3, lines: 3}) {
			t.Fatalf("searchMerge = %+v", got)
		}
	})

	t.Run("empty window", func(t *testing.T) {
		got, err := searchMerge(ctx, fixedScore(1), nil, "t", mergeSearch{join: spaceJoin, scoreSingle: true})
		if err != nil {
			t.Fatal(err)
		}
		if got != (mergeResult{lines: 1}) {
			t.Fatalf("searchMerge = %+v", got)
		}
	})
}

func TestEllipsisJoin(t *testing.T) {
	tests := []struct {
		acc, next, want string
	}{
		{"I was...", "...going", "I was going"},
		{"I was...", "going", "I was... going"},
		{"I was", "...going", "I was ...going"},
		{"Wait", "what?", "Wait what?"},
	}
	for _, tt := range tests {
		if got := ellipsisJoin(tt.acc, tt.next); got != tt.want {
			t.Errorf("ellipsisJoin(%q, %q) = %q, want %q", tt.acc, tt.next, got, tt.want)
		}
	}
}

func TestMergeWindow(t *testing.T) {
	tests := []struct {
		name         string
		original     []string
		p            int
		target       string
		lookahead    int
		continuation bool
		want         []string
	}{
		{
			name:      "length closer to two lines",
			original:  []string{"A.", "B.", "C."},
			target:    "AAAA B",
			lookahead: 4,
			want:      []string{"A.", "B."},
		},
		{
			name:      "single line by default",
			original:  []string{"Alpha", "Gamma"},
			target:    "Alpha",
			lookahead: 4,
			want:      []string{"Alpha"},
		},
		{
			name:         "trailing comma extends",
			original:     []string{"Well,", "x", "y", "z"},
			target:       "Well",
			lookahead:    4,
			continuation: true,
			want:         []string{"Well,", "x"},
		},
		{
			name:         "trailing ellipsis extends",
			original:     []string{"I was...", "x", "y"},
			target:       "I was",
			lookahead:    4,
			continuation: true,
			want:         []string{"I was...", "x"},
		},
		{
			name:      "trailing comma ignored without continuation",
			original:  []string{"Well,", "x", "y", "z"},
			target:    "Well",
			lookahead: 4,
			want:      []string{"Well,"},
		},
		{
			name:      "modified split count",
			original:  []string{"a", "b", "c", "d"},
			target:    "One, two, three.",
			lookahead: 4,
			want:      []string{"a", "b", "c"},
		},
		{
			name:      "capped by lookahead",
			original:  []string{"a", "b", "c", "d"},
			target:    "One, two, three.",
			lookahead: 2,
			want:      []string{"a", "b"},
		},
		{
			name:      "capped by remaining lines",
			original:  []string{"a", "b", "c"},
			p:         2,
			target:    "One, two, three.",
			lookahead: 4,
			want:      []string{"c"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := walk{original: tt.original, lookahead: tt.lookahead}
			diff.Test(t, t.Errorf, w.mergeWindow(tt.p, tt.target, tt.continuation), tt.want)
		})
	}
}

func TestSplitWindow(t *testing.T) {
	w := walk{modified: []string{"a", "b", "c", "d"}, lookahead: 2}
	diff.Test(t, t.Errorf, w.splitWindow("One, two, three.", 0), []string{"a", "b"})
	diff.Test(t, t.Errorf, w.splitWindow("One, two, three.", 3), []string{"d"})
	if got := w.splitWindow("One.", 4); got != nil {
		t.Fatalf("splitWindow past the end = %v", got)
	}
}

func TestPickBest(t *testing.T) {
	tests := []struct {
		current, split, merge float64
		want                  candidate
	}{
		{0.5, 0.5, 0.5, candidateCurrent},
		{0.4, 0.6, 0.6, candidateSplit},
		{0.4, 0.5, 0.6, candidateMerge},
		{0.7, 0.2, 0.1, candidateCurrent},
	}
	for _, tt := range tests {
		if got, _ := pickBest(tt.current, tt.split, tt.merge); got != tt.want {
			t.Errorf("pickBest(%v, %v, %v) = %s, want %s", tt.current, tt.split, tt.merge, got, tt.want)
		}
	}
}
