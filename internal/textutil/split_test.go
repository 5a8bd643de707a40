package textutil

import (
	"slices"
	"strings"
	"testing"

	"kr.dev/diff"
)

func TestBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{
			name:  "mixed punctuation and breaks",
			input: `...w-what? \NAre you insane?!!\NNo, I am not! You are\Nsimply overreacting...`,
			want:  []int{10, 30, 35, 45, 55},
		},
		{
			name:  "comma and question",
			input: `Hey, how are you?\N I'm fine thank you.`,
			want:  []int{4, 17},
		},
		{
			name:  "terminal punctuation ignored",
			input: "A.",
			want:  nil,
		},
		{
			name:  "leading ellipsis ignored",
			input: "...and then",
			want:  nil,
		},
		{
			name:  "consecutive break markers",
			input: `one\N\Ntwo`,
			want:  []int{5},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff.Test(t, t.Errorf, Boundaries(tt.input), tt.want)
		})
	}
}

func TestSplitCount(t *testing.T) {
	input := `...w-what? \NAre you insane?!!\NNo, I am not! You are\Nsimply overreacting...`
	if got := SplitCount(input); got != 6 {
		t.Fatalf("SplitCount() = %d, want 6", got)
	}
	if got := SplitCount("No punctuation here"); got != 1 {
		t.Fatalf("SplitCount(no boundaries) = %d, want 1", got)
	}
}

func TestSplitGroups(t *testing.T) {
	got := SplitGroups(`Hey, how are you?\N I'm fine thank you.`)
	want := [][]string{
		{"Hey,", "how are you?", "I'm fine thank you."},
		{"Hey,", "how are you? I'm fine thank you."},
		{"Hey, how are you?", "I'm fine thank you."},
	}
	diff.Test(t, t.Errorf, got, want)
}

func TestSplitGroupsWithoutBoundaries(t *testing.T) {
	if got := SplitGroups("A and B."); len(got) != 0 {
		t.Fatalf("SplitGroups() = %v, want none", got)
	}
}

func TestSplitGroupsReconstructLine(t *testing.T) {
	line := `Wait, what? You mean\Nhe left already; without us?`
	want := CollapseSpaces(strings.ReplaceAll(line, BreakMarker, " "))
	groups := SplitGroups(line)
	if len(groups) != (1<<len(Boundaries(line)))-1 {
		t.Fatalf("expected one group per boundary subset, got %d", len(groups))
	}
	for _, group := range groups {
		joined := strings.Join(group, " ")
		if joined != want {
			t.Errorf("segments %q rebuild %q, want %q", group, joined, want)
		}
	}
}

func TestSplitGroupsSortedAndUnique(t *testing.T) {
	groups := SplitGroups(`Oh! Oh!\NOh...`)
	if !slices.IsSortedFunc(groups, slices.Compare[[]string]) {
		t.Fatalf("groups not sorted: %q", groups)
	}
	for i := 1; i < len(groups); i++ {
		if slices.Equal(groups[i-1], groups[i]) {
			t.Fatalf("duplicate segmentation %q", groups[i])
		}
	}
}

func TestSplitGroupsCapsBoundaries(t *testing.T) {
	line := strings.Repeat("a, ", MaxSplitBoundaries+4) + "end"
	groups := SplitGroups(line)
	if want := (1 << MaxSplitBoundaries) - 1; len(groups) != want {
		t.Fatalf("len(groups) = %d, want %d", len(groups), want)
	}
}
