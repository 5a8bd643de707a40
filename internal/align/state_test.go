package align

import (
	"encoding/json"
	"testing"
)

func TestStateTransitions(t *testing.T) {
	start := State{Position: 4, Offset: 2, PrevOffset: 1, PrevAction: ActionSplit}
	tests := []struct {
		name string
		got  State
		want State
	}{
		{"advance", start.advance(), State{Position: 5, Offset: 2, PrevOffset: 1}},
		{"skip", start.skip(), State{Position: 5, Offset: 2, PrevOffset: 1, PrevAction: ActionSplit}},
		{"split", start.split(3), State{Position: 5, Offset: 4, PrevOffset: 2, PrevAction: ActionSplit}},
		{"merge", start.merge(3), State{Position: 7, Offset: 0, PrevOffset: 2, PrevAction: ActionMerge}},
		{"keep", start.keep(), State{Position: 6, Offset: 2, PrevOffset: 1}},
		{"insertion", start.insertion(), State{Position: 4, Offset: 3, PrevOffset: 2, PrevAction: ActionNext}},
		{"reattach", start.reattach(), State{Position: 5, Offset: 1, PrevOffset: 1, PrevAction: ActionPrev}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %+v, want %+v", tt.got, tt.want)
			}
			if tt.got.potential() <= start.potential() {
				t.Fatalf("potential did not increase: %d -> %d", start.potential(), tt.got.potential())
			}
			if tt.got.ModifiedIndex() < start.ModifiedIndex() {
				t.Fatalf("modified index moved back: %d -> %d", start.ModifiedIndex(), tt.got.ModifiedIndex())
			}
		})
	}
}

func TestActionText(t *testing.T) {
	for _, action := range Actions() {
		text, err := action.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", action, err)
		}
		var parsed Action
		if err := parsed.UnmarshalText(text); err != nil || parsed != action {
			t.Fatalf("UnmarshalText(%q) = %v, %v", text, parsed, err)
		}
	}
	if _, err := ParseAction("interjection"); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestRecordJSON(t *testing.T) {
	rec := Record{Original: Span{2, 4}, Modified: Span{3, 4}, Action: ActionMerge, Score: 0.9, Pass: PassDistance}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"original":{"start":2,"end":4},"modified":{"start":3,"end":4},"action":"merge","score":0.9,"pass":"distance"}`
	if string(data) != want {
		t.Fatalf("json = %s, want %s", data, want)
	}
}

func TestSpanString(t *testing.T) {
	tests := map[Span]string{
		{Start: 3, End: 3}: "-",
		{Start: 3, End: 4}: "3",
		{Start: 3, End: 6}: "3-5",
	}
	for span, want := range tests {
		if got := span.String(); got != want {
			t.Errorf("%+v.String() = %q, want %q", span, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize([]Record{
		{Action: ActionMatch},
		{Action: ActionNone},
		{Action: ActionMatch},
		{Action: ActionNext},
	})
	if summary.Records != 4 || summary.Unmatched != 1 || summary.ByAction["match"] != 2 || summary.ByAction["next"] != 1 {
		t.Fatalf("Summarize = %+v", summary)
	}
}
