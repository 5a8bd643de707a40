package textutil

import "testing"

func TestStripStyling(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no tags", "Hello there", "Hello there"},
		{"leading tag", `{\i1}Hello{\i0} there`, "Hello there"},
		{"only tags", `{\pos(1,2)}{\fad(100,100)}`, ""},
		{"unclosed brace kept", "a {b", "a {b"},
		{"nested open", "a{b{c}d}", "ad}"},
		{"tag spanning newline", "{\\i1\nx}Hello", "Hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripStyling(tt.input); got != tt.want {
				t.Errorf("StripStyling(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestForSemanticComparison(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"break marker", `Are you insane?!!\NNo, I am not!`, "Are you insane?!! No, I am not!"},
		{"quotes removed", `He said "run"`, "He said run"},
		{"styling and spaces", `{\b1}Wake   up,{\b0}\N  already!`, "Wake up, already!"},
		{"soft break and hard space", `one\ntwo\hthree`, "one two three"},
		{"keeps case and punctuation", "Huh? That's odd...", "Huh? That's odd..."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForSemanticComparison(tt.input); got != tt.want {
				t.Errorf("ForSemanticComparison(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestForLexicalComparison(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"punctuation dropped", "Huh? That's odd...", "huh thats odd"},
		{"break marker", `Come on,\Nwake up...`, "come on wake up"},
		{"dash leaves no double space", "w-what - now", "wwhat now"},
		{"digits dropped", "Room 101", "room"},
		{"styling", `{\an8}Daddy... Mommy...`, "daddy mommy"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForLexicalComparison(tt.input); got != tt.want {
				t.Errorf("ForLexicalComparison(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizersIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		`...w-what? \NAre you insane?!!\NNo, I am not! You are\Nsimply overreacting...`,
		`{\i1}"Quoted"{\i0}   text\N with  breaks`,
		`\"N odd escape`,
		"Ünïcödé — ﬁne, “smart” quotes",
		"tab\tseparated\r\nlines",
		"{\\i1\nx}Hello",
	}

	for _, input := range inputs {
		once := ForSemanticComparison(input)
		if twice := ForSemanticComparison(once); twice != once {
			t.Errorf("ForSemanticComparison not idempotent for %q: %q then %q", input, once, twice)
		}
		once = ForLexicalComparison(input)
		if twice := ForLexicalComparison(once); twice != once {
			t.Errorf("ForLexicalComparison not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}
