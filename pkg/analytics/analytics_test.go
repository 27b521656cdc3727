package analytics

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/dtnitsch/wordfreq/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"hello", "hello"},
		{"Hello,", "hello"},
		{"don't", "don"},
		{"1234", ""},
		{"...", ""},
		{"mat.", "mat"},
		{"42nd", "nd"},
		{"--Elizabeth--Jane", "elizabeth"},
		{"café", "caf"},
		{"élan", "lan"},
		{"ÉÈ", ""},
		{"ＡＢＣ", ""},
		{"word\tnext", "word"},
		{"\"Mr.", "mr"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, w := range []string{"the", "cat", "zzz", "a", "pemberley"} {
		if got := Normalize(w); got != w {
			t.Errorf("Normalize(%q) = %q, want unchanged", w, got)
		}
		once := Normalize("X" + w + "!")
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize(Normalize(x)) = %q, want %q", twice, once)
		}
	}
}

func TestNormalize_Totality(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z]+$`)
	inputs := []string{"", " ", "\x00", "\xff\xfe", "123", "!!!", "日本語", "ß", "İstanbul", "ǅemal", "MiXeD-case", "a1b2"}
	for _, in := range inputs {
		got := Normalize(in)
		if got != "" && !valid.MatchString(got) {
			t.Errorf("Normalize(%q) = %q, want empty or [a-z]+", in, got)
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{""}},
		{"a b", []string{"a", "b"}},
		{"a  b", []string{"a", "", "b"}},
		{" a", []string{"", "a"}},
		{"a\tb c", []string{"a\tb", "c"}},
	}
	for _, tt := range tests {
		if got := Tokenize(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokens(t *testing.T) {
	a := &Analytics{}
	got := a.Tokens(models.LineRecord{Text: "The cat sat on the mat. The cat ran."})
	want := []string{"the", "cat", "sat", "on", "the", "mat", "the", "cat", "ran"}

	if len(got) != len(want) {
		t.Fatalf("Tokens() returned %d tokens, want %d", len(got), len(want))
	}
	for i, tok := range got {
		if tok.Value != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, tok.Value, want[i])
		}
	}
}

func TestWordFrequency(t *testing.T) {
	a := &Analytics{}
	lines := models.Lines("The cat sat on the mat. The cat ran.", "", "1999 -- !!", "  Cat")

	got := a.WordFrequency(lines)

	want := map[string]int{"the": 3, "cat": 3, "sat": 1, "on": 1, "mat": 1, "ran": 1}
	if !reflect.DeepEqual(got.Words, want) {
		t.Errorf("Words = %v, want %v", got.Words, want)
	}
	// 9 + 1 ("") + 3 + 3 ("", "", "Cat")
	if got.RawTokens != 16 {
		t.Errorf("RawTokens = %d, want 16", got.RawTokens)
	}
	if got.KeptTokens != 10 {
		t.Errorf("KeptTokens = %d, want 10", got.KeptTokens)
	}
}

func TestWordFrequency_CountConservation(t *testing.T) {
	a := &Analytics{}
	lines := models.Lines("It is a truth universally acknowledged,", "that a single man in possession of a good fortune,", "must be in want of a wife.")

	got := a.WordFrequency(lines)

	sum := 0
	for _, c := range got.Words {
		sum += c
	}
	if sum != got.KeptTokens {
		t.Errorf("sum of counts = %d, want KeptTokens %d", sum, got.KeptTokens)
	}
}
