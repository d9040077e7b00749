package derive

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"punctuation stripped", "Hello, World!!", "hello-world"},
		{"already a slug", "hello-world", "hello-world"},
		{"surrounding space", "  Trimmed Title  ", "trimmed-title"},
		{"multiple spaces collapse", "a   b", "a-b"},
		{"tabs and newlines", "a\tb\nc", "a-b-c"},
		{"repeated hyphens collapse", "a -- b", "a-b"},
		{"digits kept", "Top 10 Posts of 2026", "top-10-posts-of-2026"},
		{"mixed case", "GoLang Tips", "golang-tips"},
		{"unicode stripped", "Café Culture", "caf-culture"},
		{"only specials", "!!!???", ""},
		{"empty", "", ""},
		{"apostrophes", "It's Dave's Blog", "its-daves-blog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.title); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSlug_Deterministic(t *testing.T) {
	titles := []string{"Hello, World!!", "A  B -- C", "", "Top 10"}
	for _, title := range titles {
		first := Slug(title)
		second := Slug(title)
		if first != second {
			t.Errorf("Slug(%q) not deterministic: %q then %q", title, first, second)
		}
	}
}

func TestSummary(t *testing.T) {
	long := strings.Repeat("x", 500)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short content passes through", "a short post", "a short post"},
		{"exactly 160", strings.Repeat("y", 160), strings.Repeat("y", 160)},
		{"long content truncated", long, long[:160]},
		{"empty", "", ""},
		{
			"multi-byte rune at the boundary kept whole",
			strings.Repeat("a", 159) + "é plus trailing text",
			strings.Repeat("a", 159) + "é",
		},
		{
			"multi-byte content counted by characters",
			strings.Repeat("é", 300),
			strings.Repeat("é", 160),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summary(tt.content)
			if got != tt.want {
				t.Errorf("Summary() = %q (len %d), want %q (len %d)", got, len(got), tt.want, len(tt.want))
			}
		})
	}
}

func TestSummary_NeverSplitsRunes(t *testing.T) {
	// 159 single-byte characters followed by a two-byte one: a byte-based cut
	// would land inside the rune and leave a lone continuation byte.
	content := strings.Repeat("a", 159) + "é" + strings.Repeat("b", 50)

	got := Summary(content)
	if !utf8.ValidString(got) {
		t.Fatalf("Summary produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 160 {
		t.Errorf("Summary rune count = %d, want 160", n)
	}
	if !strings.HasSuffix(got, "é") {
		t.Errorf("Summary = %q, want the boundary rune kept whole", got)
	}
}

func TestSummary_IsPrefixOfContent(t *testing.T) {
	content := "The quick brown fox jumps over the lazy dog. " + strings.Repeat("More text here. ", 30)
	got := Summary(content)
	if len(got) != 160 {
		t.Fatalf("Summary length = %d, want 160", len(got))
	}
	if !strings.HasPrefix(content, got) {
		t.Error("Summary must be an exact prefix of the content")
	}
}

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "word"
	}
	return strings.Join(parts, " ")
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		name      string
		wordCount int
		want      int
	}{
		{"empty", 0, 1},
		{"one word", 1, 1},
		{"199 words", 199, 1},
		{"exactly 200 words", 200, 1},
		{"201 words", 201, 2},
		{"400 words", 400, 2},
		{"401 words", 401, 3},
		{"1000 words", 1000, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadingTime(words(tt.wordCount)); got != tt.want {
				t.Errorf("ReadingTime(%d words) = %d, want %d", tt.wordCount, got, tt.want)
			}
		})
	}
}

func TestReadingTime_WhitespaceRuns(t *testing.T) {
	// A word is a maximal run of non-whitespace; extra whitespace never
	// inflates the count.
	content := "  one \t two\n\nthree   "
	if got := ReadingTime(content); got != 1 {
		t.Errorf("ReadingTime(%q) = %d, want 1", content, got)
	}
}
