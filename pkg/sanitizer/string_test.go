package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  Casa del Borgo  ", want: "Casa del Borgo"},
		{name: "multiple spaces between words", input: "Casa    del Borgo", want: "Casa del Borgo"},
		{name: "tabs and newlines", input: "Casa\t\ndel Borgo", want: "Casa del Borgo"},
		{name: "empty string", input: "", want: ""},
		{name: "only whitespace", input: "   \t\n  ", want: ""},
		{name: "preserve special characters", input: " Vista mare & terrazza ", want: "Vista mare & terrazza"},
		{name: "accented characters", input: " Cefalù  centro ", want: "Cefalù centro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := TrimAndNormalize(got); again != got {
				t.Errorf("TrimAndNormalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "keeps paragraph breaks",
			input: "Primo  paragrafo.\r\n\r\n\r\nSecondo   paragrafo.",
			want:  "Primo paragrafo.\n\nSecondo paragrafo.",
		},
		{
			name:  "drops leading and trailing blank lines",
			input: "\n\n  Testo \n\n",
			want:  "Testo",
		},
		{
			name:  "empty",
			input: "   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "title to slug", input: "Casa del Borgo", want: "casa-del-borgo"},
		{name: "accents folded", input: "Villa Limón Cefalù", want: "villa-limon-cefalu"},
		{name: "punctuation collapsed", input: "  Loft -- Vista Mare!! ", want: "loft-vista-mare"},
		{name: "already a slug", input: "casa-del-borgo", want: "casa-del-borgo"},
		{name: "digits kept", input: "Appartamento 2B", want: "appartamento-2b"},
		{name: "only symbols", input: "!!!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeSlug(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeSlug(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := SanitizeSlug(got); again != got {
				t.Errorf("SanitizeSlug not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizePriority(t *testing.T) {
	tests := []struct {
		input int
		want  int
	}{
		{-5, MinPriority},
		{0, 0},
		{50, 50},
		{MaxPriority + 1, MaxPriority},
	}

	for _, tt := range tests {
		if got := NormalizePriority(tt.input); got != tt.want {
			t.Errorf("NormalizePriority(%d) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
