package sanitizer

import "testing"

func TestSanitizeImageRef(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "relative path gets leading slash", input: "images/borgo.jpg", want: "/images/borgo.jpg"},
		{name: "dot relative path", input: "./images/borgo.jpg", want: "/images/borgo.jpg"},
		{name: "site relative path untouched", input: "/images/borgo.jpg", want: "/images/borgo.jpg"},
		{name: "absolute url keeps path case", input: "https://Cdn.Example.com/Borgo/Main.JPG", want: "https://cdn.example.com/Borgo/Main.JPG"},
		{name: "tracking parameters dropped", input: "https://cdn.example.com/a.jpg?utm_campaign=x&w=800", want: "https://cdn.example.com/a.jpg?w=800"},
		{name: "fragment dropped", input: "http://cdn.example.com/a.jpg#top", want: "http://cdn.example.com/a.jpg"},
		{name: "other schemes rejected", input: "ftp://cdn.example.com/a.jpg", want: ""},
		{name: "javascript rejected", input: "javascript:alert(1)", want: ""},
		{name: "data uri rejected", input: "data:image/png;base64,AAAA", want: ""},
		{name: "empty", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeImageRef(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeImageRef(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if got != "" {
				if again := SanitizeImageRef(got); again != got {
					t.Errorf("SanitizeImageRef not idempotent: %q -> %q", got, again)
				}
			}
		})
	}
}
