package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeFeatures(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "trim whitespace",
			input: []string{" Wi-Fi ", "  Aria condizionata  "},
			want:  []string{"Wi-Fi", "Aria condizionata"},
		},
		{
			name:  "case-insensitive duplicates keep first spelling",
			input: []string{"Parcheggio", "parcheggio", "PARCHEGGIO"},
			want:  []string{"Parcheggio"},
		},
		{
			name:  "filter empty strings",
			input: []string{"Terrazza", "", "  ", "Vista mare"},
			want:  []string{"Terrazza", "Vista mare"},
		},
		{
			name:  "empty input",
			input: []string{},
			want:  []string{},
		},
		{
			name:  "nil input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeFeatures(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeFeatures(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeImages(t *testing.T) {
	input := []string{
		"images/casa-1.jpg",
		"/images/casa-1.jpg",
		"https://CDN.example.com/Casa-1.JPG?utm_source=ig",
		"javascript:alert(1)",
	}
	want := []string{
		"/images/casa-1.jpg",
		"https://cdn.example.com/Casa-1.JPG",
	}

	got := NormalizeImages(input)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeImages() = %v, want %v", got, want)
	}
}
