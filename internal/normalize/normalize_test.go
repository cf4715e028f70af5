package normalize

import (
	"reflect"
	"testing"
)

func TestField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty string", "", ""},
		{"already normalized", "BEDFORD", "BEDFORD"},
		{"lowercase", "bedford", "BEDFORD"},
		{"leading/trailing spaces", "  bedford  ", "BEDFORD"},
		{"internal whitespace run", "VAN   BUREN", "VAN BUREN"},
		{"tabs and newlines", "VAN\tBUREN\n", "VAN BUREN"},
		{"accented characters", "Peña", "PENA"},
		{"mixed accents and case", "josé maría", "JOSE MARIA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Field(tt.input); got != tt.want {
				t.Errorf("Field(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFullStreet(t *testing.T) {
	tests := []struct {
		name                           string
		preDir, street, strType, postDir string
		want                           string
	}{
		{"all components", "N", "BEDFORD", "AVE", "SW", "N BEDFORD AVE SW"},
		{"no directionals", "", "BEDFORD", "AVE", "", "BEDFORD AVE"},
		{"street only", "", "BEDFORD", "", "", "BEDFORD"},
		{"all empty", "", "", "", "", ""},
		{"unnormalized input", " n ", "bedford", "ave", "", "N BEDFORD AVE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FullStreet(tt.preDir, tt.street, tt.strType, tt.postDir)
			if got != tt.want {
				t.Errorf("FullStreet() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("N BEDFORD AVE")
	want := []string{"N", "BEDFORD", "AVE"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens() = %v, want %v", got, want)
	}

	if got := Tokens(""); len(got) != 0 {
		t.Errorf("Tokens(\"\") = %v, want empty", got)
	}
}

func TestFirstLetter(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"BEDFORD", "B"},
		{"bedford", "B"},
		{"", ""},
		{"42ND", ""},
	}

	for _, tt := range tests {
		if got := FirstLetter(tt.input); got != tt.want {
			t.Errorf("FirstLetter(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
