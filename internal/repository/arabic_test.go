package repository

import "testing"

func TestIsArabicText(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"الصف الأول", true},
		{"وحدة  الجبر", true},
		{"Grade", false},
		{"الصف 1", false},
		{"الصف-الأول", false},
		{"", true},
		{"   ", true},
		{"الصف\tالأول", true},
	}
	for _, tt := range tests {
		if got := isArabicText(tt.in); got != tt.want {
			t.Errorf("isArabicText(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
