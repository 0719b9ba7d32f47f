package platform

import "testing"

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare host gains a scheme", "blog.example.com", "http://blog.example.com"},
		{"http scheme kept", "http://blog.example.com", "http://blog.example.com"},
		{"https scheme kept", "https://blog.example.com", "https://blog.example.com"},
		{"surrounding whitespace trimmed", "  blog.example.com ", "http://blog.example.com"},
		{"empty input stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeBaseURL(tt.in); got != tt.want {
				t.Errorf("NormalizeBaseURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
