package services

import "testing"

func TestURLHash(t *testing.T) {
	hash := URLHash("https://example.com/article")
	if len(hash) != 32 {
		t.Errorf("Expected a 32-char hex digest, got %q", hash)
	}
	if hash != URLHash("https://example.com/article") {
		t.Error("Expected the hash to be stable")
	}
	if hash == URLHash("https://example.com/article/") {
		t.Error("Expected different URLs to hash differently")
	}
}

func TestIsValidURLFormat(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"https://example.com/a", true},
		{"http://example.com", true},
		{"ftp://example.com/file", false},
		{"example.com/a", false},
		{"https://", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidURLFormat(tt.url); got != tt.valid {
			t.Errorf("IsValidURLFormat(%q) = %v, want %v", tt.url, got, tt.valid)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HTTPS://Example.COM/Path/", "https://example.com/Path"},
		{"https://example.com:443/a", "https://example.com/a"},
		{"http://example.com:80/a", "http://example.com/a"},
		{"http://example.com:8080/a", "http://example.com:8080/a"},
		{"https://example.com/a?page=2#section", "https://example.com/a?page=2"},
		{"https://example.com/", "https://example.com/"},
		{"https://example.com/a//", "https://example.com/a"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
