package fetch

import (
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid HTTPS", "https://example.com/path", false},
		{"HTTP rejected", "http://example.com/path", true},
		{"javascript scheme rejected", "javascript:alert(1)", true},
		{"data scheme rejected", "data:text/html,<h1>Hi</h1>", true},
		{"FTP rejected", "ftp://example.com/file", true},
		{"empty string", "", true},
		{"no host", "https://", true},
		{"valid with port", "https://example.com:8080/path", false},
		{"valid with query", "https://example.com/path?q=test&a=b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid movie ID", "movie/free-the-exorcist-hd-75043", false},
		{"valid tv ID", "tv/watch-breaking-bad-39516", false},
		{"valid numeric", "12345", false},
		{"empty", "", true},
		{"path traversal dots", "../../etc/passwd", true},
		{"shell injection semicolon", "123; rm -rf /", true},
		{"shell injection backtick", "123`whoami`", true},
		{"shell injection dollar", "$(cat /etc/passwd)", true},
		{"newline injection", "123\n456", true},
		{"pipe injection", "123|ls", true},
		{"ampersand injection", "123&whoami", true},
		{"too long", string(make([]byte, 300)), true},
		{"spaces", "movie id with spaces", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNumericID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "12345", false},
		{"zero", "0", false},
		{"empty", "", true},
		{"letters", "abc", true},
		{"mixed", "123abc", true},
		{"negative", "-1", true},
		{"decimal", "1.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNumericID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNumericID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestEncodeQuery(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"breaking bad", "breaking-bad"},
		{"the office", "the-office"},
		{"star wars", "star-wars"},
		{"  extra   spaces  ", "extra-spaces"},
		{"special&chars=here", "special&chars=here"},
		{"singleword", "singleword"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := EncodeQuery(tt.input)
			if got != tt.expected {
				t.Errorf("EncodeQuery(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBuildURL(t *testing.T) {
	got := BuildURL("https://flixhq.to/", "search", "star wars")
	if got != "https://flixhq.to/search/star%20wars" {
		t.Errorf("BuildURL = %q", got)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		path  string
		query map[string]string
		want  string
	}{
		{"base and relative path", "https://api.example.com/", "/v1/sources", nil, "https://api.example.com/v1/sources"},
		{"absolute path ignores base", "https://api.example.com", "https://other.example.com/x", nil, "https://other.example.com/x"},
		{"query merged", "", "https://api.example.com/search?page=2", map[string]string{"q": "dune"}, "https://api.example.com/search?page=2&q=dune"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolve(tt.base, tt.path, tt.query)
			if err != nil {
				t.Fatalf("resolve() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}
