package routing

import "testing"

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		template string
		actual   string
		want     bool
	}{
		{"exact match", "/users", "/users", true},
		{"wildcard captures segment", "/users/{id}", "/users/42", true},
		{"extra segment fails", "/users/{id}", "/users/42/extra", false},
		{"missing segment fails", "/users/{id}", "/users", false},
		{"different literal fails", "/a/b", "/a/c", false},
		{"trailing slash insignificant", "/users/", "/users", true},
		{"leading slash insignificant", "users", "/users", true},
		{"case sensitive", "/Users", "/users", false},
		{"wildcard between literals", "/a/{id}/b", "/a/7/b", true},
		{"wildcard does not span segments", "/a/{id}", "/a/7/b", false},
		{"no partial-segment wildcard", "/a/x{id}", "/a/x7", false},
		{"root matches root", "/", "/", true},
		{"root does not match path", "/", "/users", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.template, tt.actual); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.template, tt.actual, got, tt.want)
			}
		})
	}
}

func TestExtractParams(t *testing.T) {
	tests := []struct {
		name     string
		template string
		actual   string
		want     map[string]string
	}{
		{"single capture", "/users/{id}", "/users/42", map[string]string{"id": "42"}},
		{"two captures", "/a/{x}/b/{y}", "/a/1/b/2", map[string]string{"x": "1", "y": "2"}},
		{"no captures", "/users", "/users", map[string]string{}},
		{"mismatch yields empty", "/a/b", "/a/c", map[string]string{}},
		{"length mismatch yields empty", "/a/{x}", "/a/1/2", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractParams(tt.template, tt.actual)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractParams() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("ExtractParams()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
