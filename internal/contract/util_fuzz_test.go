package contract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzTruncateText fuzzes TruncateText with random strings and widths.
func FuzzTruncateText(f *testing.F) {
	seeds := []struct {
		s     string
		width int
	}{
		{"fix login redirect", 10},
		{"", 5},
		{"한국어 커밋", 4},
		{"short", 100},
		{"abc", 0},
	}
	for _, seed := range seeds {
		f.Add(seed.s, seed.width)
	}

	f.Fuzz(func(t *testing.T, s string, width int) {
		if !utf8.ValidString(s) {
			return
		}
		out := TruncateText(s, width)
		if width > 3 && utf8.RuneCountInString(s) > width {
			if utf8.RuneCountInString(out) != width || !strings.HasSuffix(out, "...") {
				t.Fatalf("TruncateText(%q, %d) = %q", s, width, out)
			}
			return
		}
		if out != s {
			t.Fatalf("TruncateText(%q, %d) changed a string that fits", s, width)
		}
	})
}

// FuzzParseRepoFlag ensures the --repo parser never panics.
func FuzzParseRepoFlag(f *testing.F) {
	for _, seed := range []string{"api=/srv/api", "web=./web=https://github.com/acme/web", "=", "noequals", "a==b"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, spec string) {
		r, err := ParseRepoFlag(spec)
		if err == nil && (r.Name == "" || r.Path == "") {
			t.Fatalf("ParseRepoFlag(%q) accepted an empty name or path", spec)
		}
	})
}
