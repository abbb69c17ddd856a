package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncatePath checks that truncation never exceeds the width and never panics.
func FuzzTruncatePath(f *testing.F) {
	f.Add("src/main.go", 5)
	f.Add("", 0)
	f.Add("αβγδεζηθ/file.go", 6)
	f.Add("a/b", -1)

	f.Fuzz(func(t *testing.T, path string, width int) {
		got := TruncatePath(path, width)
		if width > 3 && utf8.RuneCountInString(got) > width && utf8.ValidString(path) {
			t.Fatalf("TruncatePath(%q, %d) = %q exceeds width", path, width, got)
		}
	})
}

// FuzzMatchesFilter checks that an empty filter always matches.
func FuzzMatchesFilter(f *testing.F) {
	f.Add("src/main.go", "src/")
	f.Add("", "")
	f.Fuzz(func(t *testing.T, path, filter string) {
		if filter == "" && !MatchesFilter(path, filter) {
			t.Fatalf("empty filter rejected %q", path)
		}
	})
}
