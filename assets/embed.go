// assets/embed.go
//
// Embedded defaults so the server runs without any files configured:
//   - pieces.json: the standard English tile distribution (no blanks).
//   - words.txt:   a small offline practice dictionary.

package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed pieces.json words.txt
var FS embed.FS

// Pieces returns the raw embedded tile distribution document.
func Pieces() ([]byte, error) {
	return FS.ReadFile("pieces.json")
}

// WordList returns the embedded dictionary, one lowercase word per entry.
// Blank lines and # comments are skipped.
func WordList() ([]string, error) {
	f, err := FS.Open("words.txt")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}
