// internal/words/words.go
//
// Dictionary lookups for word validation.
//
// Responsibilities:
//   - Define the Lookup contract: spelling pattern in, ordered candidates out.
//   - Provide List, an offline lookup over an embedded or file-based word list.
//
// Patterns follow the Datamuse "sp" convention:
//   - plain letters match the exact spelling,
//   - '*' matches any run of letters, '?' exactly one.
//
// Lists are normalized to lowercase; callers compare case-insensitively.

package words

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/robalobadob/scrabble/apps/go-server/assets"
)

// Candidate is one dictionary match.
type Candidate struct {
	Word  string `json:"word"`
	Score int    `json:"score,omitempty"`
}

// Lookup queries a dictionary. Results are ordered best-first and hold
// at most max entries. An empty result means "not found".
type Lookup interface {
	Lookup(ctx context.Context, spelling string, max int) ([]Candidate, error)
}

// ErrEmptyList is returned when a word list has no usable entries.
var ErrEmptyList = errors.New("words: word list is empty")

// List is an in-memory dictionary.
type List struct {
	sorted []string
	set    map[string]struct{}
}

// NewList builds a List from raw words; non-alphabetic entries are dropped.
func NewList(ws []string) (*List, error) {
	l := &List{set: make(map[string]struct{}, len(ws))}
	for _, w := range ws {
		w = strings.TrimSpace(strings.ToLower(w))
		if w == "" || !isAlpha(w) {
			continue
		}
		if _, dup := l.set[w]; dup {
			continue
		}
		l.set[w] = struct{}{}
		l.sorted = append(l.sorted, w)
	}
	if len(l.sorted) == 0 {
		return nil, ErrEmptyList
	}
	sort.Strings(l.sorted)
	return l, nil
}

// DefaultList loads the embedded practice dictionary.
func DefaultList() (*List, error) {
	ws, err := assets.WordList()
	if err != nil {
		return nil, err
	}
	return NewList(ws)
}

// LoadList reads one word per line from a file.
func LoadList(p string) (*List, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ws []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if s := sc.Text(); !strings.HasPrefix(strings.TrimSpace(s), "#") {
			ws = append(ws, s)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NewList(ws)
}

// Lookup implements Lookup. Exact spellings are a set lookup; wildcard
// patterns scan the sorted list.
func (l *List) Lookup(ctx context.Context, spelling string, max int) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if max <= 0 {
		max = 1
	}
	pat := strings.ToLower(strings.TrimSpace(spelling))
	if !strings.ContainsAny(pat, "*?") {
		if _, ok := l.set[pat]; ok {
			return []Candidate{{Word: pat}}, nil
		}
		return nil, nil
	}
	var out []Candidate
	for _, w := range l.sorted {
		if ok, _ := path.Match(pat, w); ok {
			out = append(out, Candidate{Word: w})
			if len(out) == max {
				break
			}
		}
	}
	return out, nil
}

// Contains reports whether w is in the list.
func (l *List) Contains(w string) bool {
	_, ok := l.set[strings.ToLower(w)]
	return ok
}

// Len is the number of distinct words.
func (l *List) Len() int { return len(l.sorted) }

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Matches reports whether the top candidate spells word, ignoring case.
func Matches(cands []Candidate, word string) bool {
	return len(cands) > 0 && strings.EqualFold(cands[0].Word, word)
}
