package game

import (
	"strings"
	"unicode"
)

// ExtractionKind classifies what the occupied squares spell.
type ExtractionKind int

const (
	NoWord ExtractionKind = iota // nothing on the board
	Gap                          // occupied squares are not contiguous
	Word                         // one contiguous run
)

func (k ExtractionKind) String() string {
	switch k {
	case Gap:
		return "gap"
	case Word:
		return "word"
	}
	return "none"
}

// Extraction is the derived word; it is never stored.
type Extraction struct {
	Kind  ExtractionKind
	Word  string // upper-case, set only for Kind == Word
	First int    // first occupied index, -1 when NoWord
	Last  int    // last occupied index, -1 when NoWord
}

// ExtractWord scans the whole board. First is the first occupied index
// and Last the final occupied index; any empty square between them is a
// Gap.
func ExtractWord(b *Board) Extraction {
	occ := b.Occupancy()
	first, last := -1, -1
	for i, o := range occ {
		if !o {
			continue
		}
		if first == -1 {
			first = i
		}
		last = i
	}
	if first == -1 {
		return Extraction{Kind: NoWord, First: -1, Last: -1}
	}
	for i := first; i <= last; i++ {
		if !occ[i] {
			return Extraction{Kind: Gap, First: first, Last: last}
		}
	}

	var sb strings.Builder
	for i := first; i <= last; i++ {
		sb.WriteRune(unicode.ToUpper(b.squares[i].Occupant.Letter))
	}
	return Extraction{Kind: Word, Word: sb.String(), First: first, Last: last}
}
