// internal/game/types.go
//
// Core type definitions for the board engine.
// Defines:
//   - Multiplier: static premium attribute of a square.
//   - Square: one board cell with an optional occupant.
//   - Location: where a tile currently lives (rack or a square).

package game

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/robalobadob/scrabble/apps/go-server/internal/tiles"
)

// Multiplier is assigned at board construction and never changes.
type Multiplier int

const (
	None Multiplier = iota
	DoubleLetter
	TripleLetter
	DoubleWord
	TripleWord
)

var multiplierCodes = map[Multiplier]string{
	None:         "-",
	DoubleLetter: "DL",
	TripleLetter: "TL",
	DoubleWord:   "DW",
	TripleWord:   "TW",
}

// String returns the short code, e.g. "DW".
func (m Multiplier) String() string {
	if s, ok := multiplierCodes[m]; ok {
		return s
	}
	return fmt.Sprintf("Multiplier(%d)", int(m))
}

// MarshalJSON encodes the multiplier as its short code.
func (m Multiplier) MarshalJSON() ([]byte, error) { return json.Marshal(m.String()) }

// UnmarshalJSON accepts the codes ParseMultiplier does.
func (m *Multiplier) UnmarshalJSON(b []byte) error {
	var code string
	if err := json.Unmarshal(b, &code); err != nil {
		return err
	}
	v, err := ParseMultiplier(code)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// LetterFactor scales a single tile's points: 2 or 3 on letter squares, 1 elsewhere.
func (m Multiplier) LetterFactor() int {
	switch m {
	case DoubleLetter:
		return 2
	case TripleLetter:
		return 3
	}
	return 1
}

// WordFactor scales the whole word: 2 or 3 on word squares, 1 elsewhere.
func (m Multiplier) WordFactor() int {
	switch m {
	case DoubleWord:
		return 2
	case TripleWord:
		return 3
	}
	return 1
}

// ParseMultiplier accepts the layout codes plus the plain numeric
// letter factors "1", "2" and "3".
func ParseMultiplier(code string) (Multiplier, error) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "", "-", "1", "NONE":
		return None, nil
	case "DL", "2":
		return DoubleLetter, nil
	case "TL", "3":
		return TripleLetter, nil
	case "DW":
		return DoubleWord, nil
	case "TW":
		return TripleWord, nil
	}
	return None, fmt.Errorf("game: unknown multiplier %q", code)
}

// Layout is the ordered list of square multipliers of a board.
type Layout []Multiplier

// DefaultLayout is the middle row of a standard 15x15 board.
var DefaultLayout = Layout{
	TripleWord, None, None, DoubleLetter, None, None, None, DoubleWord,
	None, None, None, DoubleLetter, None, None, TripleWord,
}

// ParseLayout parses a comma separated list such as "TW,-,DL,-,DW".
func ParseLayout(s string) (Layout, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("game: empty layout")
	}
	parts := strings.Split(s, ",")
	out := make(Layout, 0, len(parts))
	for _, p := range parts {
		m, err := ParseMultiplier(p)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// String renders the layout as comma separated codes, the form
// ParseLayout reads.
func (l Layout) String() string {
	codes := make([]string, len(l))
	for i, m := range l {
		codes[i] = m.String()
	}
	return strings.Join(codes, ",")
}

// Square is one board cell. A non-nil Occupant is the only occupancy
// signal; there is no separate flag.
type Square struct {
	Index      int
	Multiplier Multiplier
	Occupant   *tiles.Tile
}

// Occupied reports whether a tile sits on the square.
func (s Square) Occupied() bool { return s.Occupant != nil }

// Location says who owns a tile.
type Location struct {
	OnRack bool
	Square int // valid when !OnRack
}

func (l Location) String() string {
	if l.OnRack {
		return "rack"
	}
	return fmt.Sprintf("square %d", l.Square)
}
