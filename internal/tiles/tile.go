// internal/tiles/tile.go
//
// Tile and distribution types for the practice board.
// Defines:
//   - Tile: one letter unit with a fixed point value and a bag-unique ID.
//   - Piece/Distribution: the weighted {letter, value, amount} input that
//     seeds a Bag.
//   - DefaultDistribution / ParseDistribution / LoadDistribution.

package tiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/scrabble/apps/go-server/assets"
)

// ID identifies a tile instance within one bag generation.
type ID int

// Tile is immutable once created. Two tiles with the same letter are
// interchangeable for scoring but remain distinct instances by ID.
type Tile struct {
	ID     ID
	Letter rune
	Points int
}

// String renders the tile letter as an upper-case string.
func (t Tile) String() string { return string(unicode.ToUpper(t.Letter)) }

// MarshalJSON emits the letter as a string rather than a rune number.
func (t Tile) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID     ID     `json:"id"`
		Letter string `json:"letter"`
		Points int    `json:"points"`
	}{t.ID, t.String(), t.Points})
}

// UnmarshalJSON reverses MarshalJSON. The letter must be a single rune
// and is upper-cased.
func (t *Tile) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID     ID     `json:"id"`
		Letter string `json:"letter"`
		Points int    `json:"points"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r := []rune(raw.Letter)
	if len(r) != 1 {
		return fmt.Errorf("tiles: bad letter %q", raw.Letter)
	}
	*t = Tile{ID: raw.ID, Letter: unicode.ToUpper(r[0]), Points: raw.Points}
	return nil
}

// Piece is one record of a tile distribution.
type Piece struct {
	Letter string `json:"letter" yaml:"letter"`
	Value  int    `json:"value" yaml:"value"`
	Amount int    `json:"amount" yaml:"amount"`
}

// Distribution is the full weighted letter set a bag is built from.
type Distribution []Piece

var (
	ErrEmptyDistribution = errors.New("tiles: distribution is empty")
	ErrBadPiece          = errors.New("tiles: invalid piece")
)

// Validate checks every piece: single letter, non-negative value,
// positive amount.
func (d Distribution) Validate() error {
	if len(d) == 0 {
		return ErrEmptyDistribution
	}
	for i, p := range d {
		r := []rune(p.Letter)
		if len(r) != 1 || !unicode.IsLetter(r[0]) {
			return fmt.Errorf("%w: #%d letter %q", ErrBadPiece, i, p.Letter)
		}
		if p.Value < 0 {
			return fmt.Errorf("%w: #%d %s value %d", ErrBadPiece, i, p.Letter, p.Value)
		}
		if p.Amount <= 0 {
			return fmt.Errorf("%w: #%d %s amount %d", ErrBadPiece, i, p.Letter, p.Amount)
		}
	}
	return nil
}

// Total is the number of tiles the distribution expands to.
func (d Distribution) Total() int {
	n := 0
	for _, p := range d {
		n += p.Amount
	}
	return n
}

// document is the on-disk shape: {"pieces": [...]}.
type document struct {
	Pieces Distribution `json:"pieces" yaml:"pieces"`
}

// ParseDistribution decodes a JSON distribution document.
func ParseDistribution(data []byte) (Distribution, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("tiles: decode distribution: %w", err)
	}
	if err := doc.Pieces.Validate(); err != nil {
		return nil, err
	}
	return doc.Pieces, nil
}

// LoadDistribution reads a distribution file. Files ending in .yaml or
// .yml are decoded as YAML, everything else as JSON.
func LoadDistribution(path string) (Distribution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("tiles: decode %s: %w", path, err)
		}
		if err := doc.Pieces.Validate(); err != nil {
			return nil, err
		}
		return doc.Pieces, nil
	default:
		return ParseDistribution(data)
	}
}

// DefaultDistribution returns the embedded English distribution.
func DefaultDistribution() Distribution {
	data, err := assets.Pieces()
	if err != nil {
		panic("tiles: embedded pieces.json missing: " + err.Error())
	}
	d, err := ParseDistribution(data)
	if err != nil {
		panic(err)
	}
	return d
}
