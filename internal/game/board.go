package game

import (
	"github.com/robalobadob/scrabble/apps/go-server/internal/tiles"
)

// Board is a fixed linear sequence of squares. Board order is the
// traversal order used for contiguity.
type Board struct {
	squares []Square
}

// NewBoard builds an empty board with one square per layout entry.
func NewBoard(layout Layout) *Board {
	b := &Board{squares: make([]Square, len(layout))}
	for i, m := range layout {
		b.squares[i] = Square{Index: i, Multiplier: m}
	}
	return b
}

// Size is the number of squares.
func (b *Board) Size() int { return len(b.squares) }

// Square returns a copy of square i. i must be in range.
func (b *Board) Square(i int) Square { return b.squares[i] }

// Squares returns a copy of every square in board order.
func (b *Board) Squares() []Square {
	out := make([]Square, len(b.squares))
	copy(out, b.squares)
	return out
}

// InRange reports whether i names a square.
func (b *Board) InRange(i int) bool { return i >= 0 && i < len(b.squares) }

// Occupied reports whether square i holds a tile.
func (b *Board) Occupied(i int) bool { return b.squares[i].Occupant != nil }

// Occupancy is the boolean occupancy array in board order.
func (b *Board) Occupancy() []bool {
	out := make([]bool, len(b.squares))
	for i, sq := range b.squares {
		out[i] = sq.Occupant != nil
	}
	return out
}

// find returns the square index holding id, or -1.
func (b *Board) find(id tiles.ID) int {
	for i, sq := range b.squares {
		if sq.Occupant != nil && sq.Occupant.ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) set(i int, t tiles.Tile) {
	b.squares[i].Occupant = &t
}

func (b *Board) take(i int) tiles.Tile {
	t := *b.squares[i].Occupant
	b.squares[i].Occupant = nil
	return t
}

// Clear empties every square, keeping multipliers.
func (b *Board) Clear() {
	for i := range b.squares {
		b.squares[i].Occupant = nil
	}
}

// Tiles returns the placed tiles in board order.
func (b *Board) Tiles() []tiles.Tile {
	var out []tiles.Tile
	for _, sq := range b.squares {
		if sq.Occupant != nil {
			out = append(out, *sq.Occupant)
		}
	}
	return out
}
