package game

import (
	"errors"

	"github.com/samber/lo"

	"github.com/robalobadob/scrabble/apps/go-server/internal/tiles"
)

// RackSize is the standard number of tiles a player holds.
const RackSize = 7

// ErrTileNotInRack is returned when a tile ID is not on the rack.
var ErrTileNotInRack = errors.New("tile not in rack")

// Rack holds the player's unplaced tiles in display order.
type Rack struct {
	tiles    []tiles.Tile
	capacity int
}

// NewRack returns an empty rack. A non-positive capacity means RackSize.
func NewRack(capacity int) *Rack {
	if capacity <= 0 {
		capacity = RackSize
	}
	return &Rack{tiles: make([]tiles.Tile, 0, capacity), capacity: capacity}
}

// Fill draws from the bag until the rack reaches capacity or the bag
// runs out. It returns the number of tiles added.
func (r *Rack) Fill(b *tiles.Bag) int {
	need := r.capacity - len(r.tiles)
	drawn := b.Draw(need)
	r.tiles = append(r.tiles, drawn...)
	return len(drawn)
}

// Index returns the position of the tile with id, or -1.
func (r *Rack) Index(id tiles.ID) int {
	for i, t := range r.tiles {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Contains reports whether the tile with id is on the rack.
func (r *Rack) Contains(id tiles.ID) bool { return r.Index(id) >= 0 }

// Add appends t to the end of the rack.
func (r *Rack) Add(t tiles.Tile) { r.tiles = append(r.tiles, t) }

// Remove takes a tile out, keeping the order of the others so the
// presentation layer does not reshuffle the rack.
func (r *Rack) Remove(id tiles.ID) (tiles.Tile, error) {
	i := r.Index(id)
	if i == -1 {
		return tiles.Tile{}, ErrTileNotInRack
	}
	t := r.tiles[i]
	r.tiles = append(r.tiles[:i], r.tiles[i+1:]...)
	return t, nil
}

// Tiles returns a copy of the rack in display order.
func (r *Rack) Tiles() []tiles.Tile {
	out := make([]tiles.Tile, len(r.tiles))
	copy(out, r.tiles)
	return out
}

// Len, Capacity, IsEmpty and Empty report on or clear the rack.
func (r *Rack) Len() int      { return len(r.tiles) }
func (r *Rack) Capacity() int { return r.capacity }
func (r *Rack) IsEmpty() bool { return len(r.tiles) == 0 }
func (r *Rack) Empty()        { r.tiles = r.tiles[:0] }

// Letters renders the rack as a string, e.g. "CATDOGS".
func (r *Rack) Letters() string {
	return string(lo.Map(r.tiles, func(t tiles.Tile, _ int) rune { return t.Letter }))
}
