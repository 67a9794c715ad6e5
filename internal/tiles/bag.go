package tiles

import (
	"unicode"

	"lukechampine.com/frand"
)

// Shuffler permutes n elements through swap. frand.Shuffle and
// math/rand.Shuffle both satisfy it.
type Shuffler func(n int, swap func(i, j int))

// Bag is the finite multiset of undrawn tiles.
type Bag struct {
	tiles   []Tile
	initial int
	shuffle Shuffler
}

// Option configures a Bag.
type Option func(*Bag)

// WithShuffler replaces the default frand Fisher–Yates shuffle.
func WithShuffler(s Shuffler) Option {
	return func(b *Bag) {
		if s != nil {
			b.shuffle = s
		}
	}
}

// NoShuffle keeps the expanded distribution order; tests use it to
// get a predictable draw sequence.
func NoShuffle() Option {
	return WithShuffler(func(int, func(i, j int)) {})
}

// NewBag expands d into one tile per unit of amount, assigns IDs in
// expansion order starting at 1, and shuffles.
func NewBag(d Distribution, opts ...Option) *Bag {
	b := &Bag{
		tiles:   make([]Tile, 0, d.Total()),
		shuffle: frand.Shuffle,
	}
	for _, o := range opts {
		o(b)
	}

	next := ID(1)
	for _, p := range d {
		letter := unicode.ToUpper([]rune(p.Letter)[0])
		for i := 0; i < p.Amount; i++ {
			b.tiles = append(b.tiles, Tile{ID: next, Letter: letter, Points: p.Value})
			next++
		}
	}
	b.initial = len(b.tiles)

	b.Shuffle()
	return b
}

// Shuffle permutes the remaining tiles uniformly.
func (b *Bag) Shuffle() {
	b.shuffle(len(b.tiles), func(i, j int) {
		b.tiles[i], b.tiles[j] = b.tiles[j], b.tiles[i]
	})
}

// Draw removes up to n tiles from the end of the bag. Once the bag is
// depleted it returns fewer than n tiles, possibly none.
func (b *Bag) Draw(n int) []Tile {
	if n <= 0 {
		return nil
	}
	if n > len(b.tiles) {
		n = len(b.tiles)
	}
	end := len(b.tiles) - n
	out := make([]Tile, n)
	// Pop order: the last tile comes out first.
	for i := 0; i < n; i++ {
		out[i] = b.tiles[len(b.tiles)-1-i]
	}
	b.tiles = b.tiles[:end]
	return out
}

// Remaining is the number of undrawn tiles.
func (b *Bag) Remaining() int { return len(b.tiles) }

// Initial is the number of tiles the bag was created with.
func (b *Bag) Initial() int { return b.initial }

// Counts returns the per-letter remaining counts.
func (b *Bag) Counts() map[rune]int {
	m := make(map[rune]int)
	for _, t := range b.tiles {
		m[t.Letter]++
	}
	return m
}
