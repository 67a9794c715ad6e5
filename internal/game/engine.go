// internal/game/engine.go
//
// Placement controller for a single practice board.
// Responsibilities:
//   - Build the bag, board and rack from a Config and deal the opening rack.
//   - Move tiles rack→board, board→board and board→rack.
//   - Enforce one tile per square and single ownership of every tile.
//   - Reset to a fresh bag and a newly dealt rack.
//
// Notes:
//   - Occupancy lives only in Square.Occupant; a tile's location is
//     always derived by looking, never cached.
//   - Rejected placements leave the state exactly as it was.

package game

import (
	"errors"
	"fmt"

	"github.com/robalobadob/scrabble/apps/go-server/internal/tiles"
)

var (
	ErrSquareOccupied   = errors.New("square occupied")
	ErrSquareOutOfRange = errors.New("square out of range")
	ErrUnknownTile      = errors.New("unknown tile")
)

// Config fixes the board shape and tile set for a game.
type Config struct {
	Distribution tiles.Distribution
	Layout       Layout
	RackSize     int
	BagOptions   []tiles.Option
}

func (c Config) withDefaults() Config {
	if len(c.Distribution) == 0 {
		c.Distribution = tiles.DefaultDistribution()
	}
	if len(c.Layout) == 0 {
		c.Layout = DefaultLayout
	}
	if c.RackSize <= 0 {
		c.RackSize = RackSize
	}
	return c
}

// Game owns the bag, the board and the rack.
type Game struct {
	cfg   Config
	Bag   *tiles.Bag
	Board *Board
	Rack  *Rack
}

// New constructs a game and deals the opening rack.
func New(cfg Config) *Game {
	cfg = cfg.withDefaults()
	g := &Game{
		cfg:   cfg,
		Board: NewBoard(cfg.Layout),
	}
	g.deal()
	return g
}

func (g *Game) deal() {
	g.Bag = tiles.NewBag(g.cfg.Distribution, g.cfg.BagOptions...)
	g.Rack = NewRack(g.cfg.RackSize)
	g.Rack.Fill(g.Bag)
}

// Locate reports where tile id lives. ok is false for tiles that are
// neither on the rack nor on the board (still in the bag, or unknown).
func (g *Game) Locate(id tiles.ID) (Location, bool) {
	if g.Rack.Contains(id) {
		return Location{OnRack: true}, true
	}
	if i := g.Board.find(id); i >= 0 {
		return Location{Square: i}, true
	}
	return Location{}, false
}

// PlaceOnBoard moves tile id onto square target.
// Returns moved=false with a nil error when the tile already sits on target.
//
// Rejections (state untouched):
//   - ErrSquareOutOfRange: target is not a board index.
//   - ErrUnknownTile:      the tile is not on the rack or the board.
//   - ErrSquareOccupied:   target holds a different tile.
func (g *Game) PlaceOnBoard(id tiles.ID, target int) (bool, error) {
	if !g.Board.InRange(target) {
		return false, fmt.Errorf("%w: %d", ErrSquareOutOfRange, target)
	}
	loc, ok := g.Locate(id)
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownTile, id)
	}
	if !loc.OnRack && loc.Square == target {
		return false, nil
	}
	if g.Board.Occupied(target) {
		return false, fmt.Errorf("%w: %d", ErrSquareOccupied, target)
	}

	var t tiles.Tile
	if loc.OnRack {
		var err error
		if t, err = g.Rack.Remove(id); err != nil {
			return false, err
		}
	} else {
		t = g.Board.take(loc.Square)
	}
	g.Board.set(target, t)
	return true, nil
}

// PlaceOnRack returns tile id to the rack, clearing its square.
// A tile already on the rack is a no-op.
func (g *Game) PlaceOnRack(id tiles.ID) (bool, error) {
	loc, ok := g.Locate(id)
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownTile, id)
	}
	if loc.OnRack {
		return false, nil
	}
	g.Rack.Add(g.Board.take(loc.Square))
	return true, nil
}

// Reset clears the board and rack, replaces the bag with a freshly
// initialized and shuffled one, and deals a new rack.
func (g *Game) Reset() {
	g.Board.Clear()
	g.deal()
}

// CheckOwnership verifies that no tile ID is held by two owners.
func (g *Game) CheckOwnership() error {
	owner := make(map[tiles.ID]string)
	claim := func(id tiles.ID, who string) error {
		if prev, dup := owner[id]; dup {
			return fmt.Errorf("tile %d owned by both %s and %s", id, prev, who)
		}
		owner[id] = who
		return nil
	}
	for _, t := range g.Rack.tiles {
		if err := claim(t.ID, "rack"); err != nil {
			return err
		}
	}
	for i, sq := range g.Board.squares {
		if sq.Occupant == nil {
			continue
		}
		if err := claim(sq.Occupant.ID, fmt.Sprintf("square %d", i)); err != nil {
			return err
		}
	}
	return nil
}
