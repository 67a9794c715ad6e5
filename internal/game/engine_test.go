package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/scrabble/apps/go-server/internal/tiles"
)

// Without shuffling, tiles get IDs in distribution order and the rack is
// dealt from the end, so the three E tiles stay in the bag.
var catDog = tiles.Distribution{
	{Letter: "E", Value: 1, Amount: 3},
	{Letter: "C", Value: 3, Amount: 1},
	{Letter: "A", Value: 1, Amount: 1},
	{Letter: "T", Value: 1, Amount: 1},
	{Letter: "D", Value: 2, Amount: 1},
	{Letter: "O", Value: 1, Amount: 1},
	{Letter: "G", Value: 2, Amount: 1},
	{Letter: "S", Value: 1, Amount: 1},
}

const (
	idE tiles.ID = iota + 1
	_
	_
	idC
	idA
	idT
	idD
	idO
	idG
	idS
)

func newTestGame(t *testing.T, layout Layout) *Game {
	t.Helper()
	return New(Config{
		Distribution: catDog,
		Layout:       layout,
		BagOptions:   []tiles.Option{tiles.NoShuffle()},
	})
}

func TestNewDealsFullRack(t *testing.T) {
	g := newTestGame(t, nil)
	assert.Equal(t, RackSize, g.Rack.Len())
	assert.Equal(t, 3, g.Bag.Remaining())
	assert.Equal(t, len(DefaultLayout), g.Board.Size())
	assert.Equal(t, "SGODTAC", g.Rack.Letters())
}

func TestSmallBagDealsShortRack(t *testing.T) {
	g := New(Config{
		Distribution: tiles.Distribution{{Letter: "A", Value: 1, Amount: 3}},
		Layout:       Layout{None, None, None},
	})
	assert.Equal(t, 3, g.Rack.Len())
	assert.Equal(t, 0, g.Bag.Remaining())
}

func TestPlaceRackToBoardAndBack(t *testing.T) {
	g := newTestGame(t, Layout{None, None, None, None})

	moved, err := g.PlaceOnBoard(idC, 2)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.False(t, g.Rack.Contains(idC))
	assert.Equal(t, idC, g.Board.Square(2).Occupant.ID)

	loc, ok := g.Locate(idC)
	require.True(t, ok)
	assert.Equal(t, Location{Square: 2}, loc)

	moved, err = g.PlaceOnRack(idC)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.False(t, g.Board.Occupied(2))
	assert.True(t, g.Rack.Contains(idC))
	require.NoError(t, g.CheckOwnership())
}

func TestPlaceBoardToBoardClearsSource(t *testing.T) {
	g := newTestGame(t, Layout{None, None, None, None})

	_, err := g.PlaceOnBoard(idT, 0)
	require.NoError(t, err)
	_, err = g.PlaceOnBoard(idT, 3)
	require.NoError(t, err)

	assert.False(t, g.Board.Occupied(0))
	assert.True(t, g.Board.Occupied(3))
	assert.Equal(t, []bool{false, false, false, true}, g.Board.Occupancy())
	require.NoError(t, g.CheckOwnership())
}

func TestPlaceOntoOccupiedIsRejected(t *testing.T) {
	g := newTestGame(t, Layout{None, None, None})

	_, err := g.PlaceOnBoard(idC, 0)
	require.NoError(t, err)
	_, err = g.PlaceOnBoard(idA, 1)
	require.NoError(t, err)

	// from the rack
	moved, err := g.PlaceOnBoard(idT, 0)
	assert.False(t, moved)
	assert.True(t, errors.Is(err, ErrSquareOccupied))
	assert.True(t, g.Rack.Contains(idT))

	// from another square: the source must keep its tile
	moved, err = g.PlaceOnBoard(idA, 0)
	assert.False(t, moved)
	assert.ErrorIs(t, err, ErrSquareOccupied)
	assert.Equal(t, idA, g.Board.Square(1).Occupant.ID)
	assert.Equal(t, idC, g.Board.Square(0).Occupant.ID)
	require.NoError(t, g.CheckOwnership())
}

func TestPlaceOntoOwnSquareIsNoop(t *testing.T) {
	g := newTestGame(t, Layout{None, None})
	_, err := g.PlaceOnBoard(idC, 1)
	require.NoError(t, err)

	moved, err := g.PlaceOnBoard(idC, 1)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.True(t, g.Board.Occupied(1))
}

func TestPlaceRejections(t *testing.T) {
	g := newTestGame(t, Layout{None, None})

	_, err := g.PlaceOnBoard(idC, 5)
	assert.ErrorIs(t, err, ErrSquareOutOfRange)
	_, err = g.PlaceOnBoard(idC, -1)
	assert.ErrorIs(t, err, ErrSquareOutOfRange)

	// the E tiles are still in the bag
	_, err = g.PlaceOnBoard(idE, 0)
	assert.ErrorIs(t, err, ErrUnknownTile)
	_, err = g.PlaceOnRack(99)
	assert.ErrorIs(t, err, ErrUnknownTile)

	moved, err := g.PlaceOnRack(idC)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, RackSize, g.Rack.Len())
}

func TestOwnershipAcrossRandomMoves(t *testing.T) {
	g := New(Config{Layout: DefaultLayout})
	ids := make([]tiles.ID, 0, RackSize)
	for _, tl := range g.Rack.Tiles() {
		ids = append(ids, tl.ID)
	}
	for step := 0; step < 500; step++ {
		id := ids[step%len(ids)]
		if step%5 == 4 {
			_, _ = g.PlaceOnRack(id)
		} else {
			_, _ = g.PlaceOnBoard(id, (step*7)%g.Board.Size())
		}
		require.NoError(t, g.CheckOwnership())
		assert.Equal(t, len(ids), g.Rack.Len()+len(g.Board.Tiles()))
	}
}

func TestResetTwiceSameShape(t *testing.T) {
	g := newTestGame(t, Layout{None, None, None})
	_, _ = g.PlaceOnBoard(idC, 0)
	_, _ = g.PlaceOnBoard(idA, 1)

	for i := 0; i < 2; i++ {
		g.Reset()
		assert.Empty(t, g.Board.Tiles())
		assert.Equal(t, RackSize, g.Rack.Len())
		assert.Equal(t, catDog.Total()-RackSize, g.Bag.Remaining())
		require.NoError(t, g.CheckOwnership())
	}
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("TW, -,DL,tl,DW,2,3,1")
	require.NoError(t, err)
	assert.Equal(t, Layout{TripleWord, None, DoubleLetter, TripleLetter, DoubleWord, DoubleLetter, TripleLetter, None}, l)
	assert.Equal(t, "TW,-,DL,TL,DW,DL,TL,-", l.String())

	_, err = ParseLayout("TW,XX")
	assert.Error(t, err)
	_, err = ParseLayout("  ")
	assert.Error(t, err)
}
