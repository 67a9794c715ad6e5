package session

import (
	"github.com/samber/lo"

	"github.com/robalobadob/scrabble/apps/go-server/internal/game"
	"github.com/robalobadob/scrabble/apps/go-server/internal/tiles"
	"github.com/robalobadob/scrabble/apps/go-server/internal/validation"
)

// SquareView is one square as the presentation layer draws it.
type SquareView struct {
	Index      int             `json:"index"`
	Multiplier game.Multiplier `json:"multiplier"`
	Tile       *tiles.Tile     `json:"tile,omitempty"`
}

// Snapshot carries everything needed to redraw the board after a change.
type Snapshot struct {
	SessionID    string              `json:"sessionId"`
	Version      uint64              `json:"version"`
	Rack         []tiles.Tile        `json:"rack"`
	Squares      []SquareView        `json:"squares"`
	State        validation.State    `json:"state"`
	Word         string              `json:"word,omitempty"`
	Score        int                 `json:"score"`
	Breakdown    game.Breakdown      `json:"breakdown"`
	Feedback     validation.Feedback `json:"feedback"`
	BagRemaining int                 `json:"bagRemaining"`
}

func (s *Session) snapshotLocked() Snapshot {
	squares := lo.Map(s.game.Board.Squares(), func(sq game.Square, _ int) SquareView {
		v := SquareView{Index: sq.Index, Multiplier: sq.Multiplier}
		if sq.Occupant != nil {
			t := *sq.Occupant
			v.Tile = &t
		}
		return v
	})
	return Snapshot{
		SessionID:    s.ID,
		Version:      s.version,
		Rack:         s.game.Rack.Tiles(),
		Squares:      squares,
		State:        s.outcome.State,
		Word:         s.outcome.Word,
		Score:        s.outcome.Score,
		Breakdown:    s.outcome.Breakdown,
		Feedback:     s.outcome.Feedback,
		BagRemaining: s.game.Bag.Remaining(),
	}
}

// Letters renders the board row, using '_' for empty squares.
func (snap Snapshot) Letters() string {
	return string(lo.Map(snap.Squares, func(v SquareView, _ int) rune {
		if v.Tile == nil {
			return '_'
		}
		return v.Tile.Letter
	}))
}

// RackTile returns the first rack tile with letter r.
func (snap Snapshot) RackTile(r rune) (tiles.Tile, bool) {
	return lo.Find(snap.Rack, func(t tiles.Tile) bool { return t.Letter == r })
}
