// internal/session/session.go
//
// Session is the controller for one practice board.
// Responsibilities:
//   - Own the game (bag, board, rack) and the displayed score/feedback.
//   - Serialize every mutation and re-run live validation after each one.
//   - Issue dictionary lookups asynchronously and reconcile their results
//     with the board as it is when they land.
//   - Fan out snapshots to subscribers after every visible change.
//
// Stale results:
//   - Every board change bumps the version and cancels the in-flight lookup.
//   - A result is applied only if the board still spells the queried word
//     and no result from a newer version has been applied already.

package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/scrabble/apps/go-server/internal/game"
	"github.com/robalobadob/scrabble/apps/go-server/internal/tiles"
	"github.com/robalobadob/scrabble/apps/go-server/internal/validation"
)

// Session is safe for concurrent use.
type Session struct {
	ID      string
	Created time.Time

	mu        sync.Mutex
	game      *game.Game
	validator *validation.Validator
	outcome   validation.Outcome
	version   uint64 // bumped on every board change
	applied   uint64 // version of the last lookup result shown
	cancel    context.CancelFunc
	updated   time.Time
	subs      map[*subscriber]struct{}
	inflight  sync.WaitGroup
	logger    zerolog.Logger
}

// New creates a session with a freshly dealt rack.
func New(cfg game.Config, v *validation.Validator) *Session {
	id := uuid.NewString()
	now := time.Now()
	s := &Session{
		ID:        id,
		Created:   now,
		updated:   now,
		game:      game.New(cfg),
		validator: v,
		subs:      make(map[*subscriber]struct{}),
		logger:    log.With().Str("session", id).Logger(),
	}
	s.outcome, _ = v.Evaluate(s.game.Board)
	return s
}

// PlaceOnBoard moves a tile onto a square. Rejected moves return the
// game error and leave the board, score and feedback as they were.
func (s *Session) PlaceOnBoard(id tiles.ID, square int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	moved, err := s.game.PlaceOnBoard(id, square)
	if err != nil {
		s.logger.Debug().Err(err).Int("tile", int(id)).Int("square", square).Msg("placement rejected")
		return s.snapshotLocked(), err
	}
	if moved {
		s.changedLocked()
	}
	return s.snapshotLocked(), nil
}

// PlaceOnRack returns a tile to the rack.
func (s *Session) PlaceOnRack(id tiles.ID) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	moved, err := s.game.PlaceOnRack(id)
	if err != nil {
		return s.snapshotLocked(), err
	}
	if moved {
		s.changedLocked()
	}
	return s.snapshotLocked(), nil
}

// Reset clears the board, deals a fresh rack from a new bag and clears
// score and feedback.
func (s *Session) Reset() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game.Reset()
	s.logger.Info().Str("rack", s.game.Rack.Letters()).Msg("reset")
	s.changedLocked()
	return s.snapshotLocked()
}

// Snapshot returns the current view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Updated is the time of the last visible change.
func (s *Session) Updated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updated
}

// changedLocked runs live validation after a board change and
// broadcasts the new view.
func (s *Session) changedLocked() {
	s.version++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	out, ex := s.validator.Evaluate(s.game.Board)
	s.outcome = out
	s.updated = time.Now()
	if out.State == validation.StatePending {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		s.inflight.Add(1)
		go s.resolve(ctx, s.version, ex.Word)
	}
	s.broadcastLocked()
}

// resolve runs one lookup and applies it if it is still current.
func (s *Session) resolve(ctx context.Context, version uint64, word string) {
	defer s.inflight.Done()
	vd := s.validator.Check(ctx, word)

	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.logger.With().Str("word", word).Uint64("version", version).Logger()
	if ctx.Err() != nil {
		l.Debug().Msg("lookup superseded")
		return
	}
	if version < s.applied {
		l.Debug().Uint64("applied", s.applied).Msg("stale lookup dropped")
		return
	}
	out, ok := validation.Apply(s.game.Board, vd)
	if !ok {
		l.Debug().Msg("stale lookup dropped")
		return
	}
	if vd.Err != nil {
		l.Warn().Err(vd.Err).Msg("lookup failed")
	}
	s.applied = version
	s.outcome = out
	s.updated = time.Now()
	l.Info().Str("state", string(out.State)).Int("score", out.Score).Msg("word checked")
	s.broadcastLocked()
}

// Wait blocks until every issued lookup has finished.
func (s *Session) Wait() { s.inflight.Wait() }

// Close cancels any in-flight lookup and closes all subscriptions.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	for sub := range s.subs {
		sub.close()
		delete(s.subs, sub)
	}
}

// subscriber is one snapshot channel. done tells the context watcher
// to exit once the subscription ends by any path.
type subscriber struct {
	ch        chan Snapshot
	done      chan struct{}
	closeOnce sync.Once
}

func (sub *subscriber) close() {
	sub.closeOnce.Do(func() {
		close(sub.ch)
		close(sub.done)
	})
}

// Subscribe registers for snapshots. The channel always holds the most
// recent snapshot; a slow reader skips intermediate ones. The returned
// func unsubscribes, as does cancelling ctx or closing the session.
func (s *Session) Subscribe(ctx context.Context) (<-chan Snapshot, func()) {
	sub := &subscriber{ch: make(chan Snapshot, 1), done: make(chan struct{})}
	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	unsub := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, sub)
		sub.close()
	}
	go func() {
		select {
		case <-ctx.Done():
			unsub()
		case <-sub.done:
		}
	}()
	return sub.ch, unsub
}

// broadcastLocked offers the current snapshot to every subscriber,
// replacing any unread older one.
func (s *Session) broadcastLocked() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for sub := range s.subs {
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- snap
	}
}
