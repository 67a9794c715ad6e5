// internal/httpserver/routes_sessions.go
//
// Session endpoints:
//   - POST   /sessions              → deal a new board, return id + token
//   - GET    /sessions/{id}         → current snapshot
//   - DELETE /sessions/{id}         → drop the session
//   - POST   /sessions/{id}/board   → {tileId, square}
//   - POST   /sessions/{id}/rack    → {tileId}
//   - POST   /sessions/{id}/reset   → fresh bag and rack

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/scrabble/apps/go-server/internal/game"
	"github.com/robalobadob/scrabble/apps/go-server/internal/session"
	"github.com/robalobadob/scrabble/apps/go-server/internal/tiles"
)

type createRes struct {
	SessionID string           `json:"sessionId"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	State     session.Snapshot `json:"state"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess := s.newSession()
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		jsonError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.signToken(sess.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		jsonError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	log.Info().Str("session", sess.ID).Msg("session created")
	writeJSON(w, http.StatusCreated, createRes{SessionID: sess.ID, Token: tok, ExpiresAt: exp, State: sess.Snapshot()})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentSession(r).Snapshot())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), currentSession(r).ID); err != nil {
		jsonError(w, http.StatusInternalServerError, "store_error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// moveRes is returned by every mutating endpoint.
type moveRes struct {
	State    session.Snapshot `json:"state"`
	Rejected string           `json:"rejected,omitempty"`
}

type boardReq struct {
	TileID tiles.ID `json:"tileId"`
	Square *int     `json:"square"`
}

func (s *Server) handlePlaceOnBoard(w http.ResponseWriter, r *http.Request) {
	var req boardReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Square == nil {
		jsonError(w, http.StatusBadRequest, "square_required")
		return
	}
	snap, err := currentSession(r).PlaceOnBoard(req.TileID, *req.Square)
	s.writeMove(w, snap, err)
}

type rackReq struct {
	TileID tiles.ID `json:"tileId"`
}

func (s *Server) handlePlaceOnRack(w http.ResponseWriter, r *http.Request) {
	var req rackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}
	snap, err := currentSession(r).PlaceOnRack(req.TileID)
	s.writeMove(w, snap, err)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, moveRes{State: currentSession(r).Reset()})
}

// moveOutcome maps a placement error onto a status and code. An
// occupied square is an in-band rejection with status 200.
func moveOutcome(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, game.ErrSquareOccupied):
		return http.StatusOK, "square_occupied"
	case errors.Is(err, game.ErrSquareOutOfRange):
		return http.StatusBadRequest, "square_out_of_range"
	case errors.Is(err, game.ErrUnknownTile), errors.Is(err, game.ErrTileNotInRack):
		return http.StatusBadRequest, "unknown_tile"
	}
	log.Error().Err(err).Msg("move")
	return http.StatusInternalServerError, "move_failed"
}

func (s *Server) writeMove(w http.ResponseWriter, snap session.Snapshot, err error) {
	status, code := moveOutcome(err)
	if status != http.StatusOK {
		jsonError(w, status, code)
		return
	}
	writeJSON(w, http.StatusOK, moveRes{State: snap, Rejected: code})
}
