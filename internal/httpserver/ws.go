// internal/httpserver/ws.go
//
// WebSocket transport for one session: GET /sessions/{id}/ws.
//   - server → client: {"type":"snapshot","state":{...}} on connect and after
//     every visible change; {"type":"rejected","reason":..,"state":{...}}
//     for an occupied square; {"type":"error","error":"code"} for bad input.
//   - client → server: {"type":"board","tileId":1,"square":0},
//     {"type":"rack","tileId":1}, {"type":"reset"}.
//
// One goroutine reads commands; the handler goroutine is the only writer.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/robalobadob/scrabble/apps/go-server/internal/session"
	"github.com/robalobadob/scrabble/apps/go-server/internal/tiles"
)

type wsIn struct {
	Type   string   `json:"type"`
	TileID tiles.ID `json:"tileId"`
	Square *int     `json:"square,omitempty"`
}

type wsOut struct {
	Type   string            `json:"type"`
	State  *session.Snapshot `json:"state,omitempty"`
	Reason string            `json:"reason,omitempty"`
	Error  string            `json:"error,omitempty"`
}

func snapshotMsg(snap session.Snapshot) wsOut {
	return wsOut{Type: "snapshot", State: &snap}
}

// originPatterns turns CLIENT_ORIGIN into an Accept host pattern.
func (o Options) originPatterns() []string {
	u, err := url.Parse(o.ClientOrigin)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.opts.originPatterns()})
	if err != nil {
		log.Debug().Err(err).Str("session", sess.ID).Msg("websocket accept")
		return
	}
	defer c.Close(websocket.StatusInternalError, "unexpected close")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	updates, unsub := sess.Subscribe(ctx)
	defer unsub()

	replies := make(chan wsOut, 4)
	go func() {
		defer cancel()
		for {
			var in wsIn
			if err := wsjson.Read(ctx, c, &in); err != nil {
				if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
					log.Debug().Err(err).Str("session", sess.ID).Msg("websocket read")
				}
				return
			}
			select {
			case replies <- applyCommand(sess, in):
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := wsjson.Write(ctx, c, snapshotMsg(sess.Snapshot())); err != nil {
		return
	}
	for {
		var out wsOut
		select {
		case <-ctx.Done():
			c.Close(websocket.StatusNormalClosure, "")
			return
		case snap, ok := <-updates:
			if !ok {
				c.Close(websocket.StatusGoingAway, "session closed")
				return
			}
			out = snapshotMsg(snap)
		case out = <-replies:
		}
		if err := wsjson.Write(ctx, c, out); err != nil {
			return
		}
	}
}

// applyCommand runs one client command and builds its reply.
func applyCommand(sess *session.Session, in wsIn) wsOut {
	var (
		snap session.Snapshot
		err  error
	)
	switch in.Type {
	case "board":
		if in.Square == nil {
			return wsOut{Type: "error", Error: "square_required"}
		}
		snap, err = sess.PlaceOnBoard(in.TileID, *in.Square)
	case "rack":
		snap, err = sess.PlaceOnRack(in.TileID)
	case "reset":
		snap = sess.Reset()
	case "snapshot":
		snap = sess.Snapshot()
	default:
		return wsOut{Type: "error", Error: "unknown_command"}
	}
	status, code := moveOutcome(err)
	switch {
	case status != http.StatusOK:
		return wsOut{Type: "error", Error: code}
	case code != "":
		return wsOut{Type: "rejected", Reason: code, State: &snap}
	}
	return snapshotMsg(snap)
}
