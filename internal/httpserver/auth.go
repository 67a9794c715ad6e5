// internal/httpserver/auth.go
//
// Session bearer tokens.
// Responsibilities:
//   - Sign an HS256 JWT whose "sid" claim names the session it unlocks.
//   - Extract tokens from the Authorization header, or from ?token= for
//     EventSource clients that cannot set headers.
//   - requireSession: verify the token against the {id} route param and
//     put the resolved *session.Session into the request context.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/scrabble/apps/go-server/internal/session"
	"github.com/robalobadob/scrabble/apps/go-server/internal/store"
)

type sessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// signToken creates a token for sid that expires after ttl.
func (s *Server) signToken(sid string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.opts.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString(s.opts.Secret)
	return ss, exp, err
}

var errNoSID = errors.New("token has no sid")

// parseToken returns the sid of a valid token.
func (s *Server) parseToken(tok string) (string, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) {
		return s.opts.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if claims.SID == "" {
		return "", errNoSID
	}
	return claims.SID, nil
}

// bearerToken extracts a bearer token from Authorization or ?token=.
func bearerToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return r.URL.Query().Get("token")
}

type ctxSessionKey struct{}

// requireSession enforces a token for the route's session.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		tok := bearerToken(r)
		if tok == "" {
			jsonError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		sid, err := s.parseToken(tok)
		if err != nil || sid != id {
			jsonError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		sess, err := s.store.Get(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "not_found")
			return
		}
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "store_error")
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentSession(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(ctxSessionKey{}).(*session.Session)
	return sess
}
