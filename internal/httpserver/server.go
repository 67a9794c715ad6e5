// internal/httpserver/server.go
//
// HTTP server wiring for the practice board.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", POST /sessions.
//   - Session endpoints (bearer token required): snapshot, board/rack
//     moves, reset, delete, a server-sent event stream and a WebSocket.
//
// Notes:
//   - The handler timeout applies to everything except the event stream
//     and the WebSocket, which live until the client goes away.
//   - A placement onto an occupied square is a normal outcome, not an
//     HTTP error: the response carries rejected:"square_occupied" and the
//     unchanged snapshot.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/robalobadob/scrabble/apps/go-server/internal/session"
	"github.com/robalobadob/scrabble/apps/go-server/internal/store"
)

// Options configures a Server. Zero values take the defaults below.
type Options struct {
	ClientOrigin   string
	Secret         []byte
	TokenTTL       time.Duration
	RequestTimeout time.Duration
	PingInterval   time.Duration // SSE keep-alive comment interval
}

func (o Options) withDefaults() Options {
	if o.ClientOrigin == "" {
		o.ClientOrigin = "http://localhost:5173"
	}
	if len(o.Secret) == 0 {
		o.Secret = []byte("dev_secret_change_me")
	}
	if o.TokenTTL <= 0 {
		o.TokenTTL = 24 * time.Hour
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	if o.PingInterval <= 0 {
		o.PingInterval = 15 * time.Second
	}
	return o
}

// Factory builds a freshly dealt session.
type Factory func() *session.Session

// Server bundles router, session store and session factory.
type Server struct {
	r          *chi.Mux
	store      store.Store
	newSession Factory
	opts       Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, factory Factory, opts Options) *Server {
	s := &Server{r: chi.NewRouter(), store: st, newSession: factory, opts: opts.withDefaults()}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(jsonContentType)
	s.r.Use(cors(s.opts.ClientOrigin))

	timeout := chimw.Timeout(s.opts.RequestTimeout)

	// --- diagnostics ---
	s.r.With(timeout).Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"scrabble-practice","endpoints":["/health","POST /sessions","/sessions/{id}","/sessions/{id}/events","/sessions/{id}/ws"]}`))
	})
	s.r.With(timeout).Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/sessions", func(r chi.Router) {
		r.With(timeout).Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/events", s.handleEvents)
			r.Get("/ws", s.handleWS)
			r.Group(func(r chi.Router) {
				r.Use(timeout)
				r.Get("/", s.handleSnapshot)
				r.Delete("/", s.handleDelete)
				r.Post("/board", s.handlePlaceOnBoard)
				r.Post("/rack", s.handlePlaceOnRack)
				r.Post("/reset", s.handleReset)
			})
		})
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "not_found")
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ServeHTTP makes the Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }
