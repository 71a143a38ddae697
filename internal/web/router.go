package web

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// corsMiddleware answers preflight requests itself and adds CORS headers
// to everything else.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// bearerToken reads the token from the Authorization header, falling back
// to the token query parameter.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// RequireToken rejects requests without a valid access token. It is a
// no-op when the service has no issuer.
func (s *Service) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.tokens == nil {
			next.ServeHTTP(w, r)
			return
		}

		raw := bearerToken(r)
		if raw == "" {
			http.Error(w, "Missing access token", http.StatusUnauthorized)
			return
		}
		if _, err := s.tokens.Verify(raw); err != nil {
			log.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected access token")
			http.Error(w, "Invalid access token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewRouter builds the HTTP surface. Static files are served from
// staticDir when it is not empty.
func NewRouter(s *Service, staticDir string) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)

	// API routes
	api := router.PathPrefix("/api").Subrouter()
	api.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
	api.HandleFunc("/health", s.HealthHandler).Methods("GET", "OPTIONS")
	api.HandleFunc("/board", s.BoardHandler).Methods("GET", "OPTIONS")
	api.HandleFunc("/moves", s.LegalMovesHandler).Methods("GET", "OPTIONS")

	// Mutations need a token when auth is enabled
	api.Handle("/moves", s.RequireToken(http.HandlerFunc(s.MakeMoveHandler))).Methods("POST")
	api.Handle("/undo", s.RequireToken(http.HandlerFunc(s.UndoHandler))).Methods("POST", "OPTIONS")
	api.Handle("/reset", s.RequireToken(http.HandlerFunc(s.ResetHandler))).Methods("POST", "OPTIONS")

	if s.hub != nil {
		router.HandleFunc("/ws", s.WebSocketHandler(s.hub))
	}

	// Serve static files
	if staticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))
	}
	return router
}
