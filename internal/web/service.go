package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/justinabrahms/hotseat/internal/auth"
	"github.com/justinabrahms/hotseat/internal/chess"
	"github.com/justinabrahms/hotseat/internal/game"
	"github.com/rs/zerolog/log"
)

type Service struct {
	session *game.Session
	hub     *Hub
	tokens  *auth.Issuer
}

// NewService wires the handlers to one session. hub and tokens may be nil,
// which disables broadcasting and token checks respectively. The session
// publishes its own updates to hub so they go out in the order the moves
// were made.
func NewService(session *game.Session, hub *Hub, tokens *auth.Issuer) *Service {
	if hub != nil {
		session.SetNotifier(hub)
	}
	return &Service{
		session: session,
		hub:     hub,
		tokens:  tokens,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"session": s.session.ID(),
	})
}

func (s *Service) BoardHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.View())
}

func (s *Service) LegalMovesHandler(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	moves, err := s.session.LegalMoves(from)
	if err != nil {
		http.Error(w, "Invalid square", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"moves": moves,
		"total": len(moves),
	})
}

type MakeMoveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (s *Service) MakeMoveHandler(w http.ResponseWriter, r *http.Request) {
	var req MakeMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, view, err := s.session.Move(req.From, req.To)
	if err != nil {
		log.Info().Err(err).Str("from", req.From).Str("to", req.To).Msg("Move rejected")
		switch {
		case errors.Is(err, chess.ErrInvalidSquare):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, chess.ErrIllegalMove):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, chess.ErrGameOver):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			log.Error().Err(err).Msg("Failed to make move")
			http.Error(w, "Failed to make move", http.StatusInternalServerError)
		}
		return
	}

	log.Info().
		Str("session", view.ID).
		Str("san", result.SAN).
		Bool("check", result.Check).
		Bool("checkmate", result.Checkmate).
		Msg("Move executed successfully")

	writeJSON(w, http.StatusOK, result)
}

func (s *Service) UndoHandler(w http.ResponseWriter, r *http.Request) {
	view, ok := s.session.Undo()
	if !ok {
		http.Error(w, "Nothing to undo", http.StatusConflict)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (s *Service) ResetHandler(w http.ResponseWriter, r *http.Request) {
	view := s.session.Reset()
	writeJSON(w, http.StatusOK, view)
}
