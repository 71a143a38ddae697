// Package game serializes access to a single chess engine and keeps its
// move list persisted.
package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/justinabrahms/hotseat/internal/chess"
	"github.com/justinabrahms/hotseat/internal/storage"
	"github.com/rs/zerolog/log"
)

// Store persists session move lists. *storage.Storage implements it.
type Store interface {
	SaveGame(rec *storage.GameRecord) error
	LoadLatest() (*storage.GameRecord, error)
}

// Notifier receives every change to a session. Calls arrive in the order
// the changes were made; *web.Hub implements it.
type Notifier interface {
	Broadcast(kind string, data interface{})
}

// Session is one board shared by both players. All methods are safe for
// concurrent use; each call holds the lock for its whole duration, so no
// caller can observe the engine mid-filter.
type Session struct {
	mu     sync.Mutex
	id     string
	engine *chess.Engine
	moves  []storage.MoveRecord
	store  Store
	notify Notifier
}

// New starts a fresh game. store may be nil.
func New(store Store) *Session {
	return &Session{
		id:     uuid.New().String(),
		engine: chess.NewEngine(),
		moves:  make([]storage.MoveRecord, 0),
		store:  store,
	}
}

// Resume replays the latest stored game, or starts a fresh one when the
// store is empty.
func Resume(store Store) (*Session, error) {
	if store == nil {
		return New(nil), nil
	}
	rec, err := store.LoadLatest()
	if errors.Is(err, storage.ErrNotFound) {
		return New(store), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest game: %w", err)
	}

	s := &Session{
		id:     rec.ID,
		engine: chess.NewEngine(),
		moves:  make([]storage.MoveRecord, 0, len(rec.Moves)),
		store:  store,
	}
	for i, mv := range rec.Moves {
		if _, err := s.engine.MakeMove(mv.From, mv.To); err != nil {
			return nil, fmt.Errorf("failed to replay move %d (%s%s) of game %s: %w", i+1, mv.From, mv.To, rec.ID, err)
		}
		s.moves = append(s.moves, mv)
	}

	log.Info().
		Str("session", s.id).
		Int("moves", len(s.moves)).
		Msg("Resumed stored game")
	return s, nil
}

// SetNotifier registers n to receive "move", "undo" and "reset" updates.
// n is called with the session locked and must not block.
func (s *Session) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = n
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Move applies from-to and returns the move result with the new view.
func (s *Session) Move(from, to string) (*chess.MoveResult, View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.engine.MakeMove(from, to)
	if err != nil {
		return nil, View{}, err
	}
	s.moves = append(s.moves, storage.MoveRecord{From: from, To: to})
	s.persist()

	log.Debug().
		Str("session", s.id).
		Str("from", from).
		Str("to", to).
		Str("san", result.SAN).
		Msg("Move applied")
	v := s.view()
	s.publish("move", v)
	return result, v, nil
}

// Undo takes back the last move. ok is false when there was none.
func (s *Session) Undo() (v View, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.engine.Undo() {
		return s.view(), false
	}
	s.moves = s.moves[:len(s.moves)-1]
	s.persist()
	v = s.view()
	s.publish("undo", v)
	return v, true
}

// Reset abandons the current game and starts a new one under a new id.
func (s *Session) Reset() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Info().Str("session", s.id).Int("moves", len(s.moves)).Msg("Game reset")
	s.id = uuid.New().String()
	s.engine = chess.NewEngine()
	s.moves = make([]storage.MoveRecord, 0)
	s.persist()
	v := s.view()
	s.publish("reset", v)
	return v
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// LegalMoves lists the legal moves, only those starting on from when it is
// not empty.
func (s *Session) LegalMoves(from string) ([]MoveView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var moves []chess.Move
	if from == "" {
		moves = s.engine.LegalMoves()
	} else {
		sq, err := chess.ParseSquare(from)
		if err != nil {
			return nil, err
		}
		moves = s.engine.LegalMovesFrom(sq)
	}

	out := make([]MoveView, 0, len(moves))
	for _, m := range moves {
		out = append(out, newMoveView(m))
	}
	return out, nil
}

// Record returns a copy of the session's persisted form.
func (s *Session) Record() storage.GameRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record()
}

func (s *Session) record() storage.GameRecord {
	return storage.GameRecord{
		ID:    s.id,
		Moves: append([]storage.MoveRecord(nil), s.moves...),
	}
}

func (s *Session) publish(kind string, v View) {
	if s.notify != nil {
		s.notify.Broadcast(kind, v)
	}
}

// persist is best effort: the in-memory game stays authoritative.
func (s *Session) persist() {
	if s.store == nil {
		return
	}
	rec := s.record()
	if err := s.store.SaveGame(&rec); err != nil {
		log.Error().Err(err).Str("session", s.id).Msg("Failed to save game")
	}
}
