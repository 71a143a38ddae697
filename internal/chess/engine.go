package chess

import (
	"fmt"
)

// Engine drives a Position for an interactive consumer. It keeps the legal
// move list current after every change so the terminal flags can be
// trusted at any time.
type Engine struct {
	pos     *Position
	legal   []Move
	history []string
}

func NewEngine() *Engine {
	return NewEngineFromPosition(NewPosition())
}

// NewEngineFromPosition takes ownership of p. Moves already in p's log get
// plain notation without check suffixes.
func NewEngineFromPosition(p *Position) *Engine {
	e := &Engine{pos: p}
	for _, m := range p.log {
		e.history = append(e.history, m.Notation())
	}
	e.refresh()
	return e
}

func (e *Engine) refresh() {
	e.legal = e.pos.LegalMoves()
}

// MakeMove applies the move between two algebraic squares, e.g. "e2", "e4".
func (e *Engine) MakeMove(from, to string) (*MoveResult, error) {
	fromSquare, err := ParseSquare(from)
	if err != nil {
		return nil, err
	}
	toSquare, err := ParseSquare(to)
	if err != nil {
		return nil, err
	}

	candidate := NewMove(fromSquare, toSquare, &e.pos.board)
	if err := e.Apply(candidate); err != nil {
		return nil, err
	}

	result := &MoveResult{
		From:      from,
		To:        to,
		SAN:       e.history[len(e.history)-1],
		Check:     e.pos.InCheck(),
		Checkmate: e.pos.IsCheckmate(),
		Stalemate: e.pos.IsStalemate(),
	}
	result.GameOver = result.Checkmate || result.Stalemate
	result.Result = e.Result()
	return result, nil
}

// Apply validates m against the legal list by endpoints and applies the
// matching legal move, which carries the correct special-move flags.
func (e *Engine) Apply(m Move) error {
	if e.pos.IsCheckmate() || e.pos.IsStalemate() {
		return ErrGameOver
	}
	legal, ok := e.find(m.ID())
	if !ok {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m.ID())
	}

	e.pos.Make(legal)
	e.refresh()

	san := legal.Notation()
	switch {
	case e.pos.IsCheckmate():
		san += "#"
	case e.pos.InCheck():
		san += "+"
	}
	e.history = append(e.history, san)
	return nil
}

func (e *Engine) find(id MoveID) (Move, bool) {
	for _, m := range e.legal {
		if m.ID() == id {
			return m, true
		}
	}
	return Move{}, false
}

// Undo takes back the last move. It reports false when there was nothing
// to undo.
func (e *Engine) Undo() bool {
	if len(e.pos.log) == 0 {
		return false
	}
	e.pos.Undo()
	e.history = e.history[:len(e.history)-1]
	e.refresh()
	return true
}

// LegalMoves returns a copy of the current legal move list.
func (e *Engine) LegalMoves() []Move {
	return append([]Move(nil), e.legal...)
}

// LegalMovesFrom returns the legal moves starting on sq.
func (e *Engine) LegalMovesFrom(sq Square) []Move {
	var out []Move
	for _, m := range e.legal {
		if m.from == sq {
			out = append(out, m)
		}
	}
	return out
}

func (e *Engine) IsCheckmate() bool { return e.pos.IsCheckmate() }
func (e *Engine) IsStalemate() bool { return e.pos.IsStalemate() }
func (e *Engine) IsInCheck() bool   { return e.pos.InCheck() }

func (e *Engine) Board() Board               { return e.pos.Board() }
func (e *Engine) Turn() Color                { return e.pos.Turn() }
func (e *Engine) CastleRights() CastleRights { return e.pos.CastleRights() }
func (e *Engine) EnPassant() Square          { return e.pos.EnPassant() }
func (e *Engine) MoveLog() []Move            { return e.pos.MoveLog() }
func (e *Engine) LastMove() (Move, bool)     { return e.pos.LastMove() }

// Position returns an independent copy of the current position.
func (e *Engine) Position() *Position { return e.pos.Clone() }

// History returns the notation of every applied move, oldest first.
func (e *Engine) History() []string {
	return append([]string(nil), e.history...)
}

func (e *Engine) GetStatus() GameStatus {
	switch {
	case e.pos.IsCheckmate() && e.pos.Turn() == White:
		return StatusBlackWon
	case e.pos.IsCheckmate():
		return StatusWhiteWon
	case e.pos.IsStalemate():
		return StatusDraw
	default:
		return StatusActive
	}
}

// Result returns the outcome in PGN result notation.
func (e *Engine) Result() string {
	switch e.GetStatus() {
	case StatusWhiteWon:
		return "1-0"
	case StatusBlackWon:
		return "0-1"
	case StatusDraw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

func (e *Engine) GetActiveColor() string {
	return e.pos.Turn().String()
}

// GetPieceValues returns the standard material values by kind name.
func (e *Engine) GetPieceValues() map[string]int {
	values := make(map[string]int, len(StandardPieceValues))
	for kind, v := range StandardPieceValues {
		values[kind.String()] = v
	}
	return values
}

// GetMaterialCount sums the standard values of each side's pieces.
func (e *Engine) GetMaterialCount() MaterialCount {
	var count MaterialCount
	for _, row := range e.pos.board {
		for _, piece := range row {
			if piece.IsEmpty() {
				continue
			}
			if piece.Color == White {
				count.White += StandardPieceValues[piece.Kind]
			} else {
				count.Black += StandardPieceValues[piece.Kind]
			}
		}
	}
	return count
}

// GetMaterialBalance is white's material minus black's.
func (e *Engine) GetMaterialBalance() int {
	count := e.GetMaterialCount()
	return count.White - count.Black
}
