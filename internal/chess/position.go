package chess

// snapshot is the reversible part of the state that a Move does not carry.
type snapshot struct {
	castle    CastleRights
	enPassant Square
}

// Position is the mutable game state. It owns the board and every history
// stack, and all mutation goes through Make and Undo.
//
// A Position is not safe for concurrent use. LegalMoves makes and undoes
// moves on the receiver while it filters, so intermediate states are
// transiently illegal; callers that need concurrency should Clone.
type Position struct {
	board     Board
	turn      Color
	kings     [2]Square
	enPassant Square
	castle    CastleRights
	history   []snapshot
	log       []Move
	checkmate bool
	stalemate bool
}

// NewPosition returns the standard starting position with white to move.
func NewPosition() *Position {
	p := &Position{
		board:     StartingBoard(),
		turn:      White,
		kings:     [2]Square{White: Sq(7, 4), Black: Sq(0, 4)},
		enPassant: NoSquare,
		castle:    AllCastleRights,
		log:       make([]Move, 0, 64),
	}
	p.history = append(make([]snapshot, 0, 65), p.current())
	return p
}

func (p *Position) current() snapshot {
	return snapshot{castle: p.castle, enPassant: p.enPassant}
}

// Board returns a copy of the board.
func (p *Position) Board() Board { return p.board }

// At returns the piece on sq.
func (p *Position) At(sq Square) Piece { return p.board.At(sq) }

// Turn returns the side to move.
func (p *Position) Turn() Color { return p.turn }

// KingSquare returns the tracked square of c's king.
func (p *Position) KingSquare(c Color) Square { return p.kings[c] }

// EnPassant returns the en-passant target, or NoSquare.
func (p *Position) EnPassant() Square { return p.enPassant }

// CastleRights returns the current rights by value.
func (p *Position) CastleRights() CastleRights { return p.castle }

// IsCheckmate and IsStalemate reflect the last LegalMoves call.
func (p *Position) IsCheckmate() bool { return p.checkmate }
func (p *Position) IsStalemate() bool { return p.stalemate }

// MoveLog returns a copy of the applied moves, oldest first.
func (p *Position) MoveLog() []Move {
	return append([]Move(nil), p.log...)
}

// LastMove returns the most recently applied move.
func (p *Position) LastMove() (Move, bool) {
	if len(p.log) == 0 {
		return Move{}, false
	}
	return p.log[len(p.log)-1], true
}

// Clone returns an independent deep copy.
func (p *Position) Clone() *Position {
	c := *p
	c.history = append(make([]snapshot, 0, cap(p.history)), p.history...)
	c.log = append(make([]Move, 0, cap(p.log)), p.log...)
	return &c
}

// Make applies m. The move must have been built against the current board.
func (p *Position) Make(m Move) {
	mover := m.moved.Color
	p.board.set(m.from, NoPiece)
	p.board.set(m.to, m.moved)
	p.log = append(p.log, m)
	p.turn = p.turn.Other()

	if m.moved.Kind == King {
		p.kings[mover] = m.to
	}
	if m.promotion {
		p.board.set(m.to, Piece{Color: mover, Kind: Queen})
	}
	if m.enPassant {
		p.board[m.from.Row][m.to.Col] = NoPiece
	}

	if m.moved.Kind == Pawn && abs(m.from.Row-m.to.Row) == 2 {
		p.enPassant = Square{Row: (m.from.Row + m.to.Row) / 2, Col: m.from.Col}
	} else {
		p.enPassant = NoSquare
	}

	if m.castle {
		row := m.from.Row
		if m.to.Col > m.from.Col {
			p.board[row][m.to.Col-1] = p.board[row][m.to.Col+1]
			p.board[row][m.to.Col+1] = NoPiece
		} else {
			p.board[row][m.to.Col+1] = p.board[row][m.to.Col-2]
			p.board[row][m.to.Col-2] = NoPiece
		}
	}

	p.updateCastleRights(m)
	p.history = append(p.history, p.current())
}

// Undo reverts the last applied move. It does nothing when no move has
// been made. Both terminal flags are cleared; call LegalMoves to refresh.
func (p *Position) Undo() {
	if len(p.log) == 0 {
		return
	}
	m := p.log[len(p.log)-1]
	p.log = p.log[:len(p.log)-1]

	p.board.set(m.from, m.moved)
	p.board.set(m.to, m.captured)
	p.turn = p.turn.Other()

	if m.moved.Kind == King {
		p.kings[m.moved.Color] = m.from
	}
	if m.enPassant {
		p.board.set(m.to, NoPiece)
		p.board[m.from.Row][m.to.Col] = m.captured
	}
	if m.castle {
		row := m.from.Row
		if m.to.Col > m.from.Col {
			p.board[row][m.to.Col+1] = p.board[row][m.to.Col-1]
			p.board[row][m.to.Col-1] = NoPiece
		} else {
			p.board[row][m.to.Col-2] = p.board[row][m.to.Col+1]
			p.board[row][m.to.Col+1] = NoPiece
		}
	}

	p.history = p.history[:len(p.history)-1]
	prev := p.history[len(p.history)-1]
	p.castle = prev.castle
	p.enPassant = prev.enPassant

	p.checkmate = false
	p.stalemate = false
}

// updateCastleRights revokes rights invalidated by m. The mover and the
// captured piece are checked independently.
func (p *Position) updateCastleRights(m Move) {
	switch m.moved.Kind {
	case King:
		p.castle.revokeKingside(m.moved.Color)
		p.castle.revokeQueenside(m.moved.Color)
	case Rook:
		p.revokeCorner(m.moved.Color, m.from)
	}
	if m.captured.Kind == Rook {
		p.revokeCorner(m.captured.Color, m.to)
	}
}

// revokeCorner drops c's right on the side whose rook starts on sq.
func (p *Position) revokeCorner(c Color, sq Square) {
	if sq.Row != homeRow(c) {
		return
	}
	switch sq.Col {
	case 0:
		p.castle.revokeQueenside(c)
	case 7:
		p.castle.revokeKingside(c)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
