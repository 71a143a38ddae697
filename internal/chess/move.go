package chess

import "fmt"

// Flag marks a move as one of the special kinds that cannot be inferred
// from the board alone.
type Flag uint8

const (
	FlagEnPassant Flag = 1 << iota
	FlagCastle
)

// MoveID identifies a move by its endpoints. Two moves with the same
// endpoints are the same move for matching user input against the legal list.
type MoveID struct {
	From Square
	To   Square
}

func (id MoveID) String() string {
	return id.From.String() + id.To.String()
}

// Move is an immutable description of one transition. It captures the
// moving and captured pieces at construction time so it can be undone
// without consulting the board.
type Move struct {
	from      Square
	to        Square
	moved     Piece
	captured  Piece
	promotion bool
	enPassant bool
	castle    bool
}

// NewMove builds a move from the pieces currently on b.
func NewMove(from, to Square, b *Board, flags ...Flag) Move {
	m := Move{
		from:     from,
		to:       to,
		moved:    b.At(from),
		captured: b.At(to),
	}
	for _, f := range flags {
		m.enPassant = m.enPassant || f&FlagEnPassant != 0
		m.castle = m.castle || f&FlagCastle != 0
	}
	m.promotion = m.moved.Kind == Pawn && to.Row == promotionRow(m.moved.Color)
	if m.enPassant {
		// The victim is beside the mover, not on the destination.
		m.captured = Piece{Color: m.moved.Color.Other(), Kind: Pawn}
	}
	return m
}

func (m Move) From() Square      { return m.from }
func (m Move) To() Square        { return m.to }
func (m Move) Moved() Piece      { return m.moved }
func (m Move) Captured() Piece   { return m.captured }
func (m Move) IsPromotion() bool { return m.promotion }
func (m Move) IsEnPassant() bool { return m.enPassant }
func (m Move) IsCastle() bool    { return m.castle }
func (m Move) IsCapture() bool   { return !m.captured.IsEmpty() }

func (m Move) ID() MoveID {
	return MoveID{From: m.from, To: m.to}
}

// String returns coordinate notation, e.g. "e2e4".
func (m Move) String() string {
	return m.ID().String()
}

// Notation returns a short algebraic label for move history display.
// Check and mate suffixes depend on the resulting position and are added
// by Engine.
func (m Move) Notation() string {
	dest := m.to.String()
	switch {
	case m.castle:
		if m.to.Col > m.from.Col {
			return "O-O"
		}
		return "O-O-O"
	case m.promotion:
		return dest + "=Q"
	case m.enPassant:
		return fmt.Sprintf("%sx%s e.p.", m.from.File(), dest)
	case m.moved.Kind == Pawn && m.IsCapture():
		return fmt.Sprintf("%sx%s", m.from.File(), dest)
	}
	capture := ""
	if m.IsCapture() {
		capture = "x"
	}
	return m.moved.Kind.Letter() + capture + dest
}
