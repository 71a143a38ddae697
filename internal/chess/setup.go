package chess

import "fmt"

// SetupOption configures a position built by SetupPosition.
type SetupOption func(*Position)

// WithPiece places p on sq.
func WithPiece(sq Square, p Piece) SetupOption {
	return func(pos *Position) {
		pos.board.set(sq, p)
	}
}

// WithTurn sets the side to move.
func WithTurn(c Color) SetupOption {
	return func(pos *Position) {
		pos.turn = c
	}
}

// WithCastleRights sets the castling rights. Rights whose king or rook is
// not on its home square are dropped.
func WithCastleRights(cr CastleRights) SetupOption {
	return func(pos *Position) {
		pos.castle = cr
	}
}

// WithEnPassant sets the en-passant target square.
func WithEnPassant(sq Square) SetupOption {
	return func(pos *Position) {
		pos.enPassant = sq
	}
}

// SetupPosition builds a position from an empty board. The result must
// hold exactly one king per color.
func SetupPosition(opts ...SetupOption) (*Position, error) {
	p := &Position{
		turn:      White,
		enPassant: NoSquare,
		log:       make([]Move, 0, 64),
	}
	for _, opt := range opts {
		opt(p)
	}

	var found [2]int
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if piece := p.board[row][col]; piece.Kind == King {
				found[piece.Color]++
				p.kings[piece.Color] = Square{Row: row, Col: col}
			}
		}
	}
	if found[White] != 1 || found[Black] != 1 {
		return nil, fmt.Errorf("%w: need one king per side, have %d white and %d black",
			ErrInvalidSetup, found[White], found[Black])
	}
	if p.enPassant != NoSquare {
		if err := p.checkEnPassant(); err != nil {
			return nil, err
		}
	}

	p.sanitizeCastleRights()
	p.history = append(make([]snapshot, 0, 65), p.current())
	return p, nil
}

// checkEnPassant requires the target to be the square a pawn of the side
// not to move just skipped over with a double step.
func (p *Position) checkEnPassant() error {
	sq := p.enPassant
	if !sq.Valid() {
		return fmt.Errorf("%w: en-passant target %v off board", ErrInvalidSetup, sq)
	}
	row, dir := 2, 1
	if p.turn == Black {
		row, dir = 5, -1
	}
	if sq.Row != row {
		return fmt.Errorf("%w: en-passant target %v not on the %s capture rank",
			ErrInvalidSetup, sq, p.turn)
	}
	behind := Square{Row: sq.Row - dir, Col: sq.Col}
	pawn := Square{Row: sq.Row + dir, Col: sq.Col}
	if p.board.At(sq) != NoPiece || p.board.At(behind) != NoPiece {
		return fmt.Errorf("%w: en-passant target %v or the square behind it is occupied", ErrInvalidSetup, sq)
	}
	if p.board.At(pawn) != (Piece{Color: p.turn.Other(), Kind: Pawn}) {
		return fmt.Errorf("%w: no %s pawn on %v for en-passant target %v",
			ErrInvalidSetup, p.turn.Other(), pawn, sq)
	}
	return nil
}

func (p *Position) sanitizeCastleRights() {
	for _, c := range [2]Color{White, Black} {
		row := homeRow(c)
		if p.kings[c] != (Square{Row: row, Col: 4}) {
			p.castle.revokeKingside(c)
			p.castle.revokeQueenside(c)
			continue
		}
		rook := Piece{Color: c, Kind: Rook}
		if p.board[row][7] != rook {
			p.castle.revokeKingside(c)
		}
		if p.board[row][0] != rook {
			p.castle.revokeQueenside(c)
		}
	}
}
