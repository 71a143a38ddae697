package chess

// LegalMoves returns every legal move for the side to move and refreshes
// the checkmate and stalemate flags.
//
// Each pseudo-legal move is tried on the receiver and undone again, so the
// position must not be observed by anyone else while this runs.
func (p *Position) LegalMoves() []Move {
	saved := p.current()

	moves := p.PseudoLegalMoves()
	for i := len(moves) - 1; i >= 0; i-- {
		p.Make(moves[i])
		p.turn = p.turn.Other()
		exposed := p.InCheck()
		p.turn = p.turn.Other()
		p.Undo()
		if exposed {
			moves = append(moves[:i], moves[i+1:]...)
		}
	}
	moves = p.appendCastleMoves(moves)

	p.checkmate, p.stalemate = false, false
	if len(moves) == 0 {
		if p.InCheck() {
			p.checkmate = true
		} else {
			p.stalemate = true
		}
	}

	p.castle = saved.castle
	p.enPassant = saved.enPassant
	return moves
}

// InCheck reports whether the side to move's king is attacked.
func (p *Position) InCheck() bool {
	return p.attacked(p.kings[p.turn], p.turn.Other())
}

// SquareUnderAttack reports whether the opponent of the side to move
// covers sq.
func (p *Position) SquareUnderAttack(sq Square) bool {
	return p.attacked(sq, p.turn.Other())
}

func (p *Position) attacked(sq Square, by Color) bool {
	g := generator{p: p, us: by, attacks: true, moves: make([]Move, 0, 48)}
	for _, m := range g.run() {
		if m.to == sq {
			return true
		}
	}
	return false
}

func (p *Position) appendCastleMoves(moves []Move) []Move {
	king := p.kings[p.turn]
	if p.SquareUnderAttack(king) {
		return moves
	}
	if p.castle.Kingside(p.turn) && p.castlePathClear(king, 1, 2, 2) {
		moves = append(moves, NewMove(king, Square{Row: king.Row, Col: king.Col + 2}, &p.board, FlagCastle))
	}
	if p.castle.Queenside(p.turn) && p.castlePathClear(king, -1, 3, 2) {
		moves = append(moves, NewMove(king, Square{Row: king.Row, Col: king.Col - 2}, &p.board, FlagCastle))
	}
	return moves
}

// castlePathClear checks that the empty squares beside the king toward dir
// are vacant and that the transit squares the king crosses are not attacked.
func (p *Position) castlePathClear(king Square, dir, empty, transit int) bool {
	for i := 1; i <= empty; i++ {
		col := king.Col + dir*i
		if col < 0 || col > 7 || !p.board[king.Row][col].IsEmpty() {
			return false
		}
	}
	for i := 1; i <= transit; i++ {
		if p.SquareUnderAttack(Square{Row: king.Row, Col: king.Col + dir*i}) {
			return false
		}
	}
	return true
}
