package chess

type direction struct{ dr, dc int }

var (
	knightOffsets = []direction{
		{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
		{1, -2}, {1, 2}, {2, -1}, {2, 1},
	}
	kingOffsets = []direction{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
	rookDirections   = []direction{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	bishopDirections = []direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
)

// generator enumerates moves for one side without touching the position.
// In attack mode pawns yield their diagonal squares instead of their
// actual moves, which is what "is this square covered" needs.
type generator struct {
	p       *Position
	us      Color
	attacks bool
	moves   []Move
}

// PseudoLegalMoves returns every move of the side to move that obeys piece
// movement rules, ignoring king safety. Castling is not included.
func (p *Position) PseudoLegalMoves() []Move {
	g := generator{p: p, us: p.turn, moves: make([]Move, 0, 48)}
	return g.run()
}

func (g *generator) run() []Move {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := g.p.board[row][col]
			if !piece.Is(g.us) {
				continue
			}
			from := Square{Row: row, Col: col}
			switch piece.Kind {
			case Pawn:
				g.pawn(from)
			case Knight:
				g.step(from, knightOffsets)
			case Bishop:
				g.slide(from, bishopDirections)
			case Rook:
				g.slide(from, rookDirections)
			case Queen:
				g.slide(from, rookDirections)
				g.slide(from, bishopDirections)
			case King:
				g.step(from, kingOffsets)
			}
		}
	}
	return g.moves
}

func (g *generator) add(from, to Square, flags ...Flag) {
	g.moves = append(g.moves, NewMove(from, to, &g.p.board, flags...))
}

func (g *generator) pawn(from Square) {
	dir := -1
	if g.us == Black {
		dir = 1
	}
	row := from.Row + dir
	if row < 0 || row > 7 {
		return
	}
	b := &g.p.board

	if !g.attacks && b[row][from.Col].IsEmpty() {
		g.add(from, Square{Row: row, Col: from.Col})
		startRow := 6
		if g.us == Black {
			startRow = 1
		}
		if from.Row == startRow && b[row+dir][from.Col].IsEmpty() {
			g.add(from, Square{Row: row + dir, Col: from.Col})
		}
	}

	for _, dc := range [2]int{-1, 1} {
		col := from.Col + dc
		if col < 0 || col > 7 {
			continue
		}
		to := Square{Row: row, Col: col}
		switch {
		case g.attacks:
			g.add(from, to)
		case b.At(to).Is(g.us.Other()):
			g.add(from, to)
		case to == g.p.enPassant:
			g.add(from, to, FlagEnPassant)
		}
	}
}

// step handles the fixed-offset pieces: knight and king.
func (g *generator) step(from Square, offsets []direction) {
	for _, d := range offsets {
		row, col := from.Row+d.dr, from.Col+d.dc
		if !onBoard(row, col) {
			continue
		}
		if g.p.board[row][col].Is(g.us) {
			continue
		}
		g.add(from, Square{Row: row, Col: col})
	}
}

// slide casts rays until the edge, an allied piece, or a capture.
func (g *generator) slide(from Square, dirs []direction) {
	for _, d := range dirs {
		for i := 1; i < 8; i++ {
			row, col := from.Row+d.dr*i, from.Col+d.dc*i
			if !onBoard(row, col) {
				break
			}
			target := g.p.board[row][col]
			if target.IsEmpty() {
				g.add(from, Square{Row: row, Col: col})
				continue
			}
			if !target.Is(g.us) {
				g.add(from, Square{Row: row, Col: col})
			}
			break
		}
	}
}
