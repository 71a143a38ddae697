package chess

// Perft counts the leaf nodes of the legal move tree to the given depth.
// This is the standard way to verify move generation.
func Perft(p *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := p.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		p.Make(m)
		nodes += Perft(p, depth-1)
		p.Undo()
	}
	return nodes
}

// PerftDivide reports the perft count below each root move.
func PerftDivide(p *Position, depth int) map[MoveID]uint64 {
	out := make(map[MoveID]uint64)
	if depth < 1 {
		return out
	}
	for _, m := range p.LegalMoves() {
		p.Make(m)
		out[m.ID()] = Perft(p, depth-1)
		p.Undo()
	}
	return out
}
