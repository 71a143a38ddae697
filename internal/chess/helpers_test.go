package chess

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// positionOpts lets go-cmp look inside Position and Move.
var positionOpts = cmp.Options{
	cmp.AllowUnexported(Position{}, Move{}, snapshot{}),
	cmpopts.EquateEmpty(),
}

var pieceLetters = map[rune]Piece{
	'P': {White, Pawn}, 'N': {White, Knight}, 'B': {White, Bishop},
	'R': {White, Rook}, 'Q': {White, Queen}, 'K': {White, King},
	'p': {Black, Pawn}, 'n': {Black, Knight}, 'b': {Black, Bishop},
	'r': {Black, Rook}, 'q': {Black, Queen}, 'k': {Black, King},
}

// placement builds a position from the board field of a FEN-style string,
// ranks 8 to 1 separated by slashes.
func placement(t *testing.T, board string, opts ...SetupOption) *Position {
	t.Helper()
	ranks := strings.Split(board, "/")
	if len(ranks) != 8 {
		t.Fatalf("placement %q: want 8 ranks, got %d", board, len(ranks))
	}
	var all []SetupOption
	for row, rank := range ranks {
		col := 0
		for _, r := range rank {
			if r >= '1' && r <= '8' {
				col += int(r - '0')
				continue
			}
			piece, ok := pieceLetters[r]
			if !ok {
				t.Fatalf("placement %q: bad piece %q", board, r)
			}
			all = append(all, WithPiece(Sq(row, col), piece))
			col++
		}
	}
	p, err := SetupPosition(append(all, opts...)...)
	if err != nil {
		t.Fatalf("SetupPosition(%q): %v", board, err)
	}
	return p
}

func sq(t *testing.T, s string) Square {
	t.Helper()
	out, err := ParseSquare(s)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", s, err)
	}
	return out
}

// play applies coordinate moves such as "e2e4", each of which must be legal.
func play(t *testing.T, p *Position, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		m, ok := findMove(p.LegalMoves(), sq(t, mv[:2]), sq(t, mv[2:4]))
		if !ok {
			t.Fatalf("move %s is not legal", mv)
		}
		p.Make(m)
	}
}

func findMove(moves []Move, from, to Square) (Move, bool) {
	for _, m := range moves {
		if m.From() == from && m.To() == to {
			return m, true
		}
	}
	return Move{}, false
}

func hasMove(moves []Move, from, to string) bool {
	f, err := ParseSquare(from)
	if err != nil {
		return false
	}
	d, err := ParseSquare(to)
	if err != nil {
		return false
	}
	_, ok := findMove(moves, f, d)
	return ok
}
