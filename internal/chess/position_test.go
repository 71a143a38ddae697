package chess

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewPosition(t *testing.T) {
	p := NewPosition()

	if p.Turn() != White {
		t.Errorf("Turn() = %v, want white", p.Turn())
	}
	if p.KingSquare(White) != Sq(7, 4) || p.KingSquare(Black) != Sq(0, 4) {
		t.Errorf("king squares = %v, %v", p.KingSquare(White), p.KingSquare(Black))
	}
	if p.EnPassant() != NoSquare {
		t.Errorf("EnPassant() = %v, want none", p.EnPassant())
	}
	if p.CastleRights() != AllCastleRights {
		t.Errorf("CastleRights() = %v, want KQkq", p.CastleRights())
	}
	if len(p.history) != 1 || len(p.log) != 0 {
		t.Errorf("history/log lengths = %d/%d, want 1/0", len(p.history), len(p.log))
	}
	if got := p.At(Sq(0, 3)); got != (Piece{Black, Queen}) {
		t.Errorf("d8 = %v, want bQ", got)
	}
}

func TestUndoOnEmptyLogIsNoop(t *testing.T) {
	p := NewPosition()
	before := p.Clone()
	p.Undo()
	if diff := cmp.Diff(before, p, positionOpts); diff != "" {
		t.Errorf("Undo on fresh position changed state (-want +got):\n%s", diff)
	}
}

// Every legal move in these positions must be exactly reversible.
func TestMakeUndoRestoresState(t *testing.T) {
	positions := map[string]func(t *testing.T) *Position{
		"start": func(t *testing.T) *Position { return NewPosition() },
		"kiwipete": func(t *testing.T) *Position {
			return placement(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R",
				WithCastleRights(AllCastleRights))
		},
		"en passant": func(t *testing.T) *Position {
			return placement(t, "4k3/8/8/3pP3/8/8/8/4K3", WithEnPassant(Sq(2, 3)))
		},
		"promotion": func(t *testing.T) *Position {
			return placement(t, "r3k3/1P6/8/8/8/8/6p1/4K2R", WithCastleRights(AllCastleRights))
		},
	}
	for name, build := range positions {
		t.Run(name, func(t *testing.T) {
			p := build(t)
			for _, m := range p.LegalMoves() {
				before := p.Clone()
				p.Make(m)
				if len(p.history) != len(p.log)+1 {
					t.Fatalf("%s: history %d, log %d", m, len(p.history), len(p.log))
				}
				p.Undo()
				if diff := cmp.Diff(before, p, positionOpts); diff != "" {
					t.Errorf("%s: make/undo mismatch (-want +got):\n%s", m, diff)
				}
			}
		})
	}
}

func TestMakeUndoOverGameRestoresStart(t *testing.T) {
	p := NewPosition()
	start := p.Clone()
	moves := []string{
		"e2e4", "d7d5", "e4e5", "f7f5", "e5f6", "g8f6",
		"g1f3", "b8c6", "f1c4", "c8g4", "e1g1", "d8d7",
		"b1c3", "e8c8", "c4d5", "d7d5",
	}
	play(t, p, moves...)
	if len(p.log) != len(moves) {
		t.Fatalf("log length = %d, want %d", len(p.log), len(moves))
	}
	for range moves {
		p.Undo()
	}
	if diff := cmp.Diff(start, p, positionOpts); diff != "" {
		t.Errorf("undoing the whole game did not restore the start (-want +got):\n%s", diff)
	}
}

func TestKingSquareTracking(t *testing.T) {
	p := NewPosition()
	play(t, p, "e2e4", "e7e5", "e1e2", "e8e7")
	if got := p.KingSquare(White); got != sq(t, "e2") {
		t.Errorf("white king = %v, want e2", got)
	}
	if got := p.KingSquare(Black); got != sq(t, "e7") {
		t.Errorf("black king = %v, want e7", got)
	}
	p.Undo()
	if got := p.KingSquare(Black); got != sq(t, "e8") {
		t.Errorf("black king after undo = %v, want e8", got)
	}
}

func TestEnPassantTargetLifetime(t *testing.T) {
	p := NewPosition()
	play(t, p, "e2e4")
	if got := p.EnPassant(); got != sq(t, "e3") {
		t.Fatalf("after e4, target = %v, want e3", got)
	}
	play(t, p, "g8f6")
	if got := p.EnPassant(); got != NoSquare {
		t.Errorf("after Nf6, target = %v, want none", got)
	}
	p.Undo()
	if got := p.EnPassant(); got != sq(t, "e3") {
		t.Errorf("undo restores the previous target: got %v, want e3", got)
	}
}

func TestEnPassantCaptureAndUndo(t *testing.T) {
	p := NewPosition()
	play(t, p, "e2e4", "a7a6", "e4e5", "d7d5")

	m, ok := findMove(p.LegalMoves(), sq(t, "e5"), sq(t, "d6"))
	if !ok {
		t.Fatal("exd6 e.p. not offered")
	}
	if !m.IsEnPassant() || m.Captured() != (Piece{Black, Pawn}) {
		t.Fatalf("move flags = %+v", m)
	}
	p.Make(m)
	if !p.At(sq(t, "d5")).IsEmpty() {
		t.Error("captured pawn still on d5")
	}
	if p.At(sq(t, "d6")) != (Piece{White, Pawn}) {
		t.Error("capturing pawn not on d6")
	}

	p.Undo()
	if p.At(sq(t, "d5")) != (Piece{Black, Pawn}) {
		t.Error("undo did not restore pawn on d5")
	}
	if !p.At(sq(t, "d6")).IsEmpty() {
		t.Error("undo left a piece on d6")
	}
	if p.EnPassant() != sq(t, "d6") {
		t.Errorf("target after undo = %v, want d6", p.EnPassant())
	}
}

func TestEnPassantWindowClosesAfterOneMove(t *testing.T) {
	p := NewPosition()
	play(t, p, "e2e4", "a7a6", "e4e5", "d7d5", "h2h3", "h7h6")
	if hasMove(p.LegalMoves(), "e5", "d6") {
		t.Error("en passant still available after an intervening move")
	}
}

func TestPromotionToQueen(t *testing.T) {
	p := placement(t, "4k3/1P6/8/8/8/8/8/4K3")
	play(t, p, "b7b8")
	if got := p.At(sq(t, "b8")); got != (Piece{White, Queen}) {
		t.Errorf("b8 = %v, want wQ", got)
	}
	p.Undo()
	if got := p.At(sq(t, "b7")); got != (Piece{White, Pawn}) {
		t.Errorf("b7 after undo = %v, want wp", got)
	}
	if !p.At(sq(t, "b8")).IsEmpty() {
		t.Error("b8 not empty after undo")
	}
}

func TestCastlingRelocatesRook(t *testing.T) {
	p := placement(t, "r3k2r/8/8/8/8/8/8/R3K2R", WithCastleRights(AllCastleRights))

	play(t, p, "e1g1")
	if p.At(sq(t, "g1")) != (Piece{White, King}) || p.At(sq(t, "f1")) != (Piece{White, Rook}) {
		t.Errorf("after O-O: g1=%v f1=%v", p.At(sq(t, "g1")), p.At(sq(t, "f1")))
	}
	if !p.At(sq(t, "h1")).IsEmpty() || !p.At(sq(t, "e1")).IsEmpty() {
		t.Error("O-O left pieces on e1/h1")
	}

	play(t, p, "e8c8")
	if p.At(sq(t, "c8")) != (Piece{Black, King}) || p.At(sq(t, "d8")) != (Piece{Black, Rook}) {
		t.Errorf("after O-O-O: c8=%v d8=%v", p.At(sq(t, "c8")), p.At(sq(t, "d8")))
	}
	if !p.At(sq(t, "a8")).IsEmpty() {
		t.Error("O-O-O left the rook on a8")
	}

	p.Undo()
	p.Undo()
	if p.At(sq(t, "h1")) != (Piece{White, Rook}) || p.At(sq(t, "a8")) != (Piece{Black, Rook}) {
		t.Error("undo did not put the rooks back")
	}
	if p.CastleRights() != AllCastleRights {
		t.Errorf("rights after undo = %v, want KQkq", p.CastleRights())
	}
}

func TestCastleRightsLoss(t *testing.T) {
	const board = "r3k2r/8/8/8/8/8/8/R3K2R"
	tests := []struct {
		name  string
		moves []string
		want  CastleRights
	}{
		{"king move", []string{"e1e2"}, CastleRights{false, false, true, true}},
		{"kingside rook move", []string{"h1h2"}, CastleRights{false, true, true, true}},
		{"queenside rook move", []string{"a1a2", "a8a7"}, CastleRights{true, false, true, false}},
		{"rook returns home", []string{"h1h2", "e8e7", "h2h1"}, CastleRights{false, true, false, false}},
		{"rook captured on home square", []string{"a1a8"}, CastleRights{true, false, true, false}},
		{"rook captures rook", []string{"h1h8"}, CastleRights{false, true, false, true}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := placement(t, board, WithCastleRights(AllCastleRights))
			play(t, p, test.moves...)
			if got := p.CastleRights(); got != test.want {
				t.Errorf("rights = %v, want %v", got, test.want)
			}
			for range test.moves {
				p.Undo()
			}
			if got := p.CastleRights(); got != AllCastleRights {
				t.Errorf("rights after undo = %v, want KQkq", got)
			}
		})
	}
}

func TestCastleRightsSnapshotsAreNotAliased(t *testing.T) {
	p := NewPosition()
	play(t, p, "e2e4", "e7e5", "e1e2")
	if p.history[0].castle != AllCastleRights {
		t.Errorf("initial snapshot mutated: %v", p.history[0].castle)
	}
	if p.history[len(p.history)-1].castle != p.CastleRights() {
		t.Error("top snapshot differs from current rights")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := NewPosition()
	c := p.Clone()
	play(t, c, "e2e4")
	if !p.At(sq(t, "e4")).IsEmpty() || len(p.log) != 0 {
		t.Error("moving on the clone changed the original")
	}
}

func TestSetupPositionValidation(t *testing.T) {
	_, err := SetupPosition(WithPiece(Sq(7, 4), Piece{White, King}))
	if err == nil {
		t.Error("missing black king accepted")
	}

	p, err := SetupPosition(
		WithPiece(Sq(7, 4), Piece{White, King}),
		WithPiece(Sq(0, 0), Piece{Black, King}),
		WithPiece(Sq(7, 7), Piece{White, Rook}),
		WithCastleRights(AllCastleRights),
	)
	if err != nil {
		t.Fatalf("SetupPosition: %v", err)
	}
	want := CastleRights{WhiteKingside: true}
	if got := p.CastleRights(); got != want {
		t.Errorf("sanitized rights = %v, want %v", got, want)
	}
}

func TestSetupPositionRejectsBadEnPassant(t *testing.T) {
	kings := []SetupOption{
		WithPiece(Sq(7, 4), Piece{White, King}),
		WithPiece(Sq(0, 4), Piece{Black, King}),
		WithPiece(Sq(3, 4), Piece{White, Pawn}),
	}
	tests := []struct {
		name  string
		extra []SetupOption
		ok    bool
	}{
		{"double step", []SetupOption{WithPiece(Sq(3, 3), Piece{Black, Pawn}), WithEnPassant(Sq(2, 3))}, true},
		{"knight on the pawn square", []SetupOption{WithPiece(Sq(3, 3), Piece{Black, Knight}), WithEnPassant(Sq(2, 3))}, false},
		{"own pawn on the pawn square", []SetupOption{WithPiece(Sq(3, 3), Piece{White, Pawn}), WithEnPassant(Sq(2, 3))}, false},
		{"target occupied", []SetupOption{WithPiece(Sq(3, 3), Piece{Black, Pawn}), WithPiece(Sq(2, 3), Piece{Black, Bishop}), WithEnPassant(Sq(2, 3))}, false},
		{"start square occupied", []SetupOption{WithPiece(Sq(3, 3), Piece{Black, Pawn}), WithPiece(Sq(1, 3), Piece{Black, Pawn}), WithEnPassant(Sq(2, 3))}, false},
		{"wrong rank", []SetupOption{WithPiece(Sq(4, 3), Piece{Black, Pawn}), WithEnPassant(Sq(3, 3))}, false},
		{"wrong side to move", []SetupOption{WithPiece(Sq(3, 3), Piece{Black, Pawn}), WithEnPassant(Sq(2, 3)), WithTurn(Black)}, false},
		{"off board", []SetupOption{WithEnPassant(Square{Row: 8, Col: 3})}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			opts := append(append([]SetupOption{}, kings...), test.extra...)
			p, err := SetupPosition(opts...)
			if test.ok {
				if err != nil {
					t.Fatalf("SetupPosition: %v", err)
				}
				if p.EnPassant() != Sq(2, 3) {
					t.Errorf("EnPassant() = %v, want d6", p.EnPassant())
				}
				return
			}
			if !errors.Is(err, ErrInvalidSetup) {
				t.Errorf("err = %v, want ErrInvalidSetup", err)
			}
		})
	}
}

func TestSetupEnPassantRoundTrip(t *testing.T) {
	p := placement(t, "4k3/8/8/3pP3/8/8/8/4K3", WithEnPassant(Sq(2, 3)))
	before := p.Board()
	m, ok := findMove(p.LegalMoves(), Sq(3, 4), Sq(2, 3))
	if !ok || !m.IsEnPassant() {
		t.Fatal("exd6 e.p. not offered")
	}
	p.Make(m)
	if got := p.Board()[3][3]; got != NoPiece {
		t.Errorf("captured pawn still on d5: %v", got)
	}
	p.Undo()
	if got := p.Board(); got != before {
		t.Errorf("board after undo differs:\n%v\nwant\n%v", got, before)
	}
}
