package chess

// Board is the 8x8 grid of pieces, indexed [row][col].
type Board [8][8]Piece

// At returns the piece on sq.
func (b *Board) At(sq Square) Piece {
	return b[sq.Row][sq.Col]
}

func (b *Board) set(sq Square, p Piece) {
	b[sq.Row][sq.Col] = p
}

// Codes returns the compact piece codes for rendering.
func (b *Board) Codes() [8][8]string {
	var out [8][8]string
	for row := range b {
		for col := range b[row] {
			out[row][col] = b[row][col].String()
		}
	}
	return out
}

// StartingBoard returns the standard initial placement.
func StartingBoard() Board {
	var b Board
	back := [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col := 0; col < 8; col++ {
		b[0][col] = Piece{Color: Black, Kind: back[col]}
		b[1][col] = Piece{Color: Black, Kind: Pawn}
		b[6][col] = Piece{Color: White, Kind: Pawn}
		b[7][col] = Piece{Color: White, Kind: back[col]}
	}
	return b
}

// CastleRights holds the four castling eligibility flags. It is a plain
// value: copies never share state.
type CastleRights struct {
	WhiteKingside  bool `json:"whiteKingside"`
	WhiteQueenside bool `json:"whiteQueenside"`
	BlackKingside  bool `json:"blackKingside"`
	BlackQueenside bool `json:"blackQueenside"`
}

// AllCastleRights is the initial set of rights.
var AllCastleRights = CastleRights{true, true, true, true}

func (cr CastleRights) Kingside(c Color) bool {
	if c == White {
		return cr.WhiteKingside
	}
	return cr.BlackKingside
}

func (cr CastleRights) Queenside(c Color) bool {
	if c == White {
		return cr.WhiteQueenside
	}
	return cr.BlackQueenside
}

func (cr *CastleRights) revokeKingside(c Color) {
	if c == White {
		cr.WhiteKingside = false
	} else {
		cr.BlackKingside = false
	}
}

func (cr *CastleRights) revokeQueenside(c Color) {
	if c == White {
		cr.WhiteQueenside = false
	} else {
		cr.BlackQueenside = false
	}
}

func (cr CastleRights) String() string {
	s := ""
	if cr.WhiteKingside {
		s += "K"
	}
	if cr.WhiteQueenside {
		s += "Q"
	}
	if cr.BlackKingside {
		s += "k"
	}
	if cr.BlackQueenside {
		s += "q"
	}
	if s == "" {
		return "-"
	}
	return s
}

// homeRow is the back rank of color c.
func homeRow(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

// promotionRow is the far rank a pawn of color c promotes on.
func promotionRow(c Color) int {
	if c == White {
		return 0
	}
	return 7
}
