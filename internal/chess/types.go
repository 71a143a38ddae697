package chess

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSquare = errors.New("invalid square")
	ErrIllegalMove   = errors.New("illegal move")
	ErrGameOver      = errors.New("game is over")
	ErrInvalidSetup  = errors.New("invalid setup")
)

type GameStatus string

const (
	StatusActive   GameStatus = "active"
	StatusDraw     GameStatus = "draw"
	StatusWhiteWon GameStatus = "white_won"
	StatusBlackWon GameStatus = "black_won"
)

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Code is the one-letter prefix used in compact piece codes.
func (c Color) Code() byte {
	if c == White {
		return 'w'
	}
	return 'b'
}

// Kind is the type of a piece. The zero value marks an empty cell.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}

// Letter returns the notation letter for the kind. Pawns have none.
func (k Kind) Letter() string {
	switch k {
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	return ""
}

// Piece is a tagged (color, kind) value. The zero value is an empty cell.
type Piece struct {
	Color Color
	Kind  Kind
}

// NoPiece is the empty-cell marker.
var NoPiece = Piece{}

func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}

// Is reports whether p is a piece of color c.
func (p Piece) Is(c Color) bool {
	return !p.IsEmpty() && p.Color == c
}

// String returns the compact display code, e.g. "wp", "bK" or "--".
func (p Piece) String() string {
	if p.IsEmpty() {
		return "--"
	}
	letter := p.Kind.Letter()
	if p.Kind == Pawn {
		letter = "p"
	}
	return string(p.Color.Code()) + letter
}

func (p Piece) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Square is a board cell. Row 0 is rank 8 and row 7 is rank 1.
type Square struct {
	Row int
	Col int
}

// NoSquare marks the absence of a square, e.g. no en-passant target.
var NoSquare = Square{Row: -1, Col: -1}

// Sq returns the square at (row, col). Out-of-range coordinates are a
// programming error and panic.
func Sq(row, col int) Square {
	if !onBoard(row, col) {
		panic(fmt.Sprintf("chess: square (%d,%d) out of range", row, col))
	}
	return Square{Row: row, Col: col}
}

// ParseSquare parses algebraic coordinates such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	col := int(s[0]) - 'a'
	rank := int(s[1]) - '1'
	if col < 0 || col > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return Square{Row: 7 - rank, Col: col}, nil
}

func (s Square) Valid() bool {
	return onBoard(s.Row, s.Col)
}

func (s Square) File() string {
	return string(rune('a' + s.Col))
}

func (s Square) Rank() string {
	return string(rune('8' - s.Row))
}

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return s.File() + s.Rank()
}

func (s Square) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func onBoard(row, col int) bool {
	return row >= 0 && row < 8 && col >= 0 && col < 8
}

// MaterialCount represents the material count for both sides
type MaterialCount struct {
	White int `json:"white"`
	Black int `json:"black"`
}

// StandardPieceValues maps piece kinds to their standard values
var StandardPieceValues = map[Kind]int{
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
	King:   0,
}

// MoveResult describes an applied move for display.
type MoveResult struct {
	From      string `json:"from"`
	To        string `json:"to"`
	SAN       string `json:"san"`
	Check     bool   `json:"check"`
	Checkmate bool   `json:"checkmate"`
	Stalemate bool   `json:"stalemate"`
	GameOver  bool   `json:"gameOver"`
	Result    string `json:"result"`
}
