package game

import "github.com/justinabrahms/hotseat/internal/chess"

// View is the client-facing snapshot of a session.
type View struct {
	ID           string              `json:"id"`
	Ply          int                 `json:"ply"`
	Board        [8][8]string        `json:"board"`
	Turn         string              `json:"turn"`
	Check        bool                `json:"check"`
	Checkmate    bool                `json:"checkmate"`
	Stalemate    bool                `json:"stalemate"`
	Status       chess.GameStatus    `json:"status"`
	Result       string              `json:"result"`
	CastleRights chess.CastleRights  `json:"castleRights"`
	EnPassant    string              `json:"enPassant"`
	History      []string            `json:"history"`
	LastMove     *MoveView           `json:"lastMove,omitempty"`
	Material     chess.MaterialCount `json:"material"`
	Balance      int                 `json:"balance"`
}

// MoveView describes one move for display.
type MoveView struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Notation  string `json:"notation"`
	Capture   bool   `json:"capture,omitempty"`
	Castle    bool   `json:"castle,omitempty"`
	EnPassant bool   `json:"enPassant,omitempty"`
	Promotion bool   `json:"promotion,omitempty"`
}

func newMoveView(m chess.Move) MoveView {
	return MoveView{
		From:      m.From().String(),
		To:        m.To().String(),
		Notation:  m.Notation(),
		Capture:   m.IsCapture(),
		Castle:    m.IsCastle(),
		EnPassant: m.IsEnPassant(),
		Promotion: m.IsPromotion(),
	}
}

func (s *Session) view() View {
	e := s.engine
	board := e.Board()
	v := View{
		ID:           s.id,
		Ply:          len(s.moves),
		Board:        board.Codes(),
		Turn:         e.Turn().String(),
		Check:        e.IsInCheck(),
		Checkmate:    e.IsCheckmate(),
		Stalemate:    e.IsStalemate(),
		Status:       e.GetStatus(),
		Result:       e.Result(),
		CastleRights: e.CastleRights(),
		EnPassant:    e.EnPassant().String(),
		History:      e.History(),
		Material:     e.GetMaterialCount(),
		Balance:      e.GetMaterialBalance(),
	}
	if v.History == nil {
		v.History = []string{}
	}
	if m, ok := e.LastMove(); ok {
		last := newMoveView(m)
		// Notation in the history carries the check suffix.
		last.Notation = v.History[len(v.History)-1]
		v.LastMove = &last
	}
	return v
}
