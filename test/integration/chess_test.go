//go:build integration
// +build integration

package integration

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/justinabrahms/hotseat/internal/chess"
	notnil "github.com/notnil/chess"
	"github.com/stretchr/testify/require"
)

func square(s notnil.Square) string {
	return s.String()
}

func referenceMoves(game *notnil.Game) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range game.ValidMoves() {
		id := square(m.S1()) + square(m.S2())
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func engineMoves(engine *chess.Engine) []string {
	var out []string
	for _, m := range engine.LegalMoves() {
		out = append(out, m.ID().String())
	}
	sort.Strings(out)
	return out
}

// TestRandomGamesAgainstReference drives the engine facade and the
// reference library through the same random games and compares legal move
// sets, notation suffixes and game endings at every ply.
func TestRandomGamesAgainstReference(t *testing.T) {
	for seed := int64(1); seed <= 300; seed++ {
		rng := rand.New(rand.NewSource(seed))
		engine := chess.NewEngine()
		game := notnil.NewGame()

		for ply := 0; ply < 400; ply++ {
			ours := engineMoves(engine)
			require.Equal(t, referenceMoves(game), ours, "seed %d ply %d", seed, ply)

			if len(ours) == 0 {
				require.Equal(t, game.Method() == notnil.Checkmate, engine.IsCheckmate(), "seed %d", seed)
				require.Equal(t, game.Method() == notnil.Stalemate, engine.IsStalemate(), "seed %d", seed)
				break
			}
			if game.Outcome() != notnil.NoOutcome {
				break
			}

			pick := ours[rng.Intn(len(ours))]
			result, err := engine.MakeMove(pick[:2], pick[2:])
			require.NoError(t, err, "seed %d ply %d", seed, ply)

			var ref *notnil.Move
			for _, m := range game.ValidMoves() {
				if square(m.S1())+square(m.S2()) == pick &&
					(m.Promo() == notnil.NoPieceType || m.Promo() == notnil.Queen) {
					ref = m
					break
				}
			}
			require.NotNil(t, ref, "seed %d ply %d", seed, ply)
			require.NoError(t, game.Move(ref))

			require.Equal(t, ref.HasTag(notnil.Check), result.Check, "seed %d ply %d %s", seed, ply, result.SAN)
		}
	}
}

// TestEngineRoundTripUndo plays random games forward and then undoes them
// completely, checking the board against the start.
func TestEngineRoundTripUndo(t *testing.T) {
	start := chess.NewEngine().Board()
	for seed := int64(1); seed <= 100; seed++ {
		rng := rand.New(rand.NewSource(seed))
		engine := chess.NewEngine()

		played := 0
		for ; played < 200; played++ {
			moves := engine.LegalMoves()
			if len(moves) == 0 {
				break
			}
			m := moves[rng.Intn(len(moves))]
			require.NoError(t, engine.Apply(m))
		}
		for i := 0; i < played; i++ {
			require.True(t, engine.Undo())
		}
		require.False(t, engine.Undo())
		require.Equal(t, start, engine.Board(), "seed %d", seed)
		require.Equal(t, chess.AllCastleRights, engine.CastleRights(), "seed %d", seed)
		require.Equal(t, chess.NoSquare, engine.EnPassant(), "seed %d", seed)
		require.Len(t, engine.LegalMoves(), 20)
	}
}
