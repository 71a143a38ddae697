package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/justinabrahms/hotseat/internal/chess"
)

func main() {
	depth := flag.Int("depth", 0, "Perft depth (required)")
	moves := flag.String("moves", "", "Coordinate moves to play from the start first, e.g. \"e2e4 e7e5\"")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}
	if *repeat < 1 {
		*repeat = 1
	}

	pos, err := setup(*moves)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup error: %v\n", err)
		os.Exit(2)
	}

	if *divide {
		div := chess.PerftDivide(pos, *depth)
		ids := make([]chess.MoveID, 0, len(div))
		var sum uint64
		for id, n := range div {
			ids = append(ids, id)
			sum += n
		}
		// Sort moves for stable output
		sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
		for _, id := range ids {
			fmt.Printf("%s: %d\n", id, div[id])
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		totalNodes += chess.Perft(pos, *depth)
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Depth Nodes Time NPS
	fmt.Printf("%d \t%d \t%s \t%.0f\n", *depth, totalNodes/uint64(*repeat), elapsed, nps)
}

// setup plays moves such as "e2e4,e7e5" from the starting position.
func setup(moves string) (*chess.Position, error) {
	engine := chess.NewEngine()
	for _, mv := range strings.Fields(strings.ReplaceAll(moves, ",", " ")) {
		if len(mv) != 4 {
			return nil, fmt.Errorf("move %q: want four characters like e2e4", mv)
		}
		if _, err := engine.MakeMove(mv[:2], mv[2:]); err != nil {
			return nil, fmt.Errorf("move %q: %w", mv, err)
		}
	}
	return engine.Position(), nil
}
