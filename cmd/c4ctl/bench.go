package main

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"Connect-4-AI/internals/engine"
)

var (
	benchPositions int
	benchParallel  int
	benchMaxPlies  int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time engine decisions on random positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		positions := randomPositions(benchPositions, benchMaxPlies)
		res, err := runBench(cmd.Context(), positions, benchParallel, engineOptions())
		if err != nil {
			return err
		}
		res.print(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	benchCmd.Flags().IntVar(&benchPositions, "positions", 50, "number of random positions")
	benchCmd.Flags().IntVar(&benchParallel, "parallel", 4, "engines searching at once")
	benchCmd.Flags().IntVar(&benchMaxPlies, "max-plies", 16, "random plies played before each decision")
}

type benchPosition struct {
	side, other, occupied uint64
}

// randomPositions plays random legal moves from the empty board, stopping
// before any move that would end the game.
func randomPositions(n, maxPlies int) []benchPosition {
	out := make([]benchPosition, 0, n)
	for len(out) < n {
		var side, other, occupied uint64
		plies := frand.Intn(maxPlies + 1)
		for i := 0; i < plies; i++ {
			col := frand.Intn(engine.Width)
			if engine.ColumnFull(occupied, col) {
				continue
			}
			next, all := side, occupied
			engine.MakeMove(&next, &all, col)
			if engine.HasWon(next) {
				break
			}
			side, other, occupied = other, next, all
		}
		if engine.PieceCount(occupied) < engine.Cells {
			out = append(out, benchPosition{side, other, occupied})
		}
	}
	return out
}

type benchResult struct {
	positions int
	nodes     uint64
	elapsed   time.Duration
	reasons   map[engine.Reason]int
}

func (r benchResult) print(out io.Writer) {
	nps := float64(r.nodes) / r.elapsed.Seconds()
	fmt.Fprintf(out, "positions=%d nodes=%d elapsed=%s nodes/sec=%.0f\n", r.positions, r.nodes, r.elapsed, nps)
	for _, reason := range []engine.Reason{engine.ReasonWin, engine.ReasonBlock, engine.ReasonSearch} {
		fmt.Fprintf(out, "  %-14s %d\n", reason, r.reasons[reason])
	}
}

// runBench splits positions between parallel workers, each with its own
// engine.
func runBench(ctx context.Context, positions []benchPosition, parallel int, opts engine.Options) (benchResult, error) {
	if parallel <= 0 {
		parallel = 1
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var nodes atomic.Uint64
	reasons := make([][]engine.Reason, parallel)

	start := time.Now()
	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < parallel; w++ {
		w := w
		eg.Go(func() error {
			e := engine.New(opts)
			for i := w; i < len(positions); i += parallel {
				if err := ctx.Err(); err != nil {
					return err
				}
				p := positions[i]
				d := e.Choose(p.side, p.other, p.occupied)
				nodes.Add(d.Nodes)
				reasons[w] = append(reasons[w], d.Reason)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return benchResult{}, err
	}

	res := benchResult{
		positions: len(positions),
		nodes:     nodes.Load(),
		elapsed:   time.Since(start),
		reasons:   map[engine.Reason]int{},
	}
	for _, rs := range reasons {
		for _, r := range rs {
			res.reasons[r]++
		}
	}
	return res, nil
}
