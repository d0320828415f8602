package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultDepth is the lookahead used for every root column.
const DefaultDepth = 10

var ErrNoMoves = errors.New("engine: no open column")

// Board is the live game board the engine plays on. OwnerAt returns 0 for an
// empty cell and the player number otherwise.
type Board interface {
	OwnerAt(row, col int) int
	DropDisc(player, col int) (int, error)
	EndTurn(row, col int)
}

// Options tunes an Engine.
type Options struct {
	Depth       int
	ThreatDepth int
	CacheBits   int
}

// DefaultOptions returns depth 10, threat shortcuts from depth 6 and a
// 2^18 slot cache.
func DefaultOptions() Options {
	return Options{
		Depth:       DefaultDepth,
		ThreatDepth: DefaultThreatDepth,
		CacheBits:   DefaultCacheBits,
	}
}

// Reason tells how a Decision was reached.
type Reason string

const (
	ReasonWin    Reason = "immediate-win"
	ReasonBlock  Reason = "forced-block"
	ReasonSearch Reason = "search"
)

// Decision is the outcome of one AI turn.
type Decision struct {
	Column   int
	Row      int
	Score    int32
	Reason   Reason
	Nodes    uint64
	Duration time.Duration
}

// Engine picks moves for the computer player. It owns its searcher and
// cache, so one Engine must not be shared between goroutines.
type Engine struct {
	opts     Options
	searcher *Searcher
}

func New(opts Options) *Engine {
	def := DefaultOptions()
	if opts.Depth <= 0 {
		opts.Depth = def.Depth
	}
	// cache entries keep depth in an int8; a game never lasts past Cells plies
	if opts.Depth > Cells {
		opts.Depth = Cells
	}
	if opts.ThreatDepth <= 0 {
		opts.ThreatDepth = def.ThreatDepth
	}
	if opts.CacheBits <= 0 {
		opts.CacheBits = def.CacheBits
	}
	return &Engine{
		opts:     opts,
		searcher: NewSearcher(NewCache(opts.CacheBits), opts.ThreatDepth),
	}
}

func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) Searcher() *Searcher {
	return e.searcher
}

// Reset empties the position cache.
func (e *Engine) Reset() {
	e.searcher.Cache().Reset()
	e.searcher.ResetNodes()
}

// MasksFromBoard builds the AI, human and combined occupancy masks from a
// live board.
func MasksFromBoard(b Board, aiPlayer int) (ai, human, occupied uint64) {
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			owner := b.OwnerAt(row, col)
			if owner == 0 {
				continue
			}
			bit := Bit(row, col)
			occupied |= bit
			if owner == aiPlayer {
				ai |= bit
			} else {
				human |= bit
			}
		}
	}
	return ai, human, occupied
}

// Choose picks a column for ai. It takes a free win first, then a single
// forced block, and otherwise searches every open column. Column is NoMove
// only when the board is full.
func (e *Engine) Choose(ai, human, occupied uint64) Decision {
	start := time.Now()
	e.searcher.ResetNodes()

	d := e.choose(ai, human, occupied)
	d.Row = landingRow(occupied, d.Column)
	d.Nodes = e.searcher.Nodes()
	d.Duration = time.Since(start)

	log.Debug().
		Int("col", d.Column).
		Int32("score", d.Score).
		Str("reason", string(d.Reason)).
		Uint64("nodes", d.Nodes).
		Dur("took", d.Duration).
		Msg("engine decision")
	return d
}

func (e *Engine) choose(ai, human, occupied uint64) Decision {
	if col := FindImmediateWin(ai, occupied); col != NoMove {
		return Decision{Column: col, Score: ScoreWin, Reason: ReasonWin}
	}

	// With two or more threats the game is lost; the search below still
	// picks a column.
	if threats := WinningColumns(human, occupied); len(threats) == 1 {
		return Decision{Column: threats[0], Score: ScoreDraw, Reason: ReasonBlock}
	}

	best := Decision{Column: NoMove, Score: math.MinInt32, Reason: ReasonSearch}
	for _, col := range moveOrder {
		if ColumnFull(occupied, col) {
			continue
		}
		nextAI, nextAll := ai, occupied
		if MakeMove(&nextAI, &nextAll, col) == NoMove {
			continue
		}
		score := -e.searcher.Negamax(human, nextAI, nextAll, e.opts.Depth, -HalfWindow, HalfWindow)
		if best.Column == NoMove || score > best.Score {
			best.Column = col
			best.Score = score
		}
	}
	return best
}

func landingRow(occupied uint64, col int) int {
	if col == NoMove {
		return NoMove
	}
	var scratch uint64
	idx := MakeMove(&scratch, &occupied, col)
	if idx == NoMove {
		return NoMove
	}
	return idx / Width
}

// Play runs one AI turn on a live board: read the position, choose a
// column, drop the disc and end the turn.
func (e *Engine) Play(b Board, aiPlayer int) (Decision, error) {
	ai, human, occupied := MasksFromBoard(b, aiPlayer)
	d := e.Choose(ai, human, occupied)
	if d.Column == NoMove {
		return d, ErrNoMoves
	}
	row, err := b.DropDisc(aiPlayer, d.Column)
	if err != nil {
		return d, fmt.Errorf("drop column %d: %w", d.Column, err)
	}
	d.Row = row
	b.EndTurn(row, d.Column)
	return d, nil
}
