package engine

import "math"

// Search scores. Win and loss sit far from zero so that the +1 used for
// "lost on the next ply" can never be mistaken for a draw.
const (
	ScoreWin  int32 = 1000000
	ScoreLoss int32 = -ScoreWin
	ScoreDraw int32 = 0

	// HalfWindow bounds the root alpha-beta window. Scores are negated at
	// every ply, so the true int32 extremes are avoided.
	HalfWindow int32 = math.MaxInt32 / 2
)

// DefaultThreatDepth is the minimum remaining depth at which a node runs the
// immediate-win and double-threat shortcuts.
const DefaultThreatDepth = 6

var moveOrder = [Width]int{3, 2, 4, 1, 5, 0, 6}

// MoveOrder returns the center-out order in which columns are searched.
func MoveOrder() [Width]int {
	return moveOrder
}

// PositionKey fingerprints a position. Distinct keys can still land on the
// same cache slot; the cache compares full keys before trusting a value.
func PositionKey(current, opponent uint64) uint64 {
	return (current * 0x9e3779b97f4a7c15) ^ (opponent * 0xc3a5c85c97cb3127)
}

// Searcher runs depth-limited negamax with alpha-beta pruning over a
// position cache it owns. Not safe for concurrent use.
type Searcher struct {
	cache       *Cache
	threatDepth int
	nodes       uint64
}

// NewSearcher returns a searcher over cache. A threatDepth <= 0 selects
// DefaultThreatDepth.
func NewSearcher(cache *Cache, threatDepth int) *Searcher {
	if cache == nil {
		cache = NewCache(DefaultCacheBits)
	}
	if threatDepth <= 0 {
		threatDepth = DefaultThreatDepth
	}
	return &Searcher{cache: cache, threatDepth: threatDepth}
}

// Cache exposes the searcher's position cache.
func (s *Searcher) Cache() *Cache {
	return s.cache
}

// Nodes returns the number of nodes visited since the last ResetNodes.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// ResetNodes zeroes the node counter.
func (s *Searcher) ResetNodes() {
	s.nodes = 0
}

// Negamax scores the position for current, the side to move. opponent made
// the previous move and occupied must equal current|opponent.
func (s *Searcher) Negamax(current, opponent, occupied uint64, depth int, alpha, beta int32) int32 {
	s.nodes++

	key := PositionKey(current, opponent)
	if v, ok := s.cache.Probe(key, depth); ok {
		return v
	}

	if HasWon(opponent) {
		return ScoreLoss
	}
	if PieceCount(occupied) >= Cells {
		return ScoreDraw
	}
	if depth == 0 {
		return 0
	}

	if depth >= s.threatDepth {
		if FindImmediateWin(current, occupied) != NoMove {
			return ScoreWin
		}
		if countWinningColumns(opponent, occupied) >= 2 {
			return ScoreLoss
		}
		if CreatesDoubleThreat(current, occupied) {
			return ScoreWin
		}
	}

	for _, col := range moveOrder {
		if ColumnFull(occupied, col) {
			continue
		}
		nextCur, nextAll := current, occupied
		if MakeMove(&nextCur, &nextAll, col) == NoMove {
			continue
		}

		if HasWon(nextCur) {
			return ScoreWin
		}

		var val int32
		if CanWinNext(opponent, nextAll) {
			val = ScoreLoss + 1
		} else {
			val = -s.Negamax(opponent, nextCur, nextAll, depth-1, -beta, -alpha)
		}

		if val > alpha {
			alpha = val
		}
		if alpha >= beta {
			break
		}
	}

	s.cache.Store(key, depth, alpha)
	return alpha
}
