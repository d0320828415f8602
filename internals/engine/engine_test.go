package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	humanPlayer = 1
	aiPlayer    = 2
)

type fakeBoard struct {
	cells [Height][Width]int
	ended [][2]int
}

func newFakeBoard(t *testing.T, rows ...string) *fakeBoard {
	x, o := position(t, rows...)
	b := &fakeBoard{}
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			switch {
			case x&Bit(row, col) != 0:
				b.cells[row][col] = aiPlayer
			case o&Bit(row, col) != 0:
				b.cells[row][col] = humanPlayer
			}
		}
	}
	return b
}

func (b *fakeBoard) OwnerAt(row, col int) int { return b.cells[row][col] }

func (b *fakeBoard) DropDisc(player, col int) (int, error) {
	for row := Height - 1; row >= 0; row-- {
		if b.cells[row][col] == 0 {
			b.cells[row][col] = player
			return row, nil
		}
	}
	return NoMove, errors.New("column is full")
}

func (b *fakeBoard) EndTurn(row, col int) { b.ended = append(b.ended, [2]int{row, col}) }

func TestMasksFromBoard(t *testing.T) {
	b := newFakeBoard(t,
		".......",
		".......",
		".......",
		".......",
		"...o...",
		"..xx...",
	)
	ai, human, occupied := MasksFromBoard(b, aiPlayer)
	assert.Equal(t, Bit(5, 2)|Bit(5, 3), ai)
	assert.Equal(t, Bit(4, 3), human)
	assert.Equal(t, ai|human, occupied)
}

func TestChooseEmptyBoardPrefersCenter(t *testing.T) {
	e := New(DefaultOptions())
	d := e.Choose(0, 0, 0)
	assert.Equal(t, 3, d.Column)
	assert.Equal(t, Height-1, d.Row)
	assert.Equal(t, ReasonSearch, d.Reason)
	assert.Equal(t, ScoreDraw, d.Score)
	assert.NotZero(t, d.Nodes)
}

func TestChooseTakesImmediateWin(t *testing.T) {
	b := newFakeBoard(t,
		".......",
		".......",
		".......",
		".......",
		"ooo....",
		"xxx....",
	)
	e := New(DefaultOptions())
	d := e.Choose(MasksFromBoard(b, aiPlayer))
	assert.Equal(t, 3, d.Column)
	assert.Equal(t, ReasonWin, d.Reason)
	assert.Equal(t, ScoreWin, d.Score)
	assert.Zero(t, d.Nodes, "no search for a free win")
}

func TestChooseBlocksSingleThreat(t *testing.T) {
	b := newFakeBoard(t,
		".......",
		".......",
		".......",
		".......",
		"xx.....",
		"ooo....",
	)
	e := New(DefaultOptions())
	d := e.Choose(MasksFromBoard(b, aiPlayer))
	assert.Equal(t, 3, d.Column)
	assert.Equal(t, ReasonBlock, d.Reason)
	assert.Zero(t, d.Nodes, "no search for a forced block")
}

func TestChooseLostPositionStillMoves(t *testing.T) {
	b := newFakeBoard(t,
		".......",
		".......",
		".......",
		".......",
		"..xx...",
		".ooo...",
	)
	e := New(DefaultOptions())
	ai, human, occupied := MasksFromBoard(b, aiPlayer)
	require.Len(t, WinningColumns(human, occupied), 2)

	d := e.Choose(ai, human, occupied)
	assert.Equal(t, ReasonSearch, d.Reason)
	assert.Equal(t, ScoreLoss, d.Score)
	assert.Equal(t, 3, d.Column, "all columns lose, the most central is kept")
	assert.NotZero(t, d.Nodes)
}

func TestChooseShallowDepth(t *testing.T) {
	e := New(Options{Depth: 4})
	assert.Equal(t, DefaultThreatDepth, e.Options().ThreatDepth)
	assert.Equal(t, DefaultCacheBits, e.Options().CacheBits)

	d := e.Choose(0, 0, 0)
	assert.Equal(t, 3, d.Column)
	assert.Equal(t, ScoreDraw, d.Score)
}

func TestPlayCommitsMove(t *testing.T) {
	b := newFakeBoard(t,
		".......",
		".......",
		".......",
		".......",
		"ooo....",
		"xxx....",
	)
	e := New(DefaultOptions())
	d, err := e.Play(b, aiPlayer)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Column)
	assert.Equal(t, 5, d.Row)
	assert.Equal(t, aiPlayer, b.cells[5][3])
	assert.Equal(t, [][2]int{{5, 3}}, b.ended)
}

func TestPlayFullBoard(t *testing.T) {
	b := newFakeBoard(t,
		"xxoxxox",
		"ooxooxo",
		"xxoxxox",
		"ooxooxo",
		"xxoxxox",
		"ooxooxo",
	)
	e := New(Options{Depth: 2})
	d, err := e.Play(b, aiPlayer)
	assert.ErrorIs(t, err, ErrNoMoves)
	assert.Equal(t, NoMove, d.Column)
	assert.Empty(t, b.ended)
}

func TestResetClearsCache(t *testing.T) {
	e := New(Options{Depth: 3, CacheBits: 10})
	e.Choose(0, 0, 0)
	assert.NotZero(t, e.Searcher().Cache().Stats().Stores)

	e.Reset()
	assert.Zero(t, e.Searcher().Cache().Stats().Stores)
	assert.Zero(t, e.Searcher().Nodes())
}

func TestNewFillsDefaults(t *testing.T) {
	e := New(Options{})
	assert.Equal(t, DefaultOptions(), e.Options())
	assert.Equal(t, 1<<DefaultCacheBits, e.Searcher().Cache().Size())

	e = New(Options{Depth: 100, ThreatDepth: 3, CacheBits: 4})
	assert.Equal(t, Cells, e.Options().Depth)
	assert.Equal(t, 3, e.Options().ThreatDepth)
	assert.Equal(t, 16, e.Searcher().Cache().Size())
}
