package game

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"Connect-4-AI/internals/engine"
)

const (
	Rows    = engine.Height
	Columns = engine.Width

	// InitialStateString is the state of an empty board.
	InitialStateString = "000000000000000000000000000000000000000000"
)

var (
	ErrInvalidColumn = errors.New("invalid column")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrColumnFull    = errors.New("column is full")
	ErrBadState      = errors.New("bad board state")
)

type Game struct {
	ID        string
	Board     [Rows][Columns]int
	Player1   string
	Player2   string
	Turn      int // 1 or 2 (whose turn)
	Mutex     sync.Mutex
	Over      bool
	Moves     []string
	LastMove  int // cell index of the last disc, -1 before the first move
	StartTime time.Time
}

func NewGame(id, p1, p2 string) *Game {
	return &Game{
		ID:        id,
		Player1:   p1,
		Player2:   p2,
		Turn:      1, // player1 starts
		Moves:     make([]string, 0),
		LastMove:  -1,
		StartTime: time.Now(),
	}
}

// OwnerAt returns the player occupying a cell, 0 when empty.
func (g *Game) OwnerAt(row, col int) int {
	return g.Board[row][col]
}

// DropDisc drops a disc for player into col without any turn bookkeeping.
func (g *Game) DropDisc(player, col int) (int, error) {
	if col < 0 || col >= Columns {
		return -1, ErrInvalidColumn
	}
	for row := Rows - 1; row >= 0; row-- {
		if g.Board[row][col] == 0 {
			g.Board[row][col] = player
			return row, nil
		}
	}
	return -1, ErrColumnFull
}

// EndTurn records the disc just dropped at row/col and passes the turn.
func (g *Game) EndTurn(row, col int) {
	player := g.Board[row][col]
	g.Moves = append(g.Moves, fmt.Sprintf("%d:%d", col, player))
	g.LastMove = engine.CellIndex(row, col)
	g.Turn = opponentOf(player)
}

// PlaceDisc tries to drop a disc in a column
func (g *Game) PlaceDisc(player int, col int) (int, int, error) {
	if col < 0 || col >= Columns {
		return -1, -1, ErrInvalidColumn
	}
	if player != g.Turn {
		return -1, -1, ErrNotYourTurn
	}
	row, err := g.DropDisc(player, col)
	if err != nil {
		return -1, -1, err
	}
	g.EndTurn(row, col)
	return row, col, nil
}

// CheckWin checks if the last move caused a win
func (g *Game) CheckWin(row, col, player int) bool {
	directions := [][]int{
		{0, 1},  // →
		{1, 0},  // ↓
		{1, 1},  // ↘
		{1, -1}, // ↙
	}
	for _, d := range directions {
		count := 1
		// forward
		r, c := row+d[0], col+d[1]
		for r >= 0 && r < Rows && c >= 0 && c < Columns && g.Board[r][c] == player {
			count++
			r += d[0]
			c += d[1]
		}
		// backward
		r, c = row-d[0], col-d[1]
		for r >= 0 && r < Rows && c >= 0 && c < Columns && g.Board[r][c] == player {
			count++
			r -= d[0]
			c -= d[1]
		}
		if count >= 4 {
			return true
		}
	}
	return false
}

// Winner returns the player whose last disc completed four in a row, or 0.
func (g *Game) Winner() int {
	if g.LastMove < 0 {
		return 0
	}
	row, col := g.LastMove/Columns, g.LastMove%Columns
	player := g.Board[row][col]
	if player != 0 && g.CheckWin(row, col, player) {
		return player
	}
	return 0
}

// CheckDraw returns true if the board is full
func (g *Game) CheckDraw() bool {
	for c := 0; c < Columns; c++ {
		if g.Board[0][c] == 0 {
			return false
		}
	}
	return true
}

// StateString encodes the board row by row from the top, '0' for an empty
// cell and '1' or '2' for the players.
func (g *Game) StateString() string {
	var sb strings.Builder
	sb.Grow(Rows * Columns)
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			sb.WriteByte(byte('0' + g.Board[row][col]))
		}
	}
	return sb.String()
}

// SetStateString replaces the board with an encoded state. The turn goes to
// player 1 when both players have the same number of discs.
func (g *Game) SetStateString(s string) error {
	if len(s) != Rows*Columns {
		return fmt.Errorf("%w: want %d cells, got %d", ErrBadState, Rows*Columns, len(s))
	}
	var board [Rows][Columns]int
	counts := [3]int{}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '2' {
			return fmt.Errorf("%w: cell %d is %q", ErrBadState, i, s[i])
		}
		p := int(s[i] - '0')
		board[i/Columns][i%Columns] = p
		counts[p]++
	}
	for row := 0; row < Rows-1; row++ {
		for col := 0; col < Columns; col++ {
			if board[row][col] != 0 && board[row+1][col] == 0 {
				return fmt.Errorf("%w: floating disc at row %d col %d", ErrBadState, row, col)
			}
		}
	}
	if d := counts[1] - counts[2]; d < 0 || d > 1 {
		return fmt.Errorf("%w: %d discs for player 1, %d for player 2", ErrBadState, counts[1], counts[2])
	}

	g.Board = board
	g.Moves = g.Moves[:0]
	g.LastMove = -1
	g.Turn = 1
	if counts[1] > counts[2] {
		g.Turn = 2
	}
	return nil
}

func opponentOf(player int) int {
	if player == 1 {
		return 2
	}
	return 1
}
