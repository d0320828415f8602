package engine

import "math/bits"

// Board geometry. Cell index = row*Width + col, row 0 is the top row and
// row Height-1 is where a dropped disc lands on an empty column.
const (
	Width  = 7
	Height = 6
	Cells  = Width * Height

	// NoMove is returned when a column is full or no column qualifies.
	NoMove = -1
)

// Rows are packed back to back with no padding bit, so runs that move one
// column to the right must start far enough left to stay inside their row.
var (
	startLeft  = columnsMask(0, Width-4)
	startRight = columnsMask(3, Width-1)
)

func columnsMask(from, to int) uint64 {
	var m uint64
	for row := 0; row < Height; row++ {
		for col := from; col <= to; col++ {
			m |= Bit(row, col)
		}
	}
	return m
}

// CellIndex maps a row/column pair to its bit index.
func CellIndex(row, col int) int {
	return row*Width + col
}

// Bit returns the single-bit mask for a cell.
func Bit(row, col int) uint64 {
	return 1 << uint(CellIndex(row, col))
}

// HasWon reports whether the mask holds four aligned discs horizontally,
// vertically or on either diagonal.
func HasWon(bb uint64) bool {
	// horizontal
	m := bb & (bb >> 1)
	if m&(m>>2)&startLeft != 0 {
		return true
	}
	// vertical
	m = bb & (bb >> Width)
	if m&(m>>(2*Width)) != 0 {
		return true
	}
	// down-right diagonal
	m = bb & (bb >> (Width + 1))
	if m&(m>>(2*(Width+1)))&startLeft != 0 {
		return true
	}
	// down-left diagonal
	m = bb & (bb >> (Width - 1))
	if m&(m>>(2*(Width-1)))&startRight != 0 {
		return true
	}
	return false
}

// MakeMove drops a disc into col, setting the landing bit in both board and
// occupied. It returns the landing index, or NoMove without touching either
// mask when the column is full.
func MakeMove(board, occupied *uint64, col int) int {
	for row := Height - 1; row >= 0; row-- {
		idx := CellIndex(row, col)
		if *occupied&(1<<uint(idx)) == 0 {
			*board |= 1 << uint(idx)
			*occupied |= 1 << uint(idx)
			return idx
		}
	}
	return NoMove
}

// ColumnFull reports whether the top cell of col is taken.
func ColumnFull(occupied uint64, col int) bool {
	return occupied&(1<<uint(col)) != 0
}

// PieceCount returns the number of discs on the board.
func PieceCount(occupied uint64) int {
	return bits.OnesCount64(occupied)
}
