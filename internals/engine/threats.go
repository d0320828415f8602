package engine

// FindImmediateWin returns the first column, scanning 0..6, where dropping a
// disc for board completes four in a row. NoMove if there is none.
func FindImmediateWin(board, occupied uint64) int {
	for col := 0; col < Width; col++ {
		if ColumnFull(occupied, col) {
			continue
		}
		b, all := board, occupied
		if MakeMove(&b, &all, col) == NoMove {
			continue
		}
		if HasWon(b) {
			return col
		}
	}
	return NoMove
}

// WinningColumns lists every open column that would complete four in a row
// for board if it were board's turn. Called with the opponent's mask it
// yields the columns that have to be blocked.
func WinningColumns(board, occupied uint64) []int {
	var cols []int
	for col := 0; col < Width; col++ {
		if ColumnFull(occupied, col) {
			continue
		}
		b, all := board, occupied
		if MakeMove(&b, &all, col) != NoMove && HasWon(b) {
			cols = append(cols, col)
		}
	}
	return cols
}

// countWinningColumns is WinningColumns without the allocation.
func countWinningColumns(board, occupied uint64) int {
	n := 0
	for col := 0; col < Width; col++ {
		b, all := board, occupied
		if MakeMove(&b, &all, col) != NoMove && HasWon(b) {
			n++
		}
	}
	return n
}

// CanWinNext reports whether board has at least one immediately winning drop.
func CanWinNext(board, occupied uint64) bool {
	return FindImmediateWin(board, occupied) != NoMove
}

// CreatesDoubleThreat reports whether current has a drop after which two or
// more distinct columns would win for it. It only looks one ply ahead and
// ignores whatever the opponent could do in between.
func CreatesDoubleThreat(current, occupied uint64) bool {
	for col := 0; col < Width; col++ {
		if ColumnFull(occupied, col) {
			continue
		}
		cur, all := current, occupied
		if MakeMove(&cur, &all, col) == NoMove {
			continue
		}
		if countWinningColumns(cur, all) >= 2 {
			return true
		}
	}
	return false
}
