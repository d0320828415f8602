package engine

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// position parses six rows, top first, of 'x', 'o' and '.' into masks.
func position(t *testing.T, rows ...string) (x, o uint64) {
	t.Helper()
	if len(rows) != Height {
		t.Fatalf("need %d rows, got %d", Height, len(rows))
	}
	for row, line := range rows {
		if len(line) != Width {
			t.Fatalf("row %d: need %d cells, got %q", row, Width, line)
		}
		for col, ch := range line {
			switch ch {
			case 'x':
				x |= Bit(row, col)
			case 'o':
				o |= Bit(row, col)
			case '.':
			default:
				t.Fatalf("row %d: bad cell %q", row, ch)
			}
		}
	}
	return x, o
}

func maskOf(cells ...int) uint64 {
	var m uint64
	for _, c := range cells {
		m |= 1 << uint(c)
	}
	return m
}

// fourInARow is a coordinate-walking reference for HasWon.
func fourInARow(m uint64) bool {
	dirs := [][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			for _, d := range dirs {
				n := 0
				for k := 0; k < 4; k++ {
					r, c := row+d[0]*k, col+d[1]*k
					if r < 0 || r >= Height || c < 0 || c >= Width || m&Bit(r, c) == 0 {
						break
					}
					n++
				}
				if n == 4 {
					return true
				}
			}
		}
	}
	return false
}
