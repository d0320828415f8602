package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"Connect-4-AI/internals/engine"
	"Connect-4-AI/internals/handlers/game"
)

var playFirst string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game against the engine in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		aiFirst := false
		switch playFirst {
		case "human":
		case "ai":
			aiFirst = true
		default:
			return fmt.Errorf("--first must be human or ai, got %q", playFirst)
		}
		return runPlay(cmd.InOrStdin(), cmd.OutOrStdout(), aiFirst, engineOptions())
	},
}

func init() {
	playCmd.Flags().StringVar(&playFirst, "first", "human", "who moves first: human or ai")
}

var symbols = [3]byte{'.', 'X', 'O'}

func render(out io.Writer, g *game.Game) {
	for row := 0; row < game.Rows; row++ {
		line := make([]byte, 0, 2*game.Columns)
		for col := 0; col < game.Columns; col++ {
			line = append(line, symbols[g.OwnerAt(row, col)], ' ')
		}
		fmt.Fprintln(out, strings.TrimRight(string(line), " "))
	}
	fmt.Fprintln(out, "1 2 3 4 5 6 7")
}

// runPlay reads human columns (1-7) from in, one per line, and answers with
// engine moves until the game ends or in is exhausted.
func runPlay(in io.Reader, out io.Writer, aiFirst bool, opts engine.Options) error {
	human, ai := 1, 2
	if aiFirst {
		human, ai = 2, 1
	}
	g := game.NewGame("cli", "human", "engine")
	bot := game.NewBot(ai, engine.New(opts))
	scanner := bufio.NewScanner(in)

	for {
		if g.Turn == ai {
			d, err := bot.Play(g)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "engine plays %d (%s, score %d)\n", d.Column+1, d.Reason, d.Score)
		} else {
			render(out, g)
			fmt.Fprintf(out, "your move (%c): ", symbols[human])
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}
			col, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
			if err != nil {
				fmt.Fprintln(out, "enter a column number from 1 to 7")
				continue
			}
			if _, _, err := g.PlaceDisc(human, col-1); err != nil {
				if errors.Is(err, game.ErrInvalidColumn) || errors.Is(err, game.ErrColumnFull) {
					fmt.Fprintf(out, "cannot play there: %v\n", err)
					continue
				}
				return err
			}
		}

		switch winner := g.Winner(); {
		case winner == human:
			render(out, g)
			fmt.Fprintln(out, "you win!")
			return nil
		case winner == ai:
			render(out, g)
			fmt.Fprintln(out, "engine wins")
			return nil
		case g.CheckDraw():
			render(out, g)
			fmt.Fprintln(out, "draw")
			return nil
		}
	}
}
