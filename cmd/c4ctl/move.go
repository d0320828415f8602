package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"Connect-4-AI/internals/engine"
	"Connect-4-AI/internals/handlers/game"
)

var (
	moveState  string
	movePlayer int
)

var moveCmd = &cobra.Command{
	Use:   "move",
	Short: "Print the engine's move for a 42-character board state",
	Example: `  c4ctl move --state 000000000000000000000000000022000001110000
  c4ctl move --player 2 --depth 8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMove(cmd.OutOrStdout(), moveState, movePlayer, engineOptions())
	},
}

func init() {
	moveCmd.Flags().StringVar(&moveState, "state", game.InitialStateString, "board state, row-major from the top, 0 empty, 1/2 players")
	moveCmd.Flags().IntVar(&movePlayer, "player", 0, "player to move for (default: whoever is on turn)")
}

func runMove(out io.Writer, state string, player int, opts engine.Options) error {
	g := game.NewGame("cli", "player1", "player2")
	if err := g.SetStateString(state); err != nil {
		return err
	}
	if player == 0 {
		player = g.Turn
	}
	if player != 1 && player != 2 {
		return fmt.Errorf("player must be 1 or 2, got %d", player)
	}
	if g.CheckDraw() {
		return errors.New("board is full")
	}

	d := game.NewBot(player, engine.New(opts)).Choose(g)
	fmt.Fprintf(out, "column=%d row=%d score=%d reason=%s nodes=%d took=%s\n",
		d.Column, d.Row, d.Score, d.Reason, d.Nodes, d.Duration)
	return nil
}
