package game

import (
	"Connect-4-AI/internals/engine"
)

const (
	HumanPlayer = 1
	BotPlayer   = 2
)

// Bot plays one side of a game through a search engine. A Bot is not safe
// for concurrent use; give each concurrent game its own.
type Bot struct {
	Player int
	engine *engine.Engine
}

func NewBot(player int, e *engine.Engine) *Bot {
	return &Bot{Player: player, engine: e}
}

func (b *Bot) Engine() *engine.Engine {
	return b.engine
}

// Snapshot copies the position under the game lock so the search can run
// without holding it.
func (b *Bot) Snapshot(g *Game) (ai, human, occupied uint64) {
	g.Mutex.Lock()
	defer g.Mutex.Unlock()
	return engine.MasksFromBoard(g, b.Player)
}

// Choose picks the bot's column for the current position without touching
// the board.
func (b *Bot) Choose(g *Game) engine.Decision {
	return b.engine.Choose(b.Snapshot(g))
}

// Play chooses and commits the bot's move. The caller must hold g.Mutex
// when the game is shared.
func (b *Bot) Play(g *Game) (engine.Decision, error) {
	if g.Turn != b.Player {
		return engine.Decision{Column: engine.NoMove}, ErrNotYourTurn
	}
	return b.engine.Play(g, b.Player)
}
