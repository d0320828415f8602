package matchmaking

import (
	"context"

	"Connect-4-AI/internals/engine"
	"Connect-4-AI/internals/handlers/game"
	"Connect-4-AI/internals/metrics"
)

// BotPool hands out engines to bot games. An engine is used by one search at
// a time, so the pool size bounds how many bot moves are computed at once.
type BotPool struct {
	engines chan *engine.Engine
}

func NewBotPool(size int, opts engine.Options) *BotPool {
	if size <= 0 {
		size = 1
	}
	p := &BotPool{engines: make(chan *engine.Engine, size)}
	for i := 0; i < size; i++ {
		p.engines <- engine.New(opts)
	}
	return p
}

// Choose computes the bot's next column for g using a pooled engine. It
// blocks until an engine is free or ctx is done.
func (p *BotPool) Choose(ctx context.Context, g *game.Game, player int) (engine.Decision, error) {
	var e *engine.Engine
	select {
	case e = <-p.engines:
	case <-ctx.Done():
		return engine.Decision{Column: engine.NoMove}, ctx.Err()
	}
	defer func() { p.engines <- e }()

	d := game.NewBot(player, e).Choose(g)
	metrics.ObserveDecision(d)
	return d, nil
}
