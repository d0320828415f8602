package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"Connect-4-AI/internals/engine"
)

func TestObserveDecision(t *testing.T) {
	before := testutil.ToFloat64(engineDecisions.WithLabelValues(string(engine.ReasonBlock)))
	ObserveDecision(engine.Decision{Reason: engine.ReasonBlock, Nodes: 0, Duration: time.Millisecond})
	after := testutil.ToFloat64(engineDecisions.WithLabelValues(string(engine.ReasonBlock)))
	assert.Equal(t, before+1, after)
}

func TestGameCounters(t *testing.T) {
	bot := testutil.ToFloat64(gamesStarted.WithLabelValues("bot"))
	pvp := testutil.ToFloat64(gamesStarted.WithLabelValues("pvp"))
	draw := testutil.ToFloat64(gamesFinished.WithLabelValues("draw"))

	GameStarted(true)
	GameStarted(false)
	GameFinished("draw")

	assert.Equal(t, bot+1, testutil.ToFloat64(gamesStarted.WithLabelValues("bot")))
	assert.Equal(t, pvp+1, testutil.ToFloat64(gamesStarted.WithLabelValues("pvp")))
	assert.Equal(t, draw+1, testutil.ToFloat64(gamesFinished.WithLabelValues("draw")))
}
