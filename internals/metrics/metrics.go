package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"Connect-4-AI/internals/engine"
)

var (
	engineDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connect4_engine_decisions_total",
		Help: "Bot moves chosen, by how the engine reached them",
	}, []string{"reason"})

	engineDecisionSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "connect4_engine_decision_seconds",
		Help:    "Time spent choosing one bot move",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
	})

	engineNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "connect4_engine_nodes",
		Help:    "Search nodes visited for one bot move",
		Buckets: prometheus.ExponentialBuckets(1, 8, 9),
	})

	gamesStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connect4_games_started_total",
		Help: "Games started, by mode (pvp or bot)",
	}, []string{"mode"})

	gamesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connect4_games_finished_total",
		Help: "Games finished, by result (win, draw or forfeit)",
	}, []string{"result"})
)

// ObserveDecision records one engine decision.
func ObserveDecision(d engine.Decision) {
	engineDecisions.WithLabelValues(string(d.Reason)).Inc()
	engineDecisionSeconds.Observe(d.Duration.Seconds())
	engineNodes.Observe(float64(d.Nodes))
}

func GameStarted(bot bool) {
	mode := "pvp"
	if bot {
		mode = "bot"
	}
	gamesStarted.WithLabelValues(mode).Inc()
}

func GameFinished(result string) {
	gamesFinished.WithLabelValues(result).Inc()
}
