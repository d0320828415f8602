package matchmaking

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"Connect-4-AI/internals/handlers/game"
	"Connect-4-AI/internals/metrics"
	"Connect-4-AI/internals/models"
)

// Store is the persistence the game server needs.
type Store interface {
	AddWin(username string) error
	SaveGame(rec models.GameRecord) error
	Ranking() ([]models.Ranking, error)
	RecentGames(limit int) ([]models.GameRecord, error)
}

// recordResult saves a finished game; winner is a username or "draw".
func (s *Server) recordResult(g *game.Game, winner, result string) {
	if winner != "draw" {
		if err := s.store.AddWin(winner); err != nil {
			log.Error().Err(err).Str("username", winner).Msg("Error updating score")
		}
	}
	rec := models.GameRecord{
		Player1:    g.Player1,
		Player2:    g.Player2,
		Winner:     winner,
		Moves:      append([]string(nil), g.Moves...),
		FinalState: g.StateString(),
	}
	if err := s.store.SaveGame(rec); err != nil {
		log.Error().Err(err).Str("game_id", g.ID).Msg("Error saving game")
	}
	metrics.GameFinished(result)
}

func (s *Server) HandleRanking(w http.ResponseWriter, r *http.Request) {
	ranking, err := s.store.Ranking()
	if err != nil {
		log.Error().Err(err).Msg("Error fetching rankings")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ranking)
}

type gameSummary struct {
	Player1    string   `json:"player1"`
	Player2    string   `json:"player2"`
	Winner     string   `json:"winner"`
	Moves      []string `json:"moves"`
	FinalState string   `json:"final_state"`
}

// HandleGames lists recently finished games, ?limit=N (default 20).
func (s *Server) HandleGames(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	games, err := s.store.RecentGames(limit)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching games")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	out := make([]gameSummary, 0, len(games))
	for _, g := range games {
		out = append(out, gameSummary{
			Player1:    g.Player1,
			Player2:    g.Player2,
			Winner:     g.Winner,
			Moves:      g.Moves,
			FinalState: g.FinalState,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
