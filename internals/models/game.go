package models

import "time"

// GameRecord is a finished game as stored in the games table.
type GameRecord struct {
	Id         int       `db:"id"`
	Player1    string    `db:"player1"`
	Player2    string    `db:"player2"`
	Winner     string    `db:"winner"` // username, or "draw"
	Moves      []string  `db:"moves"`
	FinalState string    `db:"final_state"`
	CreatedAt  time.Time `db:"created_at"`
}

// Ranking is one row of the leaderboard.
type Ranking struct {
	Username string `json:"Username"`
	Score    int    `json:"Score"`
}
