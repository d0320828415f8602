package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"Connect-4-AI/internals/models"
)

var (
	ErrUserExists   = errors.New("username already taken")
	ErrEmailExists  = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rankings (
	username TEXT PRIMARY KEY,
	score INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS games (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	player1 TEXT NOT NULL,
	player2 TEXT NOT NULL,
	winner TEXT,
	moves TEXT,
	final_state TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// Storage persists users, rankings and finished games in SQLite.
type Storage struct {
	db *sql.DB
	mu sync.Mutex
}

// New opens the database at path and creates any missing tables.
func New(path string) (*Storage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	_, err = db.Exec(`
		INSERT INTO rankings (username, score)
		SELECT username, 0
		FROM users
		WHERE username NOT IN (SELECT username FROM rankings)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("backfill rankings: %w", err)
	}
	log.Info().Str("path", path).Msg("storage ready")
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// CreateUser inserts a user whose Password is already hashed, together with
// an empty ranking row.
func (s *Storage) CreateUser(u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", u.Username).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if exists > 0 {
		return ErrUserExists
	}
	err = s.db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", u.Email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists > 0 {
		return ErrEmailExists
	}
	_, err = s.db.Exec("INSERT INTO users (username, password, email) VALUES (?, ?, ?)", u.Username, u.Password, u.Email)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	_, err = s.db.Exec(`INSERT OR IGNORE INTO rankings (username, score) VALUES (?, 0)`, u.Username)
	if err != nil {
		log.Error().Err(err).Str("username", u.Username).Msg("Failed to insert into rankings")
	}
	return nil
}

func (s *Storage) UserByName(username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user models.User
	err := s.db.QueryRow("SELECT id, username, password, email FROM users WHERE username = ?", username).
		Scan(&user.Id, &user.Username, &user.Password, &user.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

// AddWin increases a player's score
func (s *Storage) AddWin(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO rankings (username, score)
		VALUES (?, 1)
		ON CONFLICT(username) DO UPDATE SET score = score + 1
	`, username)
	if err != nil {
		return fmt.Errorf("update score for %s: %w", username, err)
	}
	return nil
}

// Ranking returns players by score desc, then username.
func (s *Storage) Ranking() ([]models.Ranking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT username, score FROM rankings`)
	if err != nil {
		return nil, fmt.Errorf("query rankings: %w", err)
	}
	defer rows.Close()

	var ranking []models.Ranking
	for rows.Next() {
		var r models.Ranking
		if err := rows.Scan(&r.Username, &r.Score); err != nil {
			log.Error().Err(err).Msg("Error scanning row")
			continue
		}
		ranking = append(ranking, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Score == ranking[j].Score {
			return ranking[i].Username < ranking[j].Username
		}
		return ranking[i].Score > ranking[j].Score
	})
	return ranking, nil
}

// SaveGame stores a finished game. Moves are kept comma separated.
func (s *Storage) SaveGame(rec models.GameRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO games (player1, player2, winner, moves, final_state)
		VALUES (?, ?, ?, ?, ?)
	`, rec.Player1, rec.Player2, rec.Winner, strings.Join(rec.Moves, ","), rec.FinalState)
	if err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

// RecentGames returns up to limit finished games, newest first.
func (s *Storage) RecentGames(limit int) ([]models.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, player1, player2, COALESCE(winner, ''), COALESCE(moves, ''), final_state, created_at
		FROM games
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []models.GameRecord
	for rows.Next() {
		var rec models.GameRecord
		var moves string
		if err := rows.Scan(&rec.Id, &rec.Player1, &rec.Player2, &rec.Winner, &moves, &rec.FinalState, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		if moves != "" {
			rec.Moves = strings.Split(moves, ",")
		}
		games = append(games, rec)
	}
	return games, rows.Err()
}
