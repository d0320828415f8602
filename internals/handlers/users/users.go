package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"Connect-4-AI/internals/models"
	"Connect-4-AI/internals/storage"
)

// Store is the part of storage.Storage the account handlers need.
type Store interface {
	CreateUser(u models.User) error
	UserByName(username string) (models.User, error)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// SignupHandler handles user registration
func SignupHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if req.Username == "" || req.Password == "" || req.Email == "" {
			http.Error(w, "Username, password and email required", http.StatusBadRequest)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "Error hashing password", http.StatusInternalServerError)
			return
		}
		err = store.CreateUser(models.User{Username: req.Username, Password: string(hash), Email: req.Email})
		switch {
		case errors.Is(err, storage.ErrUserExists):
			http.Error(w, "Username already taken", http.StatusConflict)
			return
		case errors.Is(err, storage.ErrEmailExists):
			http.Error(w, "Email already registered", http.StatusConflict)
			return
		case err != nil:
			log.Error().Err(err).Str("username", req.Username).Msg("signup failed")
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}

		log.Info().Str("username", req.Username).Msg("user signed up")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("Signup successful"))
	}
}

// LoginHandler handles user login
func LoginHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		user, err := store.UserByName(req.Username)
		if errors.Is(err, storage.ErrUserNotFound) {
			http.Error(w, "Invalid username or password", http.StatusUnauthorized)
			return
		} else if err != nil {
			log.Error().Err(err).Str("username", req.Username).Msg("login lookup failed")
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			http.Error(w, "Invalid username or password", http.StatusUnauthorized)
			return
		}
		w.Write([]byte("Login successful"))
	}
}
