package users

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"Connect-4-AI/internals/models"
	"Connect-4-AI/internals/storage"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type memStore struct {
	users map[string]models.User
}

func (m *memStore) CreateUser(u models.User) error {
	if _, ok := m.users[u.Username]; ok {
		return storage.ErrUserExists
	}
	for _, other := range m.users {
		if other.Email == u.Email {
			return storage.ErrEmailExists
		}
	}
	m.users[u.Username] = u
	return nil
}

func (m *memStore) UserByName(username string) (models.User, error) {
	u, ok := m.users[username]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}
	return u, nil
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rec
}

func TestSignupAndLogin(t *testing.T) {
	store := &memStore{users: map[string]models.User{}}
	signup := SignupHandler(store)
	login := LoginHandler(store)

	rec := post(signup, `{"username":"alice","password":"s3cret","email":"a@example.com"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.users["alice"].Password), []byte("s3cret")))

	assert.Equal(t, http.StatusConflict, post(signup, `{"username":"alice","password":"x","email":"x@example.com"}`).Code)
	assert.Equal(t, http.StatusConflict, post(signup, `{"username":"alice2","password":"x","email":"a@example.com"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(signup, `{"username":"bob","password":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(signup, `{"username":"","password":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(signup, `not json`).Code)

	assert.Equal(t, http.StatusOK, post(login, `{"username":"alice","password":"s3cret"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, post(login, `{"username":"alice","password":"nope"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, post(login, `{"username":"bob","password":"s3cret"}`).Code)
}
