package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := doJSON(t, r, "POST", "/api/v1/auth/register", "", map[string]string{
		"username": "alice", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "alice", out.Username)
	assert.NotZero(t, out.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	r := newTestRouter(t, nil)

	body := map[string]string{"username": "alice", "password": "secret1"}
	rec := doJSON(t, r, "POST", "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, "POST", "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "username already taken")
}

func TestRegisterValidation(t *testing.T) {
	r := newTestRouter(t, nil)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"empty username", map[string]string{"username": "", "password": "secret1"}},
		{"username too long", map[string]string{"username": strings.Repeat("a", 21), "password": "secret1"}},
		{"password too short", map[string]string{"username": "alice", "password": "short"}},
		{"password too long", map[string]string{"username": "alice", "password": strings.Repeat("p", 129)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, r, "POST", "/api/v1/auth/register", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := doJSON(t, r, "POST", "/api/v1/auth/register", "", map[string]string{
		"username": "alice", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	login := func(username, password string) *httptest.ResponseRecorder {
		form := "username=" + username + "&password=" + password
		req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec = login("alice", "wrongpass")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid username or password")

	rec = login("nosuchuser", "secret1")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = login("alice", "secret1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.AccessToken)
	assert.Equal(t, "bearer", out.TokenType)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := doJSON(t, r, "GET", "/api/v1/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, r, "GET", "/api/v1/tasks", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authorization required")
}
