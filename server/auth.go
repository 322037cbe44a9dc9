package server

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Username string `json:"username"`
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"es_admin"`
}

// handleRegister creates an account. The first account on a fresh
// installation gets the global administrator flag.
func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}

	fields := map[string]string{}
	if req.Username == "" {
		fields["username"] = "obligatorio"
	}
	if req.Email == "" {
		fields["email"] = "obligatorio"
	}
	if len(req.Password) < 8 {
		fields["password"] = "minimo 8 caracteres"
	}
	if len(fields) > 0 {
		return validationJSON(c, fields)
	}
	if req.Name == "" {
		req.Name = req.Username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	isAdmin := 0
	if count == 0 {
		isAdmin = 1
	}

	userID := uuid.New().String()
	_, err = s.db.Exec(s.q(`
		INSERT INTO users (id, username, nombre, email, password_hash, es_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`),
		userID, req.Username, req.Name, req.Email, string(hash), isAdmin, nowISO(),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return errJSON(c, http.StatusConflict, "username or email already exists")
		}
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	token, expiresAt, err := s.createSession(userID)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, authResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		UserID:    userID,
		Username:  req.Username,
		IsAdmin:   isAdmin == 1,
	})
}

// handleLogin authenticates a user.
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}

	var userID, passwordHash string
	var adminFlag int
	err := s.db.QueryRow(s.q(`
		SELECT id, password_hash, es_admin FROM users WHERE username = $1`),
		req.Username,
	).Scan(&userID, &passwordHash, &adminFlag)
	if err != nil {
		return errJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return errJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	token, expiresAt, err := s.createSession(userID)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, authResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		UserID:    userID,
		Username:  req.Username,
		IsAdmin:   adminFlag == 1,
	})
}

// handleLogout invalidates the presented session.
func (s *Server) handleLogout(c echo.Context) error {
	token := c.Get("session_token").(string)
	_, _ = s.db.Exec(s.q("DELETE FROM sessions WHERE token = $1"), token)
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleMe returns the current user's profile.
func (s *Server) handleMe(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var username, name, email string
	var adminFlag int
	err := s.db.QueryRow(s.q(`
		SELECT username, nombre, email, es_admin FROM users WHERE id = $1`),
		userID,
	).Scan(&username, &name, &email, &adminFlag)
	if err != nil {
		return errJSON(c, http.StatusNotFound, "usuario no encontrado")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":       userID,
		"username": username,
		"nombre":   name,
		"email":    email,
		"esAdmin":  adminFlag == 1,
	})
}

// createSession creates a new 30-day session for a user.
func (s *Server) createSession(userID string) (string, time.Time, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", time.Time{}, err
	}
	token := hex.EncodeToString(tokenBytes)

	expiresAt := time.Now().UTC().Add(30 * 24 * time.Hour)

	_, err := s.db.Exec(s.q(`
		INSERT INTO sessions (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`),
		uuid.New().String(), userID, token, expiresAt.Format(time.RFC3339), nowISO(),
	)

	return token, expiresAt, err
}
