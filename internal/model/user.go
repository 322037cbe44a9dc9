package model

import "time"

// User represents an account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"nombre"`
	Email        string    `json:"email"`
	IsAdmin      bool      `json:"esAdmin"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session represents an active login session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Comment is a server-owned note on a task, loaded lazily per task.
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"tareaId"`
	AuthorID  string    `json:"autorId"`
	Author    string    `json:"autor"`
	Body      string    `json:"texto"`
	CreatedAt time.Time `json:"createdAt"`
}

// Attachment is file metadata attached to a task. Storage and serving
// live outside this service; only the listing crosses the API.
type Attachment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"tareaId"`
	FileName  string    `json:"archivo"`
	Size      int64     `json:"tamano"`
	CreatedAt time.Time `json:"createdAt"`
}
