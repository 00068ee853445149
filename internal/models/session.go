package models

import "time"

// Session is a persisted conversation thread owned by one user.
type Session struct {
	UID       string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
