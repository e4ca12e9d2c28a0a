package reader

import (
	"database/sql"
	"time"
)

// Reader is a Telegram user following the reading plan.
type Reader struct {
	ID         int64
	TelegramID int64
	FirstName  string
	Username   sql.NullString // Telegram @username is optional
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayName returns the first name, falling back to the username.
func (r *Reader) DisplayName() string {
	if r.FirstName != "" {
		return r.FirstName
	}
	if r.Username.Valid && r.Username.String != "" {
		return "@" + r.Username.String
	}
	return "Reader"
}
