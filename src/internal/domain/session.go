package domain

import "time"

// Session identifies the signed in user. It is passed explicitly to every
// service call that needs the current user.
type Session struct {
	ID        string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
