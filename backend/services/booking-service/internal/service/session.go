package service

import "strings"

// Session carries the caller identity into ledger operations.
type Session struct {
	UserID string
	Email  string
}

// Authenticated reports whether the session has a user.
func (s Session) Authenticated() bool {
	return strings.TrimSpace(s.UserID) != ""
}
