// Package session carries the authenticated caller identity across the
// dependency-injection boundary. Components that need it receive it
// explicitly; the normalizer stays free of ambient state.
package session

import "os"

// Session identifies the authenticated user for backend calls. A nil session
// means anonymous access.
type Session struct {
	Token  string
	UserID string
}

// FromEnv builds a session from FOOTPRINT_TOKEN and FOOTPRINT_USER, or nil
// when no token is set.
func FromEnv() *Session {
	token := os.Getenv("FOOTPRINT_TOKEN")
	if token == "" {
		return nil
	}
	return &Session{
		Token:  token,
		UserID: os.Getenv("FOOTPRINT_USER"),
	}
}

// Authorization returns the value for the Authorization header.
func (s *Session) Authorization() string {
	return "Bearer " + s.Token
}
