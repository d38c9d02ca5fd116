package auth

import "time"

// Strategy issues and verifies bearer tokens carrying a user identifier.
type Strategy interface {
	IssueToken(userID string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
