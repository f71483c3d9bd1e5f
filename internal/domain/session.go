package domain

import (
	"context"
	"errors"
)

// Keys persisted in device storage for the signed-in user.
const (
	SessionKeyUserInfo    = "userInfo"
	SessionKeyAccessToken = "accessToken"
)

// ErrSessionKeyNotFound is returned when a key has no stored value.
var ErrSessionKeyNotFound = errors.New("session key not found")

// SessionStore is string-keyed device storage.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	MultiRemove(ctx context.Context, keys ...string) error
}

// AuthValue is the in-memory authentication state shared by screens.
type AuthValue struct {
	UserInfo    string
	AccessToken string
	Subject     string
	Email       string
}

// TokenInspector extracts identity claims from an access token without verifying it.
type TokenInspector interface {
	Inspect(token string) (subject, email string, err error)
}

// AuthAPI authenticates against the remote service and returns its raw response body.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) ([]byte, error)
}
