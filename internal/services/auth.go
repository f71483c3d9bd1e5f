package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"volunteermap/internal/domain"
)

// AuthContext holds the in-memory authentication value shared by screens.
type AuthContext struct {
	mu    sync.RWMutex
	value *domain.AuthValue
}

// NewAuthContext returns an empty (signed-out) context.
func NewAuthContext() *AuthContext {
	return &AuthContext{}
}

// Value returns a copy of the current value, or nil when signed out.
func (a *AuthContext) Value() *domain.AuthValue {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.value == nil {
		return nil
	}
	v := *a.value
	return &v
}

// SetValue replaces the value. nil signs out.
func (a *AuthContext) SetValue(v *domain.AuthValue) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if v == nil {
		a.value = nil
		return
	}
	cp := *v
	a.value = &cp
}

// Messages shown by the login flow.
const (
	MsgLoginFailed = "Invalid email or password."
	MsgLoginError  = "An error occurred while signing in."
)

type authService struct {
	api       domain.AuthAPI
	store     domain.SessionStore
	inspector domain.TokenInspector
	auth      *AuthContext
	notifier  domain.Notifier
	logger    *slog.Logger
}

// AuthService signs users in and restores persisted sessions.
type AuthService interface {
	Login(ctx context.Context, email, password string) (domain.Screen, error)
	Restore(ctx context.Context) (domain.Screen, error)
}

// NewAuthService wires the login flow.
func NewAuthService(api domain.AuthAPI, store domain.SessionStore, inspector domain.TokenInspector, auth *AuthContext, notifier domain.Notifier, logger *slog.Logger) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = domain.NotifierFunc(func(domain.Notification) {})
	}
	return &authService{api: api, store: store, inspector: inspector, auth: auth, notifier: notifier, logger: logger}
}

// loginResponse picks the token out of an otherwise opaque login body.
type loginResponse struct {
	AccessToken string `json:"accessToken"`
	Token       string `json:"token"`
}

func (s *authService) Login(ctx context.Context, email, password string) (domain.Screen, error) {
	body, err := s.api.Login(ctx, email, password)
	if err != nil {
		msg := MsgLoginError
		if errors.Is(err, domain.ErrUnexpectedStatus) {
			msg = MsgLoginFailed
		}
		s.logger.Error("login failed", "err", err)
		s.notifier.Notify(domain.Notification{Kind: domain.NotifyError, Title: titleError, Message: msg})
		return domain.ScreenLogin, domain.NewWorkflowError(domain.ErrLogin, err)
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		s.logger.Debug("login body is not json, no token extracted", "err", err)
	}
	token := resp.AccessToken
	if token == "" {
		token = resp.Token
	}

	if err := s.store.Set(ctx, domain.SessionKeyUserInfo, string(body)); err != nil {
		s.logger.Error("persist user info failed", "err", err)
	}
	if token != "" {
		if err := s.store.Set(ctx, domain.SessionKeyAccessToken, token); err != nil {
			s.logger.Error("persist access token failed", "err", err)
		}
	}

	s.auth.SetValue(s.authValue(string(body), token))
	return domain.ScreenEventMap, nil
}

// Restore loads a persisted session. It returns the map screen when a token is stored,
// otherwise the login screen.
func (s *authService) Restore(ctx context.Context) (domain.Screen, error) {
	token, err := s.store.Get(ctx, domain.SessionKeyAccessToken)
	if err != nil {
		if errors.Is(err, domain.ErrSessionKeyNotFound) {
			return domain.ScreenLogin, nil
		}
		return domain.ScreenLogin, err
	}
	userInfo, err := s.store.Get(ctx, domain.SessionKeyUserInfo)
	if err != nil && !errors.Is(err, domain.ErrSessionKeyNotFound) {
		return domain.ScreenLogin, err
	}
	s.auth.SetValue(s.authValue(userInfo, token))
	return domain.ScreenEventMap, nil
}

func (s *authService) authValue(userInfo, token string) *domain.AuthValue {
	v := &domain.AuthValue{UserInfo: userInfo, AccessToken: token}
	if token != "" && s.inspector != nil {
		if sub, email, err := s.inspector.Inspect(token); err == nil {
			v.Subject, v.Email = sub, email
		} else {
			s.logger.Debug("access token is not a readable jwt", "err", err)
		}
	}
	return v
}
