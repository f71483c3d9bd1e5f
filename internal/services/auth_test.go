package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"volunteermap/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthContext(t *testing.T) {
	a := NewAuthContext()
	assert.Nil(t, a.Value())

	v := &domain.AuthValue{AccessToken: "tok"}
	a.SetValue(v)
	v.AccessToken = "mutated"
	require.NotNil(t, a.Value())
	assert.Equal(t, "tok", a.Value().AccessToken)

	a.SetValue(nil)
	assert.Nil(t, a.Value())
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("stores session and navigates to map", func(t *testing.T) {
		store := newFakeSessionStore()
		auth := NewAuthContext()
		body := []byte(`{"accessToken":"jwt-token","user":{"name":"Ana"}}`)
		svc := NewAuthService(fakeAuthAPI{body: body}, store, fakeInspector{sub: "u-1", email: "ana@example.com"}, auth, nil, nil)

		screen, err := svc.Login(ctx, "ana@example.com", "pw")
		require.NoError(t, err)
		assert.Equal(t, domain.ScreenEventMap, screen)
		assert.Equal(t, string(body), store.data[domain.SessionKeyUserInfo])
		assert.Equal(t, "jwt-token", store.data[domain.SessionKeyAccessToken])
		require.NotNil(t, auth.Value())
		assert.Equal(t, "u-1", auth.Value().Subject)
		assert.Equal(t, "ana@example.com", auth.Value().Email)
	})

	t.Run("token field fallback and opaque token", func(t *testing.T) {
		store := newFakeSessionStore()
		auth := NewAuthContext()
		svc := NewAuthService(fakeAuthAPI{body: []byte(`{"token":"opaque"}`)}, store, fakeInspector{sub: "x"}, auth, nil, nil)

		_, err := svc.Login(ctx, "a@b.co", "pw")
		require.NoError(t, err)
		assert.Equal(t, "opaque", store.data[domain.SessionKeyAccessToken])
		assert.Empty(t, auth.Value().Subject)
	})

	t.Run("non-json body is kept and logged", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		store := newFakeSessionStore()
		auth := NewAuthContext()
		svc := NewAuthService(fakeAuthAPI{body: []byte("welcome back")}, store, fakeInspector{}, auth, nil, logger)

		screen, err := svc.Login(ctx, "a@b.co", "pw")
		require.NoError(t, err)
		assert.Equal(t, domain.ScreenEventMap, screen)
		assert.Equal(t, "welcome back", store.data[domain.SessionKeyUserInfo])
		_, hasToken := store.data[domain.SessionKeyAccessToken]
		assert.False(t, hasToken)
		assert.Contains(t, logs.String(), "login body is not json")
	})

	t.Run("rejected credentials", func(t *testing.T) {
		notes := &recordingNotifier{}
		auth := NewAuthContext()
		svc := NewAuthService(fakeAuthAPI{err: &statusErr{code: 401}}, newFakeSessionStore(), nil, auth, notes, nil)

		screen, err := svc.Login(ctx, "a@b.co", "bad")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrLogin))
		assert.Equal(t, domain.ScreenLogin, screen)
		assert.Equal(t, MsgLoginFailed, notes.last().Message)
		assert.Nil(t, auth.Value())
	})

	t.Run("network error", func(t *testing.T) {
		notes := &recordingNotifier{}
		svc := NewAuthService(fakeAuthAPI{err: errors.New("no route")}, newFakeSessionStore(), nil, NewAuthContext(), notes, nil)

		_, err := svc.Login(ctx, "a@b.co", "pw")
		require.Error(t, err)
		assert.Equal(t, MsgLoginError, notes.last().Message)
	})
}

func TestAuthService_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("no token starts at login", func(t *testing.T) {
		auth := NewAuthContext()
		svc := NewAuthService(fakeAuthAPI{}, newFakeSessionStore(), nil, auth, nil, nil)
		screen, err := svc.Restore(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.ScreenLogin, screen)
		assert.Nil(t, auth.Value())
	})

	t.Run("stored token starts at map", func(t *testing.T) {
		store := newFakeSessionStore()
		store.data[domain.SessionKeyAccessToken] = "tok"
		store.data[domain.SessionKeyUserInfo] = `{"name":"Ana"}`
		auth := NewAuthContext()
		svc := NewAuthService(fakeAuthAPI{}, store, fakeInspector{sub: "u-1"}, auth, nil, nil)

		screen, err := svc.Restore(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.ScreenEventMap, screen)
		require.NotNil(t, auth.Value())
		assert.Equal(t, `{"name":"Ana"}`, auth.Value().UserInfo)
		assert.Equal(t, "u-1", auth.Value().Subject)
	})

	t.Run("storage error", func(t *testing.T) {
		store := newFakeSessionStore()
		store.getErr = errors.New("locked")
		svc := NewAuthService(fakeAuthAPI{}, store, nil, NewAuthContext(), nil, nil)
		screen, err := svc.Restore(ctx)
		require.Error(t, err)
		assert.Equal(t, domain.ScreenLogin, screen)
	})
}
