package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"volunteermap/internal/domain"
)

// MsgFetchEventsFailed is shown when the list endpoint answers with a non-2xx status.
const MsgFetchEventsFailed = "Failed to fetch events"

// minFitDelta keeps a single fitted marker from zooming in to a zero-span viewport.
const minFitDelta = 0.01

// EventMapDeps are the collaborators of an EventMap.
type EventMapDeps struct {
	API      domain.EventsAPI
	Store    domain.SessionStore
	Auth     *AuthContext
	Notifier domain.Notifier
	Logger   *slog.Logger
	Region   domain.Region
	Padding  domain.EdgePadding
}

// EventMap is the map screen. Its event list lives as long as the instance.
type EventMap struct {
	api      domain.EventsAPI
	store    domain.SessionStore
	auth     *AuthContext
	notifier domain.Notifier
	logger   *slog.Logger
	padding  domain.EdgePadding

	mu       sync.Mutex
	events   []domain.EventRecord
	viewport domain.Region
}

// NewEventMap returns a map screen showing the initial region and no events.
func NewEventMap(deps EventMapDeps) *EventMap {
	region := deps.Region
	if region == (domain.Region{}) {
		region = domain.DefaultRegion
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = domain.NotifierFunc(func(domain.Notification) {})
	}
	return &EventMap{
		api:      deps.API,
		store:    deps.Store,
		auth:     deps.Auth,
		notifier: notifier,
		logger:   logger,
		padding:  deps.Padding,
		viewport: region,
	}
}

// Activate fetches events once. On failure the list stays empty and an error is shown.
func (m *EventMap) Activate(ctx context.Context) error {
	events, err := m.api.ListEvents(ctx)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, domain.ErrUnexpectedStatus) {
			msg = MsgFetchEventsFailed
		}
		m.logger.Error("fetch events failed", "err", err)
		m.notifier.Notify(domain.Notification{Kind: domain.NotifyError, Title: titleError, Message: msg})
		return domain.NewWorkflowError(domain.ErrFetch, err)
	}

	m.mu.Lock()
	m.events = events
	m.mu.Unlock()
	m.logger.Info("events loaded", "count", len(events))
	return nil
}

// Events returns the current list.
func (m *EventMap) Events() []domain.EventRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.EventRecord, len(m.events))
	copy(out, m.events)
	return out
}

// Markers returns one marker per event.
func (m *EventMap) Markers() []domain.Marker {
	m.mu.Lock()
	defer m.mu.Unlock()
	markers := make([]domain.Marker, 0, len(m.events))
	for _, e := range m.events {
		markers = append(markers, domain.Marker{Key: e.ID, Position: e.Position})
	}
	return markers
}

// Summary is the footer line.
func (m *EventMap) Summary() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("%d event(s) found", len(m.events))
}

// Layout fits the viewport to the current markers. The result is kept until the next
// Layout call; later list changes do not move the viewport.
func (m *EventMap) Layout() domain.Region {
	m.mu.Lock()
	defer m.mu.Unlock()
	positions := make([]domain.Position, 0, len(m.events))
	for _, e := range m.events {
		positions = append(positions, e.Position)
	}
	if fitted, ok := FitRegion(positions, m.padding); ok {
		m.viewport = fitted
	}
	return m.viewport
}

// Viewport returns the region computed by the last Layout (or the initial region).
func (m *EventMap) Viewport() domain.Region {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewport
}

// CreateEvent navigates to a fresh creation form.
func (m *EventMap) CreateEvent() domain.Screen {
	return domain.ScreenAddEvent
}

// Logout clears persisted and in-memory session state and returns the login screen.
// Storage failures are logged only; navigation always happens.
func (m *EventMap) Logout(ctx context.Context) domain.Screen {
	if m.store != nil {
		if err := m.store.MultiRemove(ctx, domain.SessionKeyUserInfo, domain.SessionKeyAccessToken); err != nil {
			m.logger.Error("clear session failed", "err", err)
		}
	}
	if m.auth != nil {
		m.auth.SetValue(nil)
	}
	return domain.ScreenLogin
}

// FitRegion returns the smallest region containing every position, grown by padding.
// ok is false for an empty list.
func FitRegion(positions []domain.Position, padding domain.EdgePadding) (domain.Region, bool) {
	if len(positions) == 0 {
		return domain.Region{}, false
	}
	minLat, maxLat := math.Inf(1), math.Inf(-1)
	minLng, maxLng := math.Inf(1), math.Inf(-1)
	for _, p := range positions {
		minLat = math.Min(minLat, p.Latitude)
		maxLat = math.Max(maxLat, p.Latitude)
		minLng = math.Min(minLng, p.Longitude)
		maxLng = math.Max(maxLng, p.Longitude)
	}
	latSpan := math.Max(maxLat-minLat, minFitDelta)
	lngSpan := math.Max(maxLng-minLng, minFitDelta)

	south := minLat - latSpan*padding.Bottom
	north := maxLat + latSpan*padding.Top
	west := minLng - lngSpan*padding.Left
	east := maxLng + lngSpan*padding.Right

	return domain.Region{
		Latitude:       (south + north) / 2,
		Longitude:      (west + east) / 2,
		LatitudeDelta:  math.Max(north-south, minFitDelta),
		LongitudeDelta: math.Max(east-west, minFitDelta),
	}, true
}
