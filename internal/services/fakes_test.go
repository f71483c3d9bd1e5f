package services

import (
	"context"
	"errors"
	"sync"

	"volunteermap/internal/domain"
)

// statusErr mimics the API client's non-2xx error.
type statusErr struct{ code int }

func (e *statusErr) Error() string { return "unexpected status" }
func (e *statusErr) Unwrap() error { return domain.ErrUnexpectedStatus }

// fakeEventsAPI is an in-memory EventsAPI for tests.
type fakeEventsAPI struct {
	mu        sync.Mutex
	events    []domain.EventRecord
	listErr   error
	createErr error
	created   []domain.EventPayload
	listCalls int
}

func (f *fakeEventsAPI) ListEvents(ctx context.Context) ([]domain.EventRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.events, nil
}

func (f *fakeEventsAPI) CreateEvent(ctx context.Context, p domain.EventPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	return f.createErr
}

func (f *fakeEventsAPI) createCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

// fakeUploader returns url or err. If gate is set it blocks until the gate is closed.
type fakeUploader struct {
	url   string
	err   error
	gate  chan struct{}
	calls []string
}

func (u *fakeUploader) Upload(ctx context.Context, localURI string) (string, error) {
	u.calls = append(u.calls, localURI)
	if u.gate != nil {
		<-u.gate
	}
	return u.url, u.err
}

type fakePicker struct {
	uri       string
	cancelled bool
	err       error
}

func (p fakePicker) Pick(ctx context.Context) (domain.PickedImage, bool, error) {
	if p.err != nil {
		return domain.PickedImage{}, false, p.err
	}
	if p.cancelled {
		return domain.PickedImage{}, false, nil
	}
	return domain.PickedImage{URI: p.uri}, true, nil
}

// recordingNotifier keeps every notification in order.
type recordingNotifier struct {
	mu    sync.Mutex
	items []domain.Notification
}

func (r *recordingNotifier) Notify(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recordingNotifier) all() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, len(r.items))
	copy(out, r.items)
	return out
}

func (r *recordingNotifier) last() domain.Notification {
	items := r.all()
	if len(items) == 0 {
		return domain.Notification{}
	}
	return items[len(items)-1]
}

// fakeSessionStore is an in-memory SessionStore.
type fakeSessionStore struct {
	data      map[string]string
	removeErr error
	getErr    error
	removed   []string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{data: make(map[string]string)}
}

func (s *fakeSessionStore) Get(ctx context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return "", domain.ErrSessionKeyNotFound
	}
	return v, nil
}

func (s *fakeSessionStore) Set(ctx context.Context, key, value string) error {
	s.data[key] = value
	return nil
}

func (s *fakeSessionStore) MultiRemove(ctx context.Context, keys ...string) error {
	s.removed = append(s.removed, keys...)
	if s.removeErr != nil {
		return s.removeErr
	}
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

type fakeInspector struct {
	sub, email string
}

func (i fakeInspector) Inspect(token string) (string, string, error) {
	if token == "opaque" {
		return "", "", errors.New("not a jwt")
	}
	return i.sub, i.email, nil
}

type fakeAuthAPI struct {
	body []byte
	err  error
}

func (a fakeAuthAPI) Login(ctx context.Context, email, password string) ([]byte, error) {
	return a.body, a.err
}
