package eventsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"

	"volunteermap/internal/domain"
)

const (
	defaultEventsPath = "/events"
	uploadPath        = "/upload"
	loginPath         = "/login"

	uploadFieldName   = "image"
	uploadFileName    = "upload.jpg"
	uploadContentType = "image/jpeg"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status: %d", e.Method, e.Path, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return domain.ErrUnexpectedStatus }

// IsStatusError reports whether err came from a non-2xx response rather than the network.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// Client talks to the volunteer events backend.
type Client struct {
	client     *http.Client
	baseURL    *url.URL
	eventsPath string
}

// NewClient returns a client for baseURL. eventsPath defaults to /events.
func NewClient(httpClient *http.Client, baseURL, eventsPath string) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if eventsPath == "" {
		eventsPath = defaultEventsPath
	}
	if !strings.HasPrefix(eventsPath, "/") {
		eventsPath = "/" + eventsPath
	}
	return &Client{client: httpClient, baseURL: u, eventsPath: eventsPath}, nil
}

// EventsPath returns the configured events endpoint path.
func (c *Client) EventsPath() string { return c.eventsPath }

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

// ListEvents fetches every event. Items are decoded as-is without per-item checks.
func (c *Client) ListEvents(ctx context.Context) ([]domain.EventRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(c.eventsPath), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, &StatusError{Method: http.MethodGet, Path: c.eventsPath, StatusCode: resp.StatusCode}
	}

	var events []domain.EventRecord
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to decode events response: %w", err)
	}
	return events, nil
}

// CreateEvent posts one event. The response body is not consulted.
func (c *Client) CreateEvent(ctx context.Context, payload domain.EventPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.eventsPath), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if !isSuccess(resp.StatusCode) {
		return &StatusError{Method: http.MethodPost, Path: c.eventsPath, StatusCode: resp.StatusCode}
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login posts credentials and returns the raw response body.
func (c *Client) Login(ctx context.Context, email, password string) ([]byte, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(loginPath), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, &StatusError{Method: http.MethodPost, Path: loginPath, StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read login response: %w", err)
	}
	return data, nil
}

// uploadResponse is the nested shape returned by /upload: {"data":{"data":{"url":"..."}}}.
type uploadResponse struct {
	Data struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"data"`
}

// Upload sends the image at localURI as multipart field "image" and returns the hosted URL.
func (c *Client) Upload(ctx context.Context, localURI string) (string, error) {
	f, err := os.Open(localPath(localURI))
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadFieldName, uploadFileName))
	hdr.Set("Content-Type", uploadContentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("copy image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(uploadPath), &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", &StatusError{Method: http.MethodPost, Path: uploadPath, StatusCode: resp.StatusCode}
	}

	var data uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if data.Data.Data.URL == "" {
		return "", errors.New("upload response has no url")
	}
	return data.Data.Data.URL, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// localPath turns a file:// URI into a filesystem path; plain paths pass through.
func localPath(uri string) string {
	if u, err := url.Parse(uri); err == nil && u.Scheme == "file" {
		return u.Path
	}
	return uri
}
