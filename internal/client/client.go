// Package client is the programmatic counterpart of the storefront UI: it
// talks to the streetmarket HTTP API, keeps the guest session token, and
// hosts the cart aggregator that order and cart screens read from.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"
)

// requestTimeout bounds every API call; there is no retry, a timed-out call
// is reported to the user and the screen keeps its fallback state.
const requestTimeout = 10 * time.Second

// APIError is the normalized shape every failure is reduced to: transport
// errors, server-reported business errors and local validation all surface
// this way. Status is the HTTP status, or 0 when no response arrived.
type APIError struct {
	Message string
	Status  int
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Message, e.Status, e.Details)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// envelope is the standard response wrapper the API uses everywhere.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// SessionStore persists the guest session identifier between runs, standing
// in for the browser's local storage. It is passed in explicitly so nothing
// reads ambient state.
type SessionStore interface {
	GuestSession() string
	SetGuestSession(token string)
}

// MemorySessionStore keeps the token for the lifetime of the process.
type MemorySessionStore struct {
	mu    sync.Mutex
	token string
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) GuestSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *MemorySessionStore) SetGuestSession(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// FileSessionStore persists the token to a small JSON file so a guest cart
// survives restarts.
type FileSessionStore struct {
	mu   sync.Mutex
	path string
}

func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

type sessionFile struct {
	GuestSession string `json:"guestSession"`
}

func (s *FileSessionStore) GuestSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	var f sessionFile
	if json.Unmarshal(b, &f) != nil {
		return ""
	}
	return f.GuestSession
}

func (s *FileSessionStore) SetGuestSession(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := json.Marshal(sessionFile{GuestSession: token})
	if err != nil {
		return
	}
	// best effort, a lost token only costs the guest their cart
	_ = os.WriteFile(s.path, b, 0o600)
}

// Notifier receives user-facing failure notices, the toast analogue.
type Notifier interface {
	Notify(message string)
}

// LogNotifier writes notices to a logger; the default when no UI is wired.
type LogNotifier struct {
	Logger *log.Logger
}

func (n LogNotifier) Notify(message string) {
	if n.Logger != nil {
		n.Logger.Printf("notice: %s", message)
		return
	}
	log.Printf("notice: %s", message)
}

// Client calls the streetmarket API. All methods return *APIError on
// failure.
type Client struct {
	baseURL  string
	http     *http.Client
	token    string
	sessions SessionStore
	logger   *log.Logger
}

type Option func(*Client)

// WithToken sets the bearer token for an authenticated account.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithSessionStore replaces the default in-memory guest session store.
func WithSessionStore(s SessionStore) Option {
	return func(c *Client) { c.sessions = s }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: requestTimeout},
		sessions: NewMemorySessionStore(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken switches the client to an authenticated identity, e.g. after
// sign-in. The guest session token is kept but no longer sent.
func (c *Client) SetToken(token string) {
	c.token = token
}

// do performs one API call and decodes the enveloped payload into out (which
// may be nil for calls whose data is irrelevant).
func (c *Client) do(method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: "could not encode request", Details: err.Error()}
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return &APIError{Message: "invalid request", Details: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else if tok := c.sessions.GuestSession(); tok != "" {
		req.Header.Set("X-Guest-Session", tok)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return &APIError{Message: "cannot reach server", Details: err.Error()}
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return &APIError{Message: "malformed server response", Status: res.StatusCode, Details: err.Error()}
	}

	if !env.Success {
		msg := env.Message
		switch res.StatusCode {
		case http.StatusUnauthorized:
			msg = "please log in"
		case http.StatusForbidden:
			msg = "you do not have permission to do that"
		}
		if msg == "" {
			msg = "request failed"
		}
		return &APIError{Message: msg, Status: res.StatusCode, Details: env.Message}
	}

	if out != nil {
		if env.Data == nil {
			return &APIError{Message: "malformed server response", Status: res.StatusCode, Details: "missing data"}
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &APIError{Message: "malformed server response", Status: res.StatusCode, Details: err.Error()}
		}
	}
	return nil
}
