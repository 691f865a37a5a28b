// Package client is the terminal app's REST client for the backend API.
//
// Besides plain request helpers it implements session.Stream, so the
// session.Store can attach to it: sign-in and sign-out fan auth events out to
// registered handlers, and CurrentSession restores a stored token by asking
// the backend whether it still names a valid session.
package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"nerves/internal/domain/entity"
	"nerves/internal/session"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const defaultTimeout = 15 * time.Second

// Config holds the connection settings for the backend.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// AccessToken restores a previous session; leave empty for a fresh start.
	AccessToken string
}

// Client talks to the backend and tracks the current access token.
// All methods are safe for concurrent use.
type Client struct {
	rest   *resty.Client
	logger *slog.Logger

	mu       sync.Mutex
	token    string
	identity *entity.Identity
	handlers map[int]func(session.AuthEvent, *session.Session)
	nextID   int
}

// New builds a Client from config.
func New(cfg Config, logger *slog.Logger) *Client {
	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	rest := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		rest:     rest,
		logger:   logger,
		token:    cfg.AccessToken,
		handlers: make(map[int]func(session.AuthEvent, *session.Session)),
	}
}

// envelope is the backend's unified response shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Details string `json:"details"`
	} `json:"error"`
}

type identityPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type profilePayload struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

type sessionPayload struct {
	AccessToken string          `json:"access_token"`
	ExpiresIn   int64           `json:"expires_in"`
	User        identityPayload `json:"user"`
	Profile     profilePayload  `json:"profile"`
}

type entryPayload struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Content     string          `json:"content"`
	ContentType string          `json:"content_type"`
	Tags        []string        `json:"tags"`
	IsPublic    bool            `json:"is_public"`
	CreatedAt   time.Time       `json:"created_at"`
	Author      *profilePayload `json:"author"`
}

// OnAuthStateChange implements session.Stream.
func (c *Client) OnAuthStateChange(fn func(event session.AuthEvent, sess *session.Session)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.handlers[id] = fn
	c.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.handlers, id)
			c.mu.Unlock()
		})
	}
}

// CurrentSession implements session.Stream. With no stored token it resolves
// to signed out immediately; otherwise it validates the token against the
// backend. A rejected token is dropped and also resolves to signed out.
func (c *Client) CurrentSession(ctx context.Context) (*session.Session, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	if token == "" {
		return nil, nil
	}

	var env envelope
	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&env).
		SetError(&env).
		Get("/auth/session")
	if err != nil {
		return nil, errors.Wrap(err, "session request")
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		c.mu.Lock()
		c.token = ""
		c.identity = nil
		c.mu.Unlock()

		return nil, nil
	}
	if resp.IsError() {
		return nil, errors.New(apiMessage(resp, &env))
	}

	var profile profilePayload
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		return nil, errors.Wrap(err, "decode session response")
	}

	identity, err := toIdentity(identityPayload{ID: profile.ID}, &profile)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.identity = identity
	c.mu.Unlock()

	return &session.Session{Identity: identity, AccessToken: token}, nil
}

// SignUp registers an account. It never stores a token or emits an auth
// event; the caller stays signed out until the account is confirmed.
func (c *Client) SignUp(ctx context.Context, email, password, username string) (string, error) {
	var env envelope
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password, "username": username}).
		SetResult(&env).
		SetError(&env).
		Post("/auth/signup")
	if err != nil {
		return "", errors.Wrap(err, "sign-up request")
	}
	if resp.IsError() {
		return "", errors.New(apiMessage(resp, &env))
	}

	return env.Message, nil
}

// SignIn exchanges credentials for a session and emits SIGNED_IN.
func (c *Client) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	var env envelope
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&env).
		SetError(&env).
		Post("/auth/login")
	if err != nil {
		return nil, errors.Wrap(err, "sign-in request")
	}
	if resp.IsError() {
		return nil, errors.New(apiMessage(resp, &env))
	}

	var payload sessionPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, errors.Wrap(err, "decode sign-in response")
	}

	identity, err := toIdentity(payload.User, &payload.Profile)
	if err != nil {
		return nil, err
	}

	sess := &session.Session{Identity: identity, AccessToken: payload.AccessToken}

	c.mu.Lock()
	c.token = payload.AccessToken
	c.identity = identity
	c.mu.Unlock()

	c.emit(session.EventSignedIn, sess)

	return sess, nil
}

// SignOut revokes the current session and emits SIGNED_OUT. The local token
// is dropped even when revocation fails; the caller is signed out either way.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	c.token = ""
	c.identity = nil
	c.mu.Unlock()

	defer c.emit(session.EventSignedOut, nil)

	if token == "" {
		return nil
	}

	var env envelope
	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetError(&env).
		Post("/auth/logout")
	if err != nil {
		return errors.Wrap(err, "sign-out request")
	}
	if resp.IsError() {
		return errors.New(apiMessage(resp, &env))
	}

	return nil
}

// Feed fetches the public entry feed, newest first.
func (c *Client) Feed(ctx context.Context) ([]*entity.Entry, error) {
	var env envelope
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&env).
		SetError(&env).
		Get("/entries")
	if err != nil {
		return nil, errors.Wrap(err, "feed request")
	}
	if resp.IsError() {
		return nil, errors.New(apiMessage(resp, &env))
	}

	var payload []entryPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, errors.Wrap(err, "decode feed response")
	}

	entries := make([]*entity.Entry, 0, len(payload))
	for i := range payload {
		entry, err := toEntry(&payload[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// CreateEntryInput carries a new entry to publish.
type CreateEntryInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	IsPublic    bool     `json:"is_public"`
}

// CreateEntry publishes a new entry under the current session.
func (c *Client) CreateEntry(ctx context.Context, input *CreateEntryInput) (*entity.Entry, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	var env envelope
	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(input).
		SetResult(&env).
		SetError(&env).
		Post("/entries")
	if err != nil {
		return nil, errors.Wrap(err, "create entry request")
	}
	if resp.IsError() {
		return nil, errors.New(apiMessage(resp, &env))
	}

	var payload entryPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, errors.Wrap(err, "decode entry response")
	}

	return toEntry(&payload)
}

// Chat sends the prompt through the backend proxy and returns the reply.
func (c *Client) Chat(ctx context.Context, prompt, tag string) (string, error) {
	var env envelope
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{"prompt": prompt, "tag": tag}).
		SetResult(&env).
		SetError(&env).
		Post("/chat")
	if err != nil {
		return "", errors.Wrap(err, "chat request")
	}
	if resp.IsError() {
		return "", errors.New(apiMessage(resp, &env))
	}

	var payload struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return "", errors.Wrap(err, "decode chat response")
	}

	return payload.Response, nil
}

// emit calls every registered handler outside the client's lock.
func (c *Client) emit(event session.AuthEvent, sess *session.Session) {
	c.mu.Lock()
	fns := make([]func(session.AuthEvent, *session.Session), 0, len(c.handlers))
	for _, fn := range c.handlers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(event, sess)
	}
}

func toIdentity(user identityPayload, profile *profilePayload) (*entity.Identity, error) {
	raw := user.ID
	if raw == "" && profile != nil {
		raw = profile.ID
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "parse identity id")
	}

	identity := &entity.Identity{ID: id, Email: user.Email}
	if profile != nil {
		identity.Username = profile.Username
		identity.AvatarURL = profile.AvatarURL
	}

	return identity, nil
}

func toEntry(payload *entryPayload) (*entity.Entry, error) {
	id, err := uuid.Parse(payload.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parse entry id")
	}

	entry := &entity.Entry{
		ID:          id,
		Title:       payload.Title,
		Description: payload.Description,
		ContentText: payload.Content,
		ContentType: payload.ContentType,
		Tags:        payload.Tags,
		IsPublic:    payload.IsPublic,
		CreatedAt:   payload.CreatedAt,
	}
	if payload.Author != nil {
		authorID, err := uuid.Parse(payload.Author.ID)
		if err != nil {
			return nil, errors.Wrap(err, "parse author id")
		}
		entry.UserID = authorID
		entry.Author = &entity.Profile{
			ID:        authorID,
			Username:  payload.Author.Username,
			AvatarURL: payload.Author.AvatarURL,
		}
	}

	return entry, nil
}

// apiMessage pulls the most specific message out of an error response.
func apiMessage(resp *resty.Response, env *envelope) string {
	if env != nil {
		if env.Error != nil && env.Error.Details != "" {
			return env.Error.Details
		}
		if env.Message != "" {
			return env.Message
		}
	}

	return resp.Status()
}
