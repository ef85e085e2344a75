package erp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
	"github.com/rl1809/jewelry-storefront/internal/port"
)

type Config struct {
	URL         string
	Database    string
	Login       string
	APIKey      string
	CallTimeout time.Duration
	SessionTTL  time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithSessionCache stores sessions in cache instead of process memory.
func WithSessionCache(cache port.SessionCache) Option {
	return func(c *Client) {
		if cache != nil {
			c.sessionCache = cache
		}
	}
}

func WithSessionProvider(p SessionProvider) Option {
	return func(c *Client) {
		c.sessions = p
	}
}

// Client talks to the ERP's JSON-RPC endpoint. It implements
// port.ERPGateway on top of Invoke.
type Client struct {
	baseURL      string
	database     string
	login        string
	apiKey       string
	callTimeout  time.Duration
	http         *http.Client
	sessionCache port.SessionCache
	sessions     SessionProvider
}

var _ port.ERPGateway = (*Client)(nil)

func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(cfg.URL, "/"),
		database:     cfg.Database,
		login:        cfg.Login,
		apiKey:       cfg.APIKey,
		callTimeout:  cfg.CallTimeout,
		http:         &http.Client{},
		sessionCache: NewMemorySessionCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sessions == nil {
		key := fmt.Sprintf("erp:session:%s:%s", c.database, c.login)
		c.sessions = NewCachingSessionProvider(c, c.sessionCache, key, cfg.SessionTTL)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks that the ERP accepts the configured credentials. It bypasses
// the session cache.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Authenticate(ctx)
	return err
}

// Authenticate logs in with the configured credentials. Depending on the
// ERP version the result is either the bare user id or an object carrying it.
func (c *Client) Authenticate(ctx context.Context) (domain.ERPSession, error) {
	raw, err := c.call(ctx, "common", "authenticate", []any{c.database, c.login, c.apiKey, map[string]any{}})
	if err != nil {
		return domain.ERPSession{}, err
	}

	var uid int64
	if err := json.Unmarshal(raw, &uid); err == nil && uid > 0 {
		return domain.ERPSession{UID: uid, Context: map[string]any{}}, nil
	}

	var obj struct {
		UID         int64          `json:"uid"`
		UserContext map[string]any `json:"user_context"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.UID > 0 {
		return domain.ERPSession{UID: obj.UID, Context: obj.UserContext}, nil
	}

	return domain.ERPSession{}, &RemoteError{Message: "Failed to authenticate with ERP"}
}

// Invoke calls model.method with positional and named arguments, decoding
// the result into out when out is non-nil. A session the ERP refuses is
// dropped and the call is retried once with a fresh one.
func (c *Client) Invoke(ctx context.Context, model, method string, args []any, kwargs map[string]any, out any) error {
	raw, err := c.executeKW(ctx, model, method, args, kwargs)
	var remote *RemoteError
	if errors.As(err, &remote) && remote.sessionRejected() {
		if invErr := c.sessions.Invalidate(ctx); invErr == nil {
			raw, err = c.executeKW(ctx, model, method, args, kwargs)
		}
	}
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Err: fmt.Errorf("decode %s.%s result: %w", model, method, err)}
	}
	return nil
}

func (c *Client) executeKW(ctx context.Context, model, method string, args []any, kwargs map[string]any) (json.RawMessage, error) {
	session, err := c.sessions.Session(ctx)
	if err != nil {
		return nil, err
	}
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	return c.call(ctx, "object", "execute_kw", []any{c.database, session.UID, c.apiKey, model, method, args, kwargs})
}
