package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/snooze/internal/domain"
)

const (
	UserAgent = "snooze/1.0"
	// MaxResponseSize bounds how much of a response body is read.
	MaxResponseSize = 4 << 20
)

//go:generate go tool mockgen -destination=../mocks/mock_client.go -package=mocks github.com/sidereusnuntius/snooze/internal/client API

// API is the set of operations offered by the stories backend.
type API interface {
	GetStories(ctx context.Context, skip, limit int) ([]domain.Story, error)
	GetStory(ctx context.Context, id string) (domain.Story, error)
	AddStory(ctx context.Context, creds domain.Credentials, story domain.NewStory) (domain.Story, error)
	DeleteStory(ctx context.Context, creds domain.Credentials, id string) (domain.Story, error)
	// Login and SignUp return the user with their token set.
	Login(ctx context.Context, username, password string) (domain.User, error)
	SignUp(ctx context.Context, username, password, name string) (domain.User, error)
	GetUser(ctx context.Context, creds domain.Credentials) (domain.User, error)
	AddFavorite(ctx context.Context, creds domain.Credentials, storyID string) (domain.User, error)
	RemoveFavorite(ctx context.Context, creds domain.Credentials, storyID string) (domain.User, error)
}

// HttpClient talks to the stories API over HTTP. Reads are retried on network errors and server
// errors; writes are sent exactly once.
type HttpClient struct {
	base       *url.URL
	rq         *requester.Requester
	attempts   uint
	retryDelay time.Duration
}

func New(base *url.URL, client *http.Client, attempts uint) *HttpClient {
	if attempts == 0 {
		attempts = 1
	}

	rq := requester.New(*client,
		middleware.Header("User-Agent", UserAgent),
		middleware.Header("Accept", "application/json"),
		Metrics,
		Logging(log.Logger),
	)

	return &HttpClient{
		base:       base,
		rq:         rq,
		attempts:   attempts,
		retryDelay: 200 * time.Millisecond,
	}
}

type request struct {
	endpoint string
	method   string
	path     []string
	query    url.Values
	body     any
	// idempotent requests are retried.
	idempotent bool
}

func (c *HttpClient) do(ctx context.Context, r request, out any) error {
	var payload []byte
	if r.body != nil {
		var err error
		if payload, err = json.Marshal(r.body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	u := c.base.JoinPath(r.path...)
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}
	ctx = withEndpoint(ctx, r.endpoint)

	attempt := func() error {
		return c.send(ctx, r.method, u, payload, out)
	}
	if !r.idempotent {
		return attempt()
	}

	return retry.Do(attempt,
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.Temporary()
			}
			return ctx.Err() == nil
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).
				Str("endpoint", r.endpoint).
				Uint("attempt", n+1).
				Msg("retrying stories api request")
		}),
	)
}

func (c *HttpClient) send(ctx context.Context, method string, u *url.URL, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.rq.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	defer res.Body.Close()

	content, err := io.ReadAll(io.LimitReader(res.Body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if res.StatusCode >= http.StatusBadRequest {
		return decodeError(res.StatusCode, content)
	}

	if out == nil || len(content) == 0 {
		return nil
	}
	if err = json.Unmarshal(content, out); err != nil {
		log.Error().Err(err).Bytes("response", content).Msg("response body unmarshaling error")
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(status int, content []byte) error {
	var res errorResponse
	if err := json.Unmarshal(content, &res); err != nil || res.Error.Status == 0 {
		res.Error = APIError{
			Status:  status,
			Title:   http.StatusText(status),
			Message: string(bytes.TrimSpace(content)),
		}
	}
	// The body may disagree with the status line; the status line wins.
	res.Error.Status = status
	return &res.Error
}

type endpointKey struct{}

func withEndpoint(ctx context.Context, endpoint string) context.Context {
	return context.WithValue(ctx, endpointKey{}, endpoint)
}

func endpoint(ctx context.Context) string {
	if e, ok := ctx.Value(endpointKey{}).(string); ok {
		return e
	}
	return "unknown"
}
