// Package catalog is the HTTP client for the Rick and Morty character API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/mmcdole/citadel/internal/domain"
)

const (
	DefaultBaseURL   = "https://rickandmortyapi.com/api"
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "Citadel/1.0"
)

// Options configures a Client. Zero values select defaults.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables client-side limiting
	UserAgent         string
}

// Client implements domain.CatalogClient
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

var _ domain.CatalogClient = (*Client)(nil)

// NewClient creates a new catalog client
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), max(1, int(opts.RequestsPerSecond)))
	}

	logger = logger.With("component", "catalog")
	r := resty.New().
		SetLogger(restyLogger{logger}).
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", opts.UserAgent)

	return &Client{
		resty:   r,
		limiter: limiter,
		logger:  logger,
	}
}

// FetchPage returns one page of characters matching req. The API answers a
// search without matches with 404; that is returned as an empty page.
func (c *Client) FetchPage(ctx context.Context, req domain.PageRequest) (domain.Page, error) {
	params := req.Params()
	number, _ := strconv.Atoi(params.Get("page"))

	var body PageResponse
	resp, err := c.get(ctx, "/character", func(r *resty.Request) {
		r.SetQueryParamsFromValues(params).SetResult(&body)
	})
	if err != nil {
		return domain.Page{}, err
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		c.logger.Debug("no matches", "query", params.Encode())
		return domain.EmptyPage(number), nil
	case !resp.IsSuccess():
		c.logger.Error("catalog search failed", "status", resp.StatusCode(), "query", params.Encode())
		return domain.Page{}, &domain.RemoteFetchError{StatusCode: resp.StatusCode()}
	}

	return MapPage(body, number), nil
}

// GetCharacter returns a single character. An unknown id yields an error
// matching domain.ErrCharacterNotFound.
func (c *Client) GetCharacter(ctx context.Context, id int) (*domain.Character, error) {
	var body Character
	resp, err := c.get(ctx, "/character/{id}", func(r *resty.Request) {
		r.SetPathParam("id", strconv.Itoa(id)).SetResult(&body)
	})
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		c.logger.Debug("character lookup failed", "id", id, "status", resp.StatusCode())
		return nil, &domain.RemoteFetchError{StatusCode: resp.StatusCode()}
	}

	character := MapCharacter(body)
	return &character, nil
}

// get waits for the limiter and performs a GET. Cancellation is reported as
// ctx.Err() so callers can tell it apart from failures.
func (c *Client) get(ctx context.Context, path string, build func(*resty.Request)) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	r := c.resty.R().
		SetContext(ctx).
		SetError(&ErrorResponse{}).
		ForceContentType("application/json")
	build(r)

	c.logger.Debug("catalog request", "path", path)
	start := time.Now()

	resp, err := r.Get(path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if resp != nil && resp.RawResponse != nil && isDecodeError(err) {
			// The service answered but the body did not decode
			if resp.IsSuccess() {
				c.logger.Error("catalog response malformed", "path", path, "status", resp.StatusCode(), "error", err)
				return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
			}
			c.logger.Debug("catalog error body not decoded", "path", path, "status", resp.StatusCode(), "error", err)
			return resp, nil
		}
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("catalog request timed out", "path", path, "elapsed", time.Since(start))
		} else {
			c.logger.Error("catalog request failed", "path", path, "error", err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrServerOffline, err)
	}

	c.logger.Debug("catalog response", "path", path, "status", resp.StatusCode(), "elapsed", time.Since(start))
	return resp, nil
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

// restyLogger routes resty's internal messages into slog
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}
