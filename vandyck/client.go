package vandyck

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"cartelera/movie"
	"cartelera/pkg/logger"
)

const (
	DefaultURL     = "https://www.cinesvandycktormes.com/cartelera"
	DefaultTimeout = 2 * time.Second

	maxRedirects = 10
	userAgent    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
)

// Client fetches the listings page and extracts its movies.
// It implements movie.Repository.
type Client struct {
	URL       string
	Extractor *Extractor

	http   *resty.Client
	logger *slog.Logger
}

type Option func(c *Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func WithLabels(l Labels) Option {
	return func(c *Client) {
		c.Extractor.Labels = l
	}
}

// NewClient returns a client for the page at url. Redirects are followed and
// every fetch is bounded by DefaultTimeout unless WithTimeout says otherwise.
func NewClient(url string, options ...Option) *Client {
	if url == "" {
		url = DefaultURL
	}
	c := &Client{
		URL:       url,
		Extractor: NewExtractor(),
		http: resty.New().
			SetTimeout(DefaultTimeout).
			SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects)).
			SetHeader("User-Agent", userAgent),
		logger: logger.NOOPLogger,
	}
	for _, fn := range options {
		fn(c)
	}

	c.http.OnBeforeRequest(c.onBeforeRequest)
	c.http.OnAfterResponse(c.onAfterResponse)
	c.http.OnError(c.onError)
	return c
}

// Fetch returns the raw page body. A status other than 200 yields a
// *movie.UpstreamError and a transport failure a *movie.FetchError.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(c.URL)
	if err != nil {
		return nil, &movie.FetchError{URL: c.URL, Timeout: isTimeout(err), Err: err}
	}
	if res.StatusCode() != http.StatusOK {
		return nil, &movie.UpstreamError{URL: c.URL, StatusCode: res.StatusCode()}
	}
	return res.Body(), nil
}

func (c *Client) Listings(ctx context.Context) ([]movie.Movie, error) {
	body, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	movies, err := c.Extractor.Parse(bytes.NewReader(body))
	if err != nil {
		c.logger.ErrorContext(ctx, "extract listings", "url", c.URL, "error", err)
		return nil, err
	}
	c.logger.DebugContext(ctx, "extracted listings", "url", c.URL, "movies", len(movies))
	return movies, nil
}

func (c *Client) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	c.logger.DebugContext(req.Context(), "start request", "method", req.Method, "url", req.URL)
	return nil
}

func (c *Client) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	c.logger.DebugContext(res.Request.Context(), "request finished",
		"method", res.Request.Method,
		"url", res.Request.URL,
		"status", res.StatusCode(),
		"duration", res.Time(),
	)
	return nil
}

func (c *Client) onError(req *resty.Request, err error) {
	c.logger.ErrorContext(req.Context(), "request failed", "method", req.Method, "url", req.URL, "error", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
