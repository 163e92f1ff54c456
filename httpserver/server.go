package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/net/netutil"
	"golang.org/x/time/rate"

	"cartelera/errs"
	"cartelera/movie"
	"cartelera/pkg/logger"
	"cartelera/pkg/sentry"
)

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	// Backlog caps simultaneously accepted connections; zero means no cap.
	Backlog int

	// KeepAlive is how long an idle keep-alive connection is kept open.
	KeepAlive time.Duration

	// RateLimit is the allowed requests per second per client IP; zero disables it.
	RateLimit float64

	Logger *slog.Logger

	MovieService movie.Service
}

const defaultRateLimit = 20

// route is one entry of the route table.
type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
}

func New(options ...Options) (*Server, error) {
	s := Server{
		Router: echo.New(),
		Addr:      ":8080",
		Logger:    logger.NOOPLogger,
		RateLimit: defaultRateLimit,
	}
	s.Router.HideBanner = true
	s.Router.HidePort = true

	for _, fn := range options {
		if err := fn(&s); err != nil {
			return nil, err
		}
	}

	s.Router.HTTPErrorHandler = s.handleError
	s.RegisterGlobalMiddlewares()
	s.RegisterRoutes()
	return &s, nil
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	if s.RateLimit > 0 {
		s.Router.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(s.RateLimit))))
	}

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.AllowOrigins,
		}))
	}
}

func (s *Server) routes() []route {
	return []route{
		{http.MethodGet, "/", s.handleListings},
		{http.MethodGet, "/simple/", s.handleSimpleListings},
		{http.MethodGet, "/healthcheck", s.healthCheck},
	}
}

func (s *Server) RegisterRoutes() {
	for _, r := range s.routes() {
		s.Router.Add(r.method, r.path, r.handler)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// Start listens on Addr and serves until Shutdown is called.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	if s.Backlog > 0 {
		ln = netutil.LimitListener(ln, s.Backlog)
	}
	s.Router.Listener = ln
	s.Router.Server.IdleTimeout = s.KeepAlive
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

// handleError writes {"detail": ...} with the status matching err. Failures of
// the listings page keep the upstream status; anything unexpected becomes a
// plain 500.
func (s *Server) handleError(err error, c echo.Context) {
	status, detail := statusOf(err)

	if status >= http.StatusInternalServerError {
		s.Logger.ErrorContext(c.Request().Context(), "request failed",
			"error", err,
			"status", status,
			"path", c.Request().URL.Path,
			"request_id", s.requestID(c),
		)
		sentry.WithContext(c).
			WithTags(map[string]string{"status": strconv.Itoa(status)}).
			WithExtras(upstreamExtras(err)).
			Error(err)
	}

	// Don't write response if already committed
	if c.Response().Committed {
		return
	}
	if err := writeDetail(c, status, detail); err != nil {
		s.Logger.ErrorContext(c.Request().Context(), "write error response", "error", err)
	}
}

func statusOf(err error) (int, string) {
	var he *echo.HTTPError
	var upstream *movie.UpstreamError
	var fetch *movie.FetchError

	switch {
	case errors.As(err, &he):
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	case errors.As(err, &upstream):
		if text := http.StatusText(upstream.StatusCode); text != "" {
			return upstream.StatusCode, text
		}
		return http.StatusBadGateway, http.StatusText(http.StatusBadGateway)
	case errors.As(err, &fetch):
		if fetch.Timeout {
			return http.StatusGatewayTimeout, http.StatusText(http.StatusGatewayTimeout)
		}
		return http.StatusBadGateway, http.StatusText(http.StatusBadGateway)
	}

	// Map application error codes to HTTP status codes
	switch errs.ErrorCode(err) {
	case errs.EINVALID:
		return http.StatusBadRequest, errs.ErrorMessage(err)
	case errs.ENOTIMPLEMENTED:
		return http.StatusNotImplemented, errs.ErrorMessage(err)
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

// upstreamExtras describes the listings page request behind err, if any.
func upstreamExtras(err error) map[string]interface{} {
	var upstream *movie.UpstreamError
	var fetch *movie.FetchError
	switch {
	case errors.As(err, &upstream):
		return map[string]interface{}{"url": upstream.URL, "upstream_status": upstream.StatusCode}
	case errors.As(err, &fetch):
		return map[string]interface{}{"url": fetch.URL, "timeout": fetch.Timeout}
	}
	return nil
}

func (s *Server) requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
