package sentry

import (
	"sync/atomic"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"

	"cartelera/pkg/config"
)

// FlushTime bounds how long Flush waits for buffered events.
var FlushTime = 2 * time.Second

var reporting atomic.Bool

// Init sets up the sentry client from cfg. Events are only sent when the
// environment is not local and a DSN is configured.
func Init(cfg *config.Config) error {
	on := cfg.AppEnv != "local" && cfg.SentryDSN != ""
	reporting.Store(on)
	if !on {
		return nil
	}
	return sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
}

// Flush waits up to FlushTime for buffered events.
func Flush() {
	if reporting.Load() {
		sentrygo.Flush(FlushTime)
	}
}

// Sentry builds a single event. Each With* call returns the same instance.
type Sentry struct {
	context echo.Context
	extras  map[string]interface{}
	tags    map[string]string
}

func WithContext(c echo.Context) *Sentry {
	return new(Sentry).WithContext(c)
}

func (s *Sentry) WithContext(c echo.Context) *Sentry {
	s.context = c
	return s
}

func (s *Sentry) WithExtras(extras map[string]interface{}) *Sentry {
	s.extras = extras
	return s
}

func (s *Sentry) WithTags(tags map[string]string) *Sentry {
	s.tags = tags
	return s
}

func (s *Sentry) Error(err error) {
	if !reporting.Load() || err == nil {
		return
	}
	hub := s.getHub()
	hub.WithScope(func(scope *sentrygo.Scope) {
		s.configScope(scope)
		hub.CaptureException(err)
	})
}

func Error(err error) { new(Sentry).Error(err) }

func (s *Sentry) getHub() *sentrygo.Hub {
	if s.context != nil {
		if hub := sentryecho.GetHubFromContext(s.context); hub != nil {
			return hub
		}
	}
	return sentrygo.CurrentHub()
}

func (s *Sentry) configScope(scope *sentrygo.Scope) {
	scope.SetLevel(sentrygo.LevelError)
	if len(s.extras) > 0 {
		scope.SetExtras(s.extras)
	}
	if len(s.tags) > 0 {
		scope.SetTags(s.tags)
	}
	if s.context != nil && s.context.Request() != nil {
		scope.SetRequest(s.context.Request())
	}
}
