package httpserver

import (
	"errors"
	"log/slog"
	"time"

	"cartelera/movie"
	"cartelera/pkg/config"
)

type Options func(s *Server) error

// WithConfig applies the application settings.
func WithConfig(cfg *config.Config) Options {
	return func(s *Server) error {
		if cfg == nil {
			return errors.New("httpserver: nil config")
		}
		s.AllowOrigins = splitOrigins(cfg.AllowOrigins)
		s.RateLimit = cfg.RateLimit
		return nil
	}
}

// WithServerConfig applies the validated server runtime options.
func WithServerConfig(cfg config.ServerConfig) Options {
	return func(s *Server) error {
		s.Addr = cfg.Addr()
		s.Backlog = cfg.Backlog
		s.KeepAlive = time.Duration(cfg.TimeoutKeepAlive) * time.Second
		s.Router.Debug = cfg.Debug
		return nil
	}
}

func WithLogger(l *slog.Logger) Options {
	return func(s *Server) error {
		s.Logger = l
		return nil
	}
}

func WithMovieService(svc movie.Service) Options {
	return func(s *Server) error {
		s.MovieService = svc
		return nil
	}
}
