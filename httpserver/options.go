package httpserver

import (
	"errors"
	"fmt"

	"moviecatalog/pkg/config"

	"go.uber.org/zap"
)

type Options func(s *Server) error

// WithConfig applies cfg; the listen address and CORS origins follow it.
func WithConfig(cfg *config.Config) Options {
	return func(s *Server) error {
		if cfg == nil {
			return errors.New("httpserver: nil config")
		}
		s.Config = cfg
		if cfg.Port > 0 {
			s.Addr = fmt.Sprintf(":%d", cfg.Port)
		}
		s.AllowOrigins = cfg.Origins()
		return nil
	}
}

func WithLogger(l *zap.SugaredLogger) Options {
	return func(s *Server) error {
		if l == nil {
			return errors.New("httpserver: nil logger")
		}
		s.Logger = l
		return nil
	}
}

func WithHealthChecker(h HealthChecker) Options {
	return func(s *Server) error {
		s.Health = h
		return nil
	}
}
