package logger

import (
	"go.uber.org/zap"
)

// NOOPLogger discards everything. It is the default for servers and tests
// that are not given a logger.
var NOOPLogger = zap.NewNop().Sugar()

// New builds a sugared logger: human readable output for the local
// environment, JSON everywhere else.
func New(appEnv string) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if appEnv == "local" {
		cfg = zap.NewDevelopmentConfig()
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar().With("app_env", appEnv), nil
}
