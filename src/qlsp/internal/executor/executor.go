package executor

import (
	"os/exec"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides a module to inject using fx.
var Module = fx.Options(
	fx.Provide(func(logger *zap.SugaredLogger) Executor {
		return NewExecutor(WithLogger(logger.With("plugin", "executor")))
	}),
)

// Executor wraps the execution of "os/exec".Cmd's to allow adding logs/metrics to
// each exec and makes it easier to test.
type Executor interface {
	// Start logs and starts the Cmd with the given environment without waiting for it to exit.
	Start(cmd *exec.Cmd, env []string) error
}

type executorImp struct {
	Logger    *zap.SugaredLogger
	// StartFunc may be nil to use executorImp in tests.
	StartFunc func(cmd *exec.Cmd) error
}

// Option defines options to customize executorImp's behavior
type Option func(*executorImp)

// WithLogger overrides the default noop logger
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(executor *executorImp) {
		executor.Logger = logger
	}
}

// WithStartFunc overrides how long-lived commands are started.
func WithStartFunc(startFunc func(cmd *exec.Cmd) error) Option {
	return func(executor *executorImp) {
		executor.StartFunc = startFunc
	}
}

// NewExecutor creates an Executor backed by os/exec.
func NewExecutor(opts ...Option) Executor {
	executor := &executorImp{
		Logger:    zap.NewNop().Sugar(),
		StartFunc: func(cmd *exec.Cmd) error { return cmd.Start() },
	}
	for _, opt := range opts {
		opt(executor)
	}
	return executor
}

func (l *executorImp) Start(cmd *exec.Cmd, env []string) error {
	l.logCommand("Start", cmd)

	if l.StartFunc == nil {
		l.Logger.Warn("missing StartFunc - skipped execution")
		return nil
	}

	cmd.Env = env
	return l.StartFunc(cmd)
}

// Environment values are left out of the log since they may carry proxy credentials.
func (l *executorImp) logCommand(msg string, cmd *exec.Cmd) {
	l.Logger.Infow(msg,
		"Path", cmd.Path,
		"Dir", cmd.Dir,
		"Args", cmd.Args[1:], // First arg is always the command itself
	)
}
