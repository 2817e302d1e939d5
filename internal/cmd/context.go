package cmd

import (
	"context"

	"github.com/jmgilman/codeweaver/internal/config"
	"github.com/jmgilman/codeweaver/internal/exec"
	"github.com/jmgilman/codeweaver/internal/prompt"
)

type contextKey string

const (
	configKey    contextKey = "config"
	loaderKey    contextKey = "loader"
	executorKey  contextKey = "executor"
	prompterKey  contextKey = "prompter"
	verbosityKey contextKey = "verbosity"
)

// WithConfig adds the config to the context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// ConfigFromContext retrieves the config from context.
func ConfigFromContext(ctx context.Context) *config.Config {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok {
		return nil
	}
	return cfg
}

// WithLoader adds the config loader to the context.
func WithLoader(ctx context.Context, loader *config.Loader) context.Context {
	return context.WithValue(ctx, loaderKey, loader)
}

// LoaderFromContext retrieves the config loader from context.
func LoaderFromContext(ctx context.Context) *config.Loader {
	loader, ok := ctx.Value(loaderKey).(*config.Loader)
	if !ok {
		return nil
	}
	return loader
}

// WithExecutor adds the command executor to the context.
func WithExecutor(ctx context.Context, e exec.Executor) context.Context {
	return context.WithValue(ctx, executorKey, e)
}

// ExecutorFromContext retrieves the executor, falling back to the OS one.
func ExecutorFromContext(ctx context.Context) exec.Executor {
	if e, ok := ctx.Value(executorKey).(exec.Executor); ok && e != nil {
		return e
	}
	return exec.New()
}

// WithPrompter adds the prompter to the context.
func WithPrompter(ctx context.Context, p prompt.Prompter) context.Context {
	return context.WithValue(ctx, prompterKey, p)
}

// PrompterFromContext retrieves the prompter, falling back to huh.
func PrompterFromContext(ctx context.Context) prompt.Prompter {
	if p, ok := ctx.Value(prompterKey).(prompt.Prompter); ok && p != nil {
		return p
	}
	return prompt.New()
}

// WithVerbosity records the -v count.
func WithVerbosity(ctx context.Context, v int) context.Context {
	return context.WithValue(ctx, verbosityKey, v)
}

// VerbosityFromContext returns the -v count, zero when unset.
func VerbosityFromContext(ctx context.Context) int {
	v, _ := ctx.Value(verbosityKey).(int)
	return v
}
