// Package environment defines the application environment names shared by
// configuration and logging.
package environment

import "context"

// Environment represents the application environment.
type Environment string

const (
	// Development for local development.
	Development Environment = "development"
	// Staging for pre-production.
	Staging Environment = "staging"
	// Production for production.
	Production Environment = "production"
)

type contextKey struct{}

// WithContext adds the environment to the context.
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext retrieves the environment from the context. An untagged
// context counts as Development.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return Development
	}
	if env, ok := ctx.Value(contextKey{}).(Environment); ok {
		return env
	}
	return Development
}

// IsProduction checks if the environment from context is production.
func IsProduction(ctx context.Context) bool {
	return FromContext(ctx) == Production
}

// IsDevelopment checks if the environment from context is development.
func IsDevelopment(ctx context.Context) bool {
	return FromContext(ctx) == Development
}
