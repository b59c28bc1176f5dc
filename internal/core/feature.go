package core

import (
	"context"
	"net/http"
)

// Feature is a self-contained application module that owns its own
// migrations, services and HTTP routes.
type Feature interface {
	// Name returns the unique name of the feature.
	Name() string

	// Init wires the feature's services and applies its migrations.
	Init(ctx context.Context, deps *Dependencies) error

	// Routes returns the HTTP routes the feature exposes.
	Routes() []Route

	// Shutdown releases any resources the feature holds.
	Shutdown(ctx context.Context) error

	// Enabled reports whether the feature should run.
	Enabled() bool
}

// Dependencies bundles the shared infrastructure handed to features.
type Dependencies struct {
	Database *Database
	Logger   *Logger
	Config   *Config
}

// Route describes a single HTTP endpoint contributed by a feature.
type Route struct {
	Method      string
	Pattern     string
	Handler     http.HandlerFunc
	Middlewares []func(http.Handler) http.Handler
}

// BaseFeature provides common plumbing for features.
type BaseFeature struct {
	name    string
	enabled bool
	deps    *Dependencies
}

// NewBaseFeature creates a base feature with the given name and enabled state.
func NewBaseFeature(name string, enabled bool) *BaseFeature {
	return &BaseFeature{
		name:    name,
		enabled: enabled,
	}
}

func (f *BaseFeature) Name() string {
	return f.name
}

func (f *BaseFeature) Enabled() bool {
	return f.enabled
}

// SetDependencies stores the shared dependencies for later use.
func (f *BaseFeature) SetDependencies(deps *Dependencies) {
	f.deps = deps
}

// Dependencies returns the stored dependencies.
func (f *BaseFeature) Dependencies() *Dependencies {
	return f.deps
}
