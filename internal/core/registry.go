package core

import (
	"context"
	"fmt"
)

// Registry holds all registered features and manages their lifecycle.
type Registry struct {
	features map[string]Feature
	order    []string
	logger   *Logger
}

// NewRegistry creates an empty feature registry.
func NewRegistry(logger *Logger) *Registry {
	return &Registry{
		features: make(map[string]Feature),
		logger:   logger,
	}
}

// Register adds a feature to the registry. Duplicate names are an error.
func (r *Registry) Register(feature Feature) error {
	name := feature.Name()
	if _, exists := r.features[name]; exists {
		return fmt.Errorf("feature %q already registered", name)
	}
	r.features[name] = feature
	r.order = append(r.order, name)
	return nil
}

// Get returns a registered feature by name.
func (r *Registry) Get(name string) (Feature, bool) {
	f, ok := r.features[name]
	return f, ok
}

// ListEnabled returns all enabled features in registration order.
func (r *Registry) ListEnabled() []Feature {
	var enabled []Feature
	for _, name := range r.order {
		if f := r.features[name]; f.Enabled() {
			enabled = append(enabled, f)
		}
	}
	return enabled
}

// InitAll initialises every enabled feature in registration order.
func (r *Registry) InitAll(ctx context.Context, deps *Dependencies) error {
	for _, f := range r.ListEnabled() {
		r.logger.Info("Initialising feature", "feature", f.Name())
		if err := f.Init(ctx, deps); err != nil {
			return fmt.Errorf("failed to init feature %q: %w", f.Name(), err)
		}
	}
	return nil
}

// ShutdownAll shuts down every enabled feature in reverse registration order.
func (r *Registry) ShutdownAll(ctx context.Context) error {
	enabled := r.ListEnabled()
	var firstErr error
	for i := len(enabled) - 1; i >= 0; i-- {
		f := enabled[i]
		if err := f.Shutdown(ctx); err != nil {
			r.logger.Error("Feature shutdown failed", "feature", f.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// GetAllRoutes collects the routes of every enabled feature.
func (r *Registry) GetAllRoutes() []Route {
	var routes []Route
	for _, f := range r.ListEnabled() {
		routes = append(routes, f.Routes()...)
	}
	return routes
}
