package container

import "fmt"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider is the unit of composition: each subsystem of the plugin
// (config, routing, stats collectors, cleaners, ...) ships one.
//
// Register binds services into the container and must not resolve other
// bindings; Boot runs after every provider has registered, so it may resolve
// services owned by other providers. Both run at most once per provider.
//
//	type StatsServiceProvider struct{ container.BaseProvider }
//
//	func (p *StatsServiceProvider) Register(app *container.Container) error {
//	    app.Singleton("db.stats", func(c *container.Container) (any, error) {
//	        cfg, err := container.Resolve[*config.Config](c, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return stats.NewCollector(cfg), nil
//	    })
//	    return nil
//	}
//
//	func (p *StatsServiceProvider) Boot(app *container.Container) error {
//	    log, err := container.Resolve[*zap.Logger](app, "log")
//	    if err != nil {
//	        return err
//	    }
//	    log.Info("stats collectors ready")
//	    return nil
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here — use Boot() for that.
	Register(app *Container) error

	// Boot is called after all providers are registered.
	// Safe to resolve and use any binding here.
	Boot(app *Container) error

	// Provides returns the identifiers this provider registers. Required
	// for deferred providers; eager providers may return nil.
	Provides() []string

	// IsDeferred reports whether this provider is loaded lazily — its
	// Register() is postponed until one of its Provides() identifiers is
	// first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op implementations of Boot(),
// Provides() and IsDeferred(). Embed it and override only what you need.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry tracks service providers through the two-phase
// register/boot lifecycle. Eager providers register immediately; deferred
// providers are only indexed by the identifiers they provide, and register
// the first time one of those identifiers is resolved. Register() and Boot()
// each run at most once per provider, in registration order, regardless of
// how often the container's Boot() is called or how many deferred
// identifiers are requested.
type ProviderRegistry struct {
	app *Container

	// providers whose Register() has run, in order
	loaded []ServiceProvider

	// identifier → deferred provider that has not registered yet
	deferred map[string]ServiceProvider

	// providers handed to Register(), whether or not their Register() ran
	seen map[ServiceProvider]bool

	// providers whose Register() has run
	registered map[ServiceProvider]bool

	// providers whose Boot() has run
	booted map[ServiceProvider]bool

	bootedAll bool
}

func newProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		seen:       make(map[ServiceProvider]bool),
		registered: make(map[ServiceProvider]bool),
		booted:     make(map[ServiceProvider]bool),
	}
}

// Register adds a provider. Deferred providers are indexed and left alone;
// eager providers register now and, if the registry has already booted, boot
// now as well. Registering the same provider twice is a no-op.
func (r *ProviderRegistry) Register(p ServiceProvider) error {
	if r.seen[p] {
		return nil
	}
	r.seen[p] = true

	if p.IsDeferred() {
		for _, id := range p.Provides() {
			r.deferred[id] = p
		}
		return nil
	}

	if err := r.registerProvider(p); err != nil {
		return err
	}
	if r.bootedAll {
		return r.bootProvider(p)
	}
	return nil
}

// loadDeferred registers the deferred provider owning key, if any. The
// provider's whole Provides() set is un-indexed first, so requesting a
// second identifier of the same provider never re-runs Register(). A
// provider that registers after the registry booted is booted immediately.
func (r *ProviderRegistry) loadDeferred(key string) error {
	p, ok := r.deferred[key]
	if !ok {
		return nil
	}
	for _, id := range p.Provides() {
		delete(r.deferred, id)
	}

	if err := r.registerProvider(p); err != nil {
		return err
	}
	if r.bootedAll {
		return r.bootProvider(p)
	}
	return nil
}

// provides reports whether key is owned by a not-yet-registered deferred
// provider, so Has() can answer true before anything is bound.
func (r *ProviderRegistry) provides(key string) bool {
	_, ok := r.deferred[key]
	return ok
}

// registerProvider runs p.Register exactly once.
func (r *ProviderRegistry) registerProvider(p ServiceProvider) error {
	if r.registered[p] {
		return nil
	}
	r.registered[p] = true
	if err := p.Register(r.app); err != nil {
		return &ContainerError{ID: providerName(p), Cause: err}
	}
	r.loaded = append(r.loaded, p)
	return nil
}

// bootProvider runs p.Boot exactly once, after p has registered.
func (r *ProviderRegistry) bootProvider(p ServiceProvider) error {
	if r.booted[p] {
		return nil
	}
	r.booted[p] = true
	if err := p.Boot(r.app); err != nil {
		return &ContainerError{ID: providerName(p), Cause: err}
	}
	return nil
}

// Boot transitions the registry to booted and runs Boot() on every provider
// that has registered, in registration order. Idempotent: a second call is a
// no-op. Deferred providers that load later are booted as they load.
func (r *ProviderRegistry) Boot() error {
	if r.bootedAll {
		return nil
	}
	r.bootedAll = true
	for _, p := range r.loaded {
		if err := r.bootProvider(p); err != nil {
			return err
		}
	}
	return nil
}

// Booted reports whether Boot() has run.
func (r *ProviderRegistry) Booted() bool { return r.bootedAll }

// Providers returns the providers whose Register() has run, in order.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.loaded }

func providerName(p ServiceProvider) string {
	return fmt.Sprintf("%T", p)
}
