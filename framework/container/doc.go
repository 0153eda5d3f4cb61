// Package container provides the IoC (Inversion of Control) container and
// Service Provider system that wires the SitePulse plugin together.
//
// # Overview
//
// The container manages the instantiation and lifecycle of every service the
// plugin uses: stats collectors, cleanup actions, the admin router, config,
// logging. Nothing else in the codebase holds global state; subsystems are
// registered into one container by service providers and consumed through
// its Get/Has contract.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: c.Register(&StatsServiceProvider{})
//  3. Boot: c.Boot()        — safe to resolve everything after this
//  4. Serve requests
//  5. Flush (tests): c.Flush() — back to a fresh, unbooted container
//
// # Bindings
//
//	// Transient — new value on every Get()
//	c.Bind("report.generator", func(c *container.Container) (any, error) {
//	    return report.NewGenerator(), nil
//	})
//
//	// Singleton — created once, reused
//	c.Singleton("db.stats", func(c *container.Container) (any, error) {
//	    cfg, err := container.Resolve[*config.Config](c, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return stats.NewCollector(cfg), nil
//	})
//
//	// Pre-built value
//	c.Instance("config", cfg)
//
//	// Alias — chains of any depth resolve to the final target
//	c.Alias("configuration", "config")
//
// # Resolving
//
//	// Untyped
//	raw, err := c.Get("db.stats")
//
//	// Generic (preferred — no type assertion required)
//	collector, err := container.Resolve[*stats.Collector](c, "db.stats")
//
// Every failure is a typed, recoverable error: NotFoundError for an unknown
// identifier, ContainerError wrapping a factory or provider failure,
// CircularDependencyError for a factory cycle, CircularAliasError for an
// alias cycle. After any error the container is exactly as it was before the
// failing call.
//
// # Auto-wiring
//
// Identifiers with no explicit binding can name a Wire()d concrete type; the
// container inspects its constructor parameters (struct `inject` tags or
// constructor-function inputs) once, caches the descriptor, and resolves
// each parameter recursively. Unresolvable nullable parameters get nil,
// `default` tagged fields get their default, anything else is NotFoundError.
//
// # Service Providers
//
// Providers split composition into a Register phase (pure binding
// declarations) and a Boot phase (side effects that may resolve services
// from other providers). Deferred providers postpone Register() until one of
// their declared identifiers is first resolved — see ServiceProvider and
// ProviderRegistry.
//
// # Concurrency
//
// The container is synchronous and single-threaded by design: one container
// per unit of work, no locks, no suspension points. Sharing a mutable
// container across goroutines requires external synchronization.
package container
