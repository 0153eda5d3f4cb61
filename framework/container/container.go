package container

import (
	"fmt"
	"reflect"
	"sort"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory is a function that builds a concrete value from the container.
type Factory func(c *Container) (any, error)

// binding holds a registered factory and whether it is a singleton.
type binding struct {
	factory   Factory
	singleton bool
}

// Extender wraps an already-resolved instance with decorator logic.
type Extender func(instance any, c *Container) any

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container that wires the plugin's services together.
//
// It supports:
//   - Bind / Singleton / Instance / Alias
//   - Get / Has (typed errors, never panics on a missing binding)
//   - Auto-wiring of Wire()d concrete types
//   - Service providers, including deferred ones (see ProviderRegistry)
//   - Tags (group multiple abstractions under one tag)
//   - Extend (decorate / wrap resolved instances)
//   - Contextual binding (when A needs B, give it C)
//   - Rebound callbacks and resolved event callbacks
//
// A Container is not safe for concurrent use: each unit of work gets its own
// container (or Flush()es between units), and resolution is a synchronous,
// depth-first call chain. Callers that share one container across goroutines
// must synchronize externally.
type Container struct {
	// identifier → binding
	bindings map[string]*binding

	// identifier → resolved singleton / pre-built instance
	instances map[string]any

	// alias → target (one forwarding edge; chains are walked on resolution)
	aliases map[string]string

	// identifier → auto-wirable concrete prototype
	wired map[string]any

	// cached constructor descriptors, built once per concrete type
	descriptors map[reflect.Type]*typeDescriptor

	// identifier → extender funcs
	extenders map[string][]Extender

	// tag → []identifier
	tags map[string][]string

	// contextual: when[concrete][identifier] = factory
	contextual map[string]map[string]Factory

	// rebound callbacks: identifier → []func(any)
	reboundCallbacks map[string][]func(any)

	// resolved callbacks: []func(identifier, instance)
	afterResolving []func(string, any)

	// identifiers currently being resolved, in call order
	buildStack []string

	// membership set mirroring buildStack
	building map[string]bool

	providers *ProviderRegistry
}

// New creates an empty, unbooted container.
func New() *Container {
	c := &Container{
		bindings:         make(map[string]*binding),
		instances:        make(map[string]any),
		aliases:          make(map[string]string),
		wired:            make(map[string]any),
		descriptors:      make(map[reflect.Type]*typeDescriptor),
		extenders:        make(map[string][]Extender),
		tags:             make(map[string][]string),
		contextual:       make(map[string]map[string]Factory),
		reboundCallbacks: make(map[string][]func(any)),
		building:         make(map[string]bool),
	}
	c.providers = newProviderRegistry(c)
	// The container resolves itself, so factories can take it as a dependency.
	c.Instance("container", c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient factory: a fresh value is built on every Get.
//
//	c.Bind("report.generator", func(c *container.Container) (any, error) {
//	    return report.NewGenerator(), nil
//	})
func (c *Container) Bind(id string, factory Factory) {
	c.bind(id, factory, false)
}

// Singleton registers a factory whose result is cached after first resolution.
//
//	c.Singleton("db.stats", func(c *container.Container) (any, error) {
//	    cfg, err := container.Resolve[*config.Config](c, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return stats.NewCollector(cfg), nil
//	})
func (c *Container) Singleton(id string, factory Factory) {
	c.bind(id, factory, true)
}

// Instance registers a pre-built value. It takes precedence over any factory
// and is returned as-is from every Get.
func (c *Container) Instance(id string, instance any) {
	key := c.registrationKey(id)
	delete(c.bindings, key)
	delete(c.wired, key)
	c.instances[key] = instance
	c.fireRebound(key, instance)
}

// bind is the shared registration path for Bind and Singleton.
func (c *Container) bind(id string, factory Factory, singleton bool) {
	key := c.registrationKey(id)

	// Drop any cached instance so the new factory actually runs.
	_, wasResolved := c.instances[key]
	delete(c.instances, key)

	c.bindings[key] = &binding{factory: factory, singleton: singleton}

	// Rebinding an already-resolved identifier notifies watchers with a value
	// from the new factory. Only resolve when someone is actually listening,
	// so a rebind never burns a hidden factory invocation.
	if wasResolved && len(c.reboundCallbacks[key]) > 0 {
		if v, err := c.Get(key); err == nil {
			c.fireRebound(key, v)
		}
	}
}

// Alias registers an alternative name that forwards to target. Chains of any
// depth are allowed (a→b→c); cycles are detected while the chain is walked,
// not at registration, and surface as CircularAliasError.
func (c *Container) Alias(name, target string) {
	c.aliases[name] = target
}

// registrationKey resolves an alias chain for a registration call so that
// e.g. Singleton("configuration", ...) lands on the key "configuration"
// forwards to. A cyclic chain falls back to the raw id; the cycle surfaces
// on Get.
func (c *Container) registrationKey(id string) string {
	key, err := c.canonical(id)
	if err != nil {
		return id
	}
	return key
}

// canonical walks the alias chain from id to its final non-alias identifier.
func (c *Container) canonical(id string) (string, error) {
	if _, ok := c.aliases[id]; !ok {
		return id, nil
	}
	visited := map[string]bool{}
	chain := []string{id}
	key := id
	for {
		target, ok := c.aliases[key]
		if !ok {
			return key, nil
		}
		if visited[key] {
			return "", &CircularAliasError{ID: key, Chain: chain}
		}
		visited[key] = true
		chain = append(chain, target)
		key = target
	}
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves an identifier through the full pipeline:
// alias chain → instance cache → contextual binding → deferred provider →
// binding store → auto-wirer. On failure it returns one of NotFoundError,
// ContainerError, CircularDependencyError or CircularAliasError, and leaves
// the container's stores exactly as they were before the call.
func (c *Container) Get(id string) (any, error) {
	key, err := c.canonical(id)
	if err != nil {
		return nil, err
	}

	if inst, ok := c.instances[key]; ok {
		return inst, nil
	}

	// Contextual binding: the identifier at the top of the build stack may
	// have asked for its own implementation of key.
	if len(c.buildStack) > 0 {
		caller := c.buildStack[len(c.buildStack)-1]
		if f := c.contextualFactory(caller, key); f != nil {
			return c.build(key, f, false)
		}
	}

	// A deferred provider owning key registers on first use.
	if err := c.providers.loadDeferred(key); err != nil {
		return nil, err
	}
	if inst, ok := c.instances[key]; ok {
		return inst, nil
	}

	if b, ok := c.bindings[key]; ok {
		return c.build(key, b.factory, b.singleton)
	}

	if proto, ok := c.wired[key]; ok {
		return c.build(key, c.autowireFactory(key, proto), false)
	}

	return nil, &NotFoundError{ID: key}
}

// MustGet is Get for composition roots that treat a missing service as fatal.
func (c *Container) MustGet(id string) any {
	v, err := c.Get(id)
	if err != nil {
		panic(err)
	}
	return v
}

// build runs a factory for key with cycle detection and stack bookkeeping.
// The stack entry is removed on success, error and panic alike, so a failed
// resolution never poisons a later one.
func (c *Container) build(key string, f Factory, singleton bool) (result any, err error) {
	if c.building[key] {
		path := append(append([]string{}, c.buildStack...), key)
		return nil, &CircularDependencyError{ID: key, Path: path}
	}

	c.buildStack = append(c.buildStack, key)
	c.building[key] = true
	defer func() {
		c.buildStack = c.buildStack[:len(c.buildStack)-1]
		delete(c.building, key)
		if r := recover(); r != nil {
			result = nil
			err = &ContainerError{ID: key, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	instance, ferr := f(c)
	if ferr != nil {
		if isContainerError(ferr) {
			return nil, ferr
		}
		return nil, &ContainerError{ID: key, Cause: ferr}
	}

	if exts := c.extenders[key]; len(exts) > 0 {
		instance = c.applyExtenders(key, instance)
	}

	if singleton {
		c.instances[key] = instance
	}

	c.fireAfterResolving(key, instance)
	return instance, nil
}

func (c *Container) applyExtenders(key string, instance any) any {
	for _, ext := range c.extenders[key] {
		instance = ext(instance, c)
	}
	return instance
}

// ── Introspection ─────────────────────────────────────────────────────────────

// Has reports whether id is resolvable: an instance, binding, deferred
// provider or wired concrete type exists for it, following alias chains to
// their final target. A broken or cyclic alias chain reports false.
func (c *Container) Has(id string) bool {
	key, err := c.canonical(id)
	if err != nil {
		return false
	}
	if _, ok := c.instances[key]; ok {
		return true
	}
	if _, ok := c.bindings[key]; ok {
		return true
	}
	if _, ok := c.wired[key]; ok {
		return true
	}
	return c.providers.provides(key)
}

// Resolved reports whether id has been materialized at least once.
func (c *Container) Resolved(id string) bool {
	key, err := c.canonical(id)
	if err != nil {
		return false
	}
	_, ok := c.instances[key]
	return ok
}

// Bindings returns the sorted identifiers with a registered factory or wired
// prototype (for the admin panel's debug view).
func (c *Container) Bindings() []string {
	out := make([]string, 0, len(c.bindings)+len(c.wired))
	for k := range c.bindings {
		out = append(out, k)
	}
	for k := range c.wired {
		if _, dup := c.bindings[k]; !dup {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Instances returns the sorted identifiers with a materialized value.
func (c *Container) Instances() []string {
	out := make([]string, 0, len(c.instances))
	for k := range c.instances {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ── Providers ─────────────────────────────────────────────────────────────────

// Register adds a service provider. Eager providers have Register() run
// immediately (and Boot() too, if the container is already booted); deferred
// providers are only indexed by the identifiers they provide.
func (c *Container) Register(p ServiceProvider) error {
	return c.providers.Register(p)
}

// Boot runs the Boot() phase on every registered provider exactly once.
// Calling Boot a second time is a no-op.
func (c *Container) Boot() error {
	return c.providers.Boot()
}

// IsBooted reports whether Boot has run.
func (c *Container) IsBooted() bool {
	return c.providers.Booted()
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates multiple identifiers under a named group.
//
//	c.Tag([]string{"check.db", "check.media"}, "health-checks")
func (c *Container) Tag(ids []string, tag string) {
	c.tags[tag] = append(c.tags[tag], ids...)
}

// Tagged resolves every identifier registered under a tag.
func (c *Container) Tagged(tag string) ([]any, error) {
	ids := c.tags[tag]
	result := make([]any, 0, len(ids))
	for _, id := range ids {
		v, err := c.Get(id)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates the resolved instance of an identifier. If the identifier
// is already materialized, the extender is applied immediately.
func (c *Container) Extend(id string, fn Extender) {
	key := c.registrationKey(id)
	c.extenders[key] = append(c.extenders[key], fn)

	if inst, ok := c.instances[key]; ok {
		extended := fn(inst, c)
		c.instances[key] = extended
		c.fireRebound(key, extended)
	}
}

// ── Maintenance ───────────────────────────────────────────────────────────────

// Forget removes every registration for an identifier (binding, instance and
// wired prototype).
func (c *Container) Forget(id string) {
	key := c.registrationKey(id)
	delete(c.bindings, key)
	delete(c.instances, key)
	delete(c.wired, key)
}

// Flush resets the container to a fresh, unbooted state: bindings, instances,
// aliases, tags, providers — everything goes.
func (c *Container) Flush() {
	c.bindings = make(map[string]*binding)
	c.instances = make(map[string]any)
	c.aliases = make(map[string]string)
	c.wired = make(map[string]any)
	c.descriptors = make(map[reflect.Type]*typeDescriptor)
	c.extenders = make(map[string][]Extender)
	c.tags = make(map[string][]string)
	c.contextual = make(map[string]map[string]Factory)
	c.reboundCallbacks = make(map[string][]func(any))
	c.afterResolving = nil
	c.buildStack = nil
	c.building = make(map[string]bool)
	c.providers = newProviderRegistry(c)
	c.Instance("container", c)
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// Rebinding registers a callback fired whenever id is re-bound after having
// been resolved.
func (c *Container) Rebinding(id string, cb func(any)) {
	key := c.registrationKey(id)
	c.reboundCallbacks[key] = append(c.reboundCallbacks[key], cb)
}

// AfterResolving registers a callback fired after any identifier is built.
func (c *Container) AfterResolving(cb func(id string, instance any)) {
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireRebound(key string, instance any) {
	for _, cb := range c.reboundCallbacks[key] {
		cb(instance)
	}
}

func (c *Container) fireAfterResolving(key string, instance any) {
	for _, cb := range c.afterResolving {
		cb(key, instance)
	}
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

// TypeKey returns the package-qualified type name of v, useful as a stable
// identifier when binding by type rather than by hand-picked name.
//
//	key := container.TypeKey((*stats.Collector)(nil))
//	c.Singleton(key, factory)
func TypeKey(v any) string {
	return typeKeyOf(reflect.TypeOf(v))
}

func typeKeyOf(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve calls Get and type-asserts the result.
//
//	log, err := container.Resolve[*zap.Logger](c, "log")
func Resolve[T any](c *Container, id string) (T, error) {
	var zero T
	instance, err := c.Get(id)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &ContainerError{
			ID:    id,
			Cause: fmt.Errorf("resolved to %T, want %T", instance, zero),
		}
	}
	return typed, nil
}

// MustResolve is Resolve for composition roots where a wiring mistake is fatal.
func MustResolve[T any](c *Container, id string) T {
	v, err := Resolve[T](c, id)
	if err != nil {
		panic(err)
	}
	return v
}
