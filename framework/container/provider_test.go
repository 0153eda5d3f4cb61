package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitepulse/sitepulse/framework/container"
)

// ── stub providers ────────────────────────────────────────────────────────────

type eagerProvider struct {
	container.BaseProvider
	registerCalls int
	bootCalls     int
}

func (p *eagerProvider) Register(app *container.Container) error {
	p.registerCalls++
	app.Singleton("eager-svc", func(_ *container.Container) (any, error) { return "eager", nil })
	return nil
}

func (p *eagerProvider) Boot(_ *container.Container) error {
	p.bootCalls++
	return nil
}

// deferredProvider is lazy — registered when one of its services is first resolved.
type deferredProvider struct {
	container.BaseProvider
	registerCalls int
	bootCalls     int
}

func (p *deferredProvider) Register(app *container.Container) error {
	p.registerCalls++
	app.Singleton("svc1", func(_ *container.Container) (any, error) { return "one", nil })
	app.Singleton("svc2", func(_ *container.Container) (any, error) { return "two", nil })
	return nil
}

func (p *deferredProvider) Boot(_ *container.Container) error {
	p.bootCalls++
	return nil
}

func (p *deferredProvider) IsDeferred() bool   { return true }
func (p *deferredProvider) Provides() []string { return []string{"svc1", "svc2"} }

// otherDeferredProvider owns a disjoint identifier set.
type otherDeferredProvider struct {
	container.BaseProvider
	registerCalls int
}

func (p *otherDeferredProvider) Register(app *container.Container) error {
	p.registerCalls++
	app.Singleton("other-svc", func(_ *container.Container) (any, error) { return "other", nil })
	return nil
}

func (p *otherDeferredProvider) IsDeferred() bool   { return true }
func (p *otherDeferredProvider) Provides() []string { return []string{"other-svc"} }

type failingRegisterProvider struct {
	container.BaseProvider
	err error
}

func (p *failingRegisterProvider) Register(_ *container.Container) error { return p.err }

type failingBootProvider struct {
	container.BaseProvider
	err error
}

func (p *failingBootProvider) Register(_ *container.Container) error { return nil }
func (p *failingBootProvider) Boot(_ *container.Container) error     { return p.err }

// ── Eager providers ───────────────────────────────────────────────────────────

func TestRegister_EagerProviderRegistersImmediately(t *testing.T) {
	c := container.New()
	p := &eagerProvider{}
	require.NoError(t, c.Register(p))

	assert.Equal(t, 1, p.registerCalls)
	assert.True(t, c.Has("eager-svc"))
}

func TestRegister_EagerProviderBootsOnlyAtBoot(t *testing.T) {
	c := container.New()
	p := &eagerProvider{}
	require.NoError(t, c.Register(p))
	assert.Zero(t, p.bootCalls)

	require.NoError(t, c.Boot())
	assert.Equal(t, 1, p.bootCalls)
}

func TestBoot_SecondCallIsNoOp(t *testing.T) {
	c := container.New()
	p := &eagerProvider{}
	require.NoError(t, c.Register(p))

	require.NoError(t, c.Boot())
	require.NoError(t, c.Boot())

	assert.Equal(t, 1, p.bootCalls)
	assert.True(t, c.IsBooted())
}

func TestRegister_DuplicateProviderIsIgnored(t *testing.T) {
	c := container.New()
	p := &eagerProvider{}
	require.NoError(t, c.Register(p))
	require.NoError(t, c.Register(p))

	assert.Equal(t, 1, p.registerCalls)
}

func TestRegister_AfterBootBootsImmediately(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Boot())

	p := &eagerProvider{}
	require.NoError(t, c.Register(p))

	assert.Equal(t, 1, p.registerCalls)
	assert.Equal(t, 1, p.bootCalls)
}

// ── Deferred providers ────────────────────────────────────────────────────────

func TestDeferred_RegisterPostponedUntilFirstUse(t *testing.T) {
	c := container.New()
	p := &deferredProvider{}
	require.NoError(t, c.Register(p))
	require.NoError(t, c.Boot())

	assert.Zero(t, p.registerCalls)

	got, err := c.Get("svc1")
	require.NoError(t, err)
	assert.Equal(t, "one", got)
	assert.Equal(t, 1, p.registerCalls)
}

func TestDeferred_RegisterRunsOnceAcrossProvidedIdentifiers(t *testing.T) {
	c := container.New()
	p := &deferredProvider{}
	require.NoError(t, c.Register(p))

	_, err := c.Get("svc1")
	require.NoError(t, err)
	_, err = c.Get("svc2")
	require.NoError(t, err)

	assert.Equal(t, 1, p.registerCalls)
}

func TestDeferred_HasReportsTrueBeforeRegistration(t *testing.T) {
	c := container.New()
	p := &deferredProvider{}
	require.NoError(t, c.Register(p))

	assert.True(t, c.Has("svc1"))
	assert.True(t, c.Has("svc2"))
	assert.Zero(t, p.registerCalls)
}

func TestDeferred_ProvidersWithDisjointSetsLoadIndependently(t *testing.T) {
	c := container.New()
	a := &deferredProvider{}
	b := &otherDeferredProvider{}
	require.NoError(t, c.Register(a))
	require.NoError(t, c.Register(b))

	_, err := c.Get("other-svc")
	require.NoError(t, err)

	assert.Equal(t, 1, b.registerCalls)
	assert.Zero(t, a.registerCalls)
}

func TestDeferred_TriggeredBeforeBootIsBootedByBoot(t *testing.T) {
	c := container.New()
	p := &deferredProvider{}
	require.NoError(t, c.Register(p))

	_, err := c.Get("svc1")
	require.NoError(t, err)
	assert.Zero(t, p.bootCalls)

	require.NoError(t, c.Boot())
	assert.Equal(t, 1, p.bootCalls)
}

func TestDeferred_TriggeredAfterBootBootsImmediately(t *testing.T) {
	c := container.New()
	p := &deferredProvider{}
	require.NoError(t, c.Register(p))
	require.NoError(t, c.Boot())

	_, err := c.Get("svc1")
	require.NoError(t, err)

	assert.Equal(t, 1, p.registerCalls)
	assert.Equal(t, 1, p.bootCalls)

	// Second provided identifier neither re-registers nor re-boots.
	_, err = c.Get("svc2")
	require.NoError(t, err)
	assert.Equal(t, 1, p.registerCalls)
	assert.Equal(t, 1, p.bootCalls)
}

// ── Provider failures ─────────────────────────────────────────────────────────

func TestRegister_ErrorIsWrappedWithProviderName(t *testing.T) {
	boom := errors.New("boom")
	c := container.New()

	err := c.Register(&failingRegisterProvider{err: boom})
	var ce *container.ContainerError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failingRegisterProvider")
}

func TestBoot_ErrorIsWrappedWithProviderName(t *testing.T) {
	boom := errors.New("boom")
	c := container.New()
	require.NoError(t, c.Register(&failingBootProvider{err: boom}))

	err := c.Boot()
	var ce *container.ContainerError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failingBootProvider")
}

func TestDeferred_RegisterErrorSurfacesFromGet(t *testing.T) {
	boom := errors.New("boom")
	c := container.New()

	p := &failingDeferredProvider{err: boom}
	require.NoError(t, c.Register(p))

	_, err := c.Get("broken-svc")
	var ce *container.ContainerError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, boom)
}

type failingDeferredProvider struct {
	container.BaseProvider
	err error
}

func (p *failingDeferredProvider) Register(_ *container.Container) error { return p.err }
func (p *failingDeferredProvider) IsDeferred() bool                      { return true }
func (p *failingDeferredProvider) Provides() []string                    { return []string{"broken-svc"} }

// ── Flush ─────────────────────────────────────────────────────────────────────

func TestFlush_ForgetsProviders(t *testing.T) {
	c := container.New()
	p := &deferredProvider{}
	require.NoError(t, c.Register(p))
	require.NoError(t, c.Boot())

	c.Flush()

	assert.False(t, c.Has("svc1"))
	assert.False(t, c.IsBooted())

	// The same provider can be registered again into the fresh state.
	require.NoError(t, c.Register(p))
	assert.True(t, c.Has("svc1"))
}

// ── BaseProvider defaults ─────────────────────────────────────────────────────

func TestBaseProvider_Defaults(t *testing.T) {
	var p container.BaseProvider
	c := container.New()

	assert.NoError(t, p.Boot(c))
	assert.False(t, p.IsDeferred())
	assert.Empty(t, p.Provides())
}
