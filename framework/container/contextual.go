package container

// ContextualBuilder implements the fluent contextual binding API.
//
//	c.When("report.generator").Needs("store").Give(func(c *container.Container) (any, error) {
//	    return store.NewTransient(), nil
//	})
type ContextualBuilder struct {
	container *Container
	concrete  string
	needs     string
}

// When starts a contextual binding chain: while concrete is being resolved,
// its dependencies may be overridden.
func (c *Container) When(concrete string) *ContextualBuilder {
	return &ContextualBuilder{container: c, concrete: concrete}
}

// Needs specifies which identifier the concrete type depends on.
func (b *ContextualBuilder) Needs(id string) *ContextualBuilder {
	b.needs = id
	return b
}

// Give provides the factory used when the concrete type resolves the
// specified identifier.
func (b *ContextualBuilder) Give(factory Factory) {
	c := b.container
	if _, ok := c.contextual[b.concrete]; !ok {
		c.contextual[b.concrete] = make(map[string]Factory)
	}
	c.contextual[b.concrete][b.needs] = factory
}

// GiveValue is a shorthand for Give when no factory logic is needed.
//
//	c.When("scanner.media").Needs("upload.dir").GiveValue("/var/uploads")
func (b *ContextualBuilder) GiveValue(value any) {
	b.Give(func(_ *Container) (any, error) { return value, nil })
}

// contextualFactory returns the contextual factory for (concrete, id), or nil.
func (c *Container) contextualFactory(concrete, id string) Factory {
	if m, ok := c.contextual[concrete]; ok {
		return m[id]
	}
	return nil
}
