package container

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ── Auto-wiring ───────────────────────────────────────────────────────────────
//
// Go cannot look up a type by name at runtime, so auto-wiring works from a
// registered concrete prototype instead: Wire(id, proto) declares that proto
// can be constructed by the container without an explicit factory. The
// prototype is either a struct pointer (dependencies come from `inject`
// tagged fields) or a constructor function (dependencies are its input
// parameters, resolved by TypeKey).
//
// For each constructor parameter, in declaration order:
//  1. if the parameter's identifier is resolvable, resolve it recursively
//     through the normal Get pipeline (cycle detection applies);
//  2. else, if the parameter is nullable (pointer, interface, slice, map,
//     func, chan), inject nil;
//  3. else, if the field declares a `default:"..."` tag, use the default;
//  4. else, if the inject tag carries the `optional` flag, inject the zero
//     value;
//  5. else, fail with NotFoundError naming both the identifier being built
//     and the offending parameter.
//
// The per-type parameter descriptors are inspected once and cached.

// Wire registers a concrete prototype for auto-wiring. proto is either a
// pointer to a struct or a constructor function returning (T) or (T, error).
//
//	type MediaScanner struct {
//	    Log   *zap.Logger    `inject:"log"`
//	    Cfg   *config.Config `inject:"config"`
//	    Cache Cache          `inject:"cache,optional"`
//	    Depth int            `default:"3"`
//	}
//	c.Wire("scanner.media", &MediaScanner{})
//
// Interfaces, nil prototypes and other non-constructible values are refused
// with NotFoundError when the identifier is first resolved, so a bad Wire
// call is recoverable rather than fatal.
func (c *Container) Wire(id string, proto any) {
	key := c.registrationKey(id)
	delete(c.instances, key)
	c.wired[key] = proto
}

// WireType registers a prototype under its own TypeKey.
func (c *Container) WireType(proto any) {
	c.Wire(TypeKey(proto), proto)
}

// paramDescriptor describes one constructor parameter of a wired type.
type paramDescriptor struct {
	name       string
	key        string
	index      int
	typ        reflect.Type
	nullable   bool
	optional   bool
	hasDefault bool
	defaultVal reflect.Value
}

// typeDescriptor caches the inspected constructor shape of a wired type.
type typeDescriptor struct {
	// structType is set for struct prototypes; ctor for constructor funcs.
	structType reflect.Type
	ctor       reflect.Value
	ctorErrOut bool
	params     []paramDescriptor
}

// autowireFactory adapts a wired prototype into an ordinary Factory so the
// build path (resolution stack, panic recovery, extenders) is shared with
// explicit bindings.
func (c *Container) autowireFactory(key string, proto any) Factory {
	return func(c *Container) (any, error) {
		desc, err := c.describe(key, proto)
		if err != nil {
			return nil, err
		}
		args, err := c.resolveParams(key, desc)
		if err != nil {
			return nil, err
		}
		return desc.construct(args)
	}
}

// describe inspects a prototype's constructor parameters, caching the result
// per concrete type so reflection runs once no matter how many identifiers
// point at the type.
func (c *Container) describe(key string, proto any) (*typeDescriptor, error) {
	if proto == nil {
		return nil, &NotFoundError{ID: key}
	}
	t := reflect.TypeOf(proto)
	if desc, ok := c.descriptors[t]; ok {
		return desc, nil
	}

	var (
		desc *typeDescriptor
		err  error
	)
	switch {
	case t.Kind() == reflect.Func:
		desc, err = describeConstructor(key, reflect.ValueOf(proto))
	case t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct:
		desc, err = describeStruct(key, t.Elem())
	default:
		// Interfaces, scalars, abstract values: not constructible.
		return nil, &NotFoundError{ID: key}
	}
	if err != nil {
		return nil, err
	}

	c.descriptors[t] = desc
	return desc, nil
}

// describeConstructor inspects a constructor function's input parameters.
// Inputs of type *Container are injected directly; everything else resolves
// by the parameter type's TypeKey.
func describeConstructor(key string, ctor reflect.Value) (*typeDescriptor, error) {
	ft := ctor.Type()
	switch ft.NumOut() {
	case 1:
		if isErrorType(ft.Out(0)) {
			return nil, &ContainerError{ID: key, Cause: fmt.Errorf("constructor %s returns only an error", ft)}
		}
	case 2:
		if !isErrorType(ft.Out(1)) {
			return nil, &ContainerError{ID: key, Cause: fmt.Errorf("constructor %s second return value must be error", ft)}
		}
	default:
		return nil, &ContainerError{ID: key, Cause: fmt.Errorf("constructor %s must return (T) or (T, error)", ft)}
	}

	desc := &typeDescriptor{ctor: ctor, ctorErrOut: ft.NumOut() == 2}
	for i := 0; i < ft.NumIn(); i++ {
		in := ft.In(i)
		desc.params = append(desc.params, paramDescriptor{
			name:     fmt.Sprintf("arg%d", i),
			key:      typeKeyOf(in),
			index:    i,
			typ:      in,
			nullable: isNullable(in),
		})
	}
	return desc, nil
}

// describeStruct inspects `inject` tagged fields of a struct type. Fields
// without an inject tag are left at their zero value (or whatever a
// `default` tag supplies).
func describeStruct(key string, st reflect.Type) (*typeDescriptor, error) {
	desc := &typeDescriptor{structType: st}
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		injectTag, injected := f.Tag.Lookup("inject")
		defaultTag, defaulted := f.Tag.Lookup("default")
		if !injected && !defaulted {
			continue
		}
		if f.PkgPath != "" {
			return nil, &ContainerError{ID: key, Cause: fmt.Errorf("cannot inject unexported field %s.%s", st, f.Name)}
		}

		p := paramDescriptor{
			name:     f.Name,
			index:    i,
			typ:      f.Type,
			nullable: isNullable(f.Type),
		}
		if injected {
			id, opts, _ := strings.Cut(injectTag, ",")
			if id == "" {
				id = typeKeyOf(f.Type)
			}
			p.key = id
			p.optional = opts == "optional"
		}
		if defaulted {
			dv, err := parseDefault(f.Type, defaultTag)
			if err != nil {
				return nil, &ContainerError{ID: key, Cause: fmt.Errorf("field %s.%s: %w", st, f.Name, err)}
			}
			p.hasDefault = true
			p.defaultVal = dv
		}
		desc.params = append(desc.params, p)
	}
	return desc, nil
}

// resolveParams walks the descriptor in declaration order and produces one
// value per parameter, applying the resolvable → nullable → default →
// NotFoundError precedence.
func (c *Container) resolveParams(key string, desc *typeDescriptor) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(desc.params))
	for i, p := range desc.params {
		// Constructors may take the container itself.
		if p.typ == reflect.TypeOf((*Container)(nil)) {
			args[i] = reflect.ValueOf(c)
			continue
		}

		if p.key != "" && c.Has(p.key) {
			v, err := c.Get(p.key)
			if err != nil {
				return nil, err
			}
			rv := reflect.ValueOf(v)
			if !rv.IsValid() || !rv.Type().AssignableTo(p.typ) {
				return nil, &ContainerError{
					ID:    key,
					Cause: fmt.Errorf("parameter [%s] resolved to %T, want %s", p.name, v, p.typ),
				}
			}
			args[i] = rv
			continue
		}

		switch {
		case p.nullable:
			args[i] = reflect.Zero(p.typ)
		case p.hasDefault:
			args[i] = p.defaultVal
		case p.optional:
			args[i] = reflect.Zero(p.typ)
		default:
			return nil, &NotFoundError{ID: key, Param: p.name}
		}
	}
	return args, nil
}

// construct materializes the value from resolved parameters.
func (d *typeDescriptor) construct(args []reflect.Value) (any, error) {
	if d.structType != nil {
		pv := reflect.New(d.structType)
		for i, p := range d.params {
			pv.Elem().Field(p.index).Set(args[i])
		}
		return pv.Interface(), nil
	}

	out := d.ctor.Call(args)
	if d.ctorErrOut && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// isNullable reports whether nil is a valid value for t.
func isNullable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func isErrorType(t reflect.Type) bool {
	return t.Implements(reflect.TypeOf((*error)(nil)).Elem())
}

// parseDefault converts a `default:"..."` tag into a typed value.
func parseDefault(t reflect.Type, raw string) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("bad default %q: %w", raw, err)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("bad default %q: %w", raw, err)
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("bad default %q: %w", raw, err)
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("bad default %q: %w", raw, err)
		}
		v.SetBool(b)
	default:
		return reflect.Value{}, fmt.Errorf("default tag unsupported for %s", t)
	}
	return v, nil
}
