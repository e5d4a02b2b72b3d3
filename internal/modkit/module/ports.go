package module

import (
	"fmt"
	"reflect"
)

// PortSet is whatever a module exports from Ports, usually a struct of interfaces
type PortSet = any

// PortsOf finds a T in m's ports: the set itself, or the first exported
// struct field holding a T
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	set := m.Ports()
	if p, ok := set.(T); ok {
		return p, true
	}
	v := reflect.ValueOf(set)
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range v.NumField() {
		f := v.Field(i)
		if !f.CanInterface() {
			continue
		}
		if p, ok := f.Interface().(T); ok {
			return p, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for startup wiring, a missing port panics
func MustPortsOf[T any](m Module) T {
	p, ok := PortsOf[T](m)
	if !ok {
		panic(fmt.Sprintf("module %s: requested port not found: %s", m.Name(), reflect.TypeFor[T]()))
	}
	return p
}
