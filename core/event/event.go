package event

import "reflect"

// Type identifies a concrete event type.
// Values are comparable and may be used as map keys; they carry no ordering.
type Type struct {
	rt reflect.Type
}

// TypeOf returns the identity of event type T.
//
// Example:
//
//	if env.Type == event.TypeOf[UserCreated]() { ... }
func TypeOf[T any]() Type {
	return Type{rt: reflect.TypeFor[T]()}
}

// String returns the Go type string, e.g. "users.Created" or "*users.Created".
func (t Type) String() string {
	if t.rt == nil {
		return "<nil>"
	}
	return t.rt.String()
}

// Namer may be implemented by event types to override their diagnostic name.
// The name is used for logs and metrics only and never affects routing.
// EventName is called on the zero value of the type, so it must not depend on fields.
type Namer interface {
	EventName() string
}

// nameOf returns the diagnostic name for T.
// Types whose zero value is nil never consult Namer.
func nameOf[T any]() string {
	rt := reflect.TypeFor[T]()
	switch rt.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rt.String()
	}

	var zero T
	if n, ok := any(zero).(Namer); ok {
		if name := n.EventName(); name != "" {
			return name
		}
	}
	return rt.String()
}

// Envelope is the type-erased view of an event handed to middleware.
// It looks the same for every event type.
type Envelope struct {
	Type    Type
	Name    string
	Payload any
}
