package raw

import "fmt"

// ObjectRef uniquely identifies an indirect object in the source graph.
type ObjectRef struct {
	Num int
	Gen int
}

func (r ObjectRef) String() string { return fmt.Sprintf("%d %d R", r.Num, r.Gen) }

// IsZero reports whether the reference is the zero (absent) reference.
func (r ObjectRef) IsZero() bool { return r.Num == 0 && r.Gen == 0 }

// Object is the base interface for all object-graph nodes.
type Object interface {
	Type() string
	IsIndirect() bool
}

// Dictionary represents a key/value node.
type Dictionary interface {
	Object
	Get(key Name) (Object, bool)
	Keys() []Name
	Len() int
}

// Array represents an ordered sequence node.
type Array interface {
	Object
	Get(index int) (Object, bool)
	Len() int
}

// Name represents a name/tag token.
type Name interface {
	Object
	Value() string
}

// String represents a byte-string node.
type String interface {
	Object
	Value() []byte
}

// Number represents a numeric node.
type Number interface {
	Object
	Int() int64
	Float() float64
	IsInteger() bool
}

// Boolean represents a boolean node.
type Boolean interface {
	Object
	Value() bool
}

// Null represents the null node.
type Null interface{ Object }

// Reference represents an indirect reference requiring resolution.
type Reference interface {
	Object
	Ref() ObjectRef
}

// Resolver turns an indirect reference into the node it points to.
// Implementations are provided by the surrounding document container;
// this package and everything above it only ever read the graph.
type Resolver interface {
	Resolve(ref ObjectRef) (Object, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ref ObjectRef) (Object, error)

func (f ResolverFunc) Resolve(ref ObjectRef) (Object, error) { return f(ref) }

// MapResolver resolves references out of a fixed object table. Useful for
// tests and for documents whose graph is already fully materialized.
type MapResolver map[ObjectRef]Object

func (m MapResolver) Resolve(ref ObjectRef) (Object, error) {
	obj, ok := m[ref]
	if !ok {
		return nil, fmt.Errorf("unresolved reference %s", ref)
	}
	return obj, nil
}
