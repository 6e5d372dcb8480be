package value

// Object is an ordered mapping from Name to Value. Insertion order is preserved and is
// significant: it determines the order response-object keys are serialized in.
type Object struct {
	keys   []Name
	values map[string]Value
}

// ObjectBuilder accumulates (Name, Value) pairs in insertion order before sealing them into an
// immutable Object.
type ObjectBuilder struct {
	keys   []Name
	values map[string]Value
}

// NewObjectBuilder returns an empty ObjectBuilder.
func NewObjectBuilder() *ObjectBuilder {
	return &ObjectBuilder{values: map[string]Value{}}
}

// Set appends key with the given value, or overwrites it in place if key was already set
// (insertion order is determined by the first Set for a given key).
func (b *ObjectBuilder) Set(key Name, val Value) *ObjectBuilder {
	if _, exists := b.values[key.String()]; !exists {
		b.keys = append(b.keys, key)
	}
	b.values[key.String()] = val
	return b
}

// Len reports the number of entries accumulated so far.
func (b *ObjectBuilder) Len() int {
	return len(b.keys)
}

// Build seals the builder into an Object. The builder must not be used afterward.
func (b *ObjectBuilder) Build() *Object {
	return &Object{keys: b.keys, values: b.values}
}

// Keys returns the object's keys in insertion order. The returned slice must not be mutated.
func (o *Object) Keys() []Name {
	return o.keys
}

// Len reports the number of entries in o.
func (o *Object) Len() int {
	return len(o.keys)
}

// Get returns the value for key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Equal reports whether o and other hold the same keys (in any order) mapped to equal values.
// Key order is part of the serialization contract, not of object identity.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if len(o.keys) != len(other.keys) {
		return false
	}
	for _, k := range o.keys {
		ov, ok := o.values[k.String()]
		if !ok {
			return false
		}
		otherV, ok := other.values[k.String()]
		if !ok || !ov.Equal(otherV) {
			return false
		}
	}
	return true
}
