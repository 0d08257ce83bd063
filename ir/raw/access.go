package raw

// Typed accessors over a possibly-indirect graph. Every function tolerates
// nil input, unresolved references, and wrong node kinds by returning the
// zero value; callers decide whether absence matters.

// Deref resolves obj through r if it is a reference; otherwise returns obj
// unchanged. An unresolvable reference yields nil.
func Deref(r Resolver, obj Object) Object {
	ref, ok := obj.(Reference)
	if !ok {
		return obj
	}
	if r == nil {
		return nil
	}
	resolved, err := r.Resolve(ref.Ref())
	if err != nil {
		return nil
	}
	return resolved
}

// DerefDict resolves obj and returns it as a dictionary, or nil.
func DerefDict(r Resolver, obj Object) *DictObj {
	if obj == nil {
		return nil
	}
	dict, ok := Deref(r, obj).(*DictObj)
	if !ok {
		return nil
	}
	return dict
}

// DerefArray resolves obj and returns it as an array, or nil.
func DerefArray(r Resolver, obj Object) *ArrayObj {
	if obj == nil {
		return nil
	}
	arr, ok := Deref(r, obj).(*ArrayObj)
	if !ok {
		return nil
	}
	return arr
}

// ValueFromDict returns the raw value under key, or nil.
func ValueFromDict(dict Dictionary, key string) Object {
	if dict == nil {
		return nil
	}
	val, _ := dict.Get(NameLiteral(key))
	return val
}

// NameFromDict returns the name token under key.
func NameFromDict(dict Dictionary, key string) (string, bool) {
	if dict == nil {
		return "", false
	}
	val, ok := dict.Get(NameLiteral(key))
	if !ok {
		return "", false
	}
	return NameFromObject(val)
}

// StringFromDict returns the string under key.
func StringFromDict(dict Dictionary, key string) (string, bool) {
	if dict == nil {
		return "", false
	}
	val, ok := dict.Get(NameLiteral(key))
	if !ok {
		return "", false
	}
	return StringFromObject(val)
}

// BoolFromDict returns the boolean under key.
func BoolFromDict(dict Dictionary, key string) (bool, bool) {
	if dict == nil {
		return false, false
	}
	val, ok := dict.Get(NameLiteral(key))
	if !ok {
		return false, false
	}
	if b, ok := val.(Boolean); ok {
		return b.Value(), true
	}
	return false, false
}

// IntFromDict returns the integer under key.
func IntFromDict(dict Dictionary, key string) (int, bool) {
	if dict == nil {
		return 0, false
	}
	val, ok := dict.Get(NameLiteral(key))
	if !ok {
		return 0, false
	}
	return IntFromObject(val)
}

func NameFromObject(obj Object) (string, bool) {
	if n, ok := obj.(Name); ok {
		return n.Value(), true
	}
	return "", false
}

func StringFromObject(obj Object) (string, bool) {
	if s, ok := obj.(String); ok {
		return string(s.Value()), true
	}
	return "", false
}

func IntFromObject(obj Object) (int, bool) {
	if n, ok := obj.(Number); ok {
		return int(n.Int()), true
	}
	return 0, false
}

func FloatFromObject(obj Object) (float64, bool) {
	if n, ok := obj.(Number); ok {
		return n.Float(), true
	}
	return 0, false
}
