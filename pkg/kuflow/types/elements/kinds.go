package elements

import (
	"cloud.google.com/go/civil"
	kuflowerrors "github.com/kuflow/kuflow-sdk-go/pkg/kuflow/errors"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/references"
)

// Kind binds a native Go type to the element value variant that carries it. Only the
// kinds declared in this package are usable; a Kind built elsewhere is rejected with
// ErrUnknownVariant.
type Kind[T any] struct {
	typ    Type
	wrap   func(T) Value
	unwrap func(Value) (T, bool)
}

func (k Kind[T]) Type() Type {
	return k.typ
}

func (k Kind[T]) defined() error {
	if k.wrap == nil || k.unwrap == nil {
		return kuflowerrors.NewUnknownVariantError(string(k.typ))
	}
	return nil
}

// Wrap creates a new element value holding v
func (k Kind[T]) Wrap(v T) (Value, error) {
	if err := k.defined(); err != nil {
		return nil, err
	}
	return k.wrap(v), nil
}

// Unwrap returns the payload of v if, and only if, v is of this kind
func (k Kind[T]) Unwrap(v Value) (T, bool) {
	if k.defined() != nil {
		var zero T
		return zero, false
	}
	return k.unwrap(v)
}

var Strings = Kind[string]{
	typ:  TypeString,
	wrap: func(s string) Value { return NewString(s) },
	unwrap: func(v Value) (string, bool) {
		sv, ok := v.(*StringValue)
		if !ok {
			return "", false
		}
		return sv.val, true
	},
}

var Numbers = Kind[float64]{
	typ:  TypeNumber,
	wrap: func(f float64) Value { return NewNumber(f) },
	unwrap: func(v Value) (float64, bool) {
		nv, ok := v.(*NumberValue)
		if !ok {
			return 0, false
		}
		return nv.val, true
	},
}

var Dates = Kind[civil.Date]{
	typ:  TypeDate,
	wrap: func(d civil.Date) Value { return NewDate(d) },
	unwrap: func(v Value) (civil.Date, bool) {
		dv, ok := v.(*DateValue)
		if !ok {
			return civil.Date{}, false
		}
		return dv.val, true
	},
}

var Maps = Kind[map[string]any]{
	typ:  TypeMap,
	wrap: func(m map[string]any) Value { return NewMap(m) },
	unwrap: func(v Value) (map[string]any, bool) {
		mv, ok := v.(*MapValue)
		if !ok {
			return nil, false
		}
		return mv.Map(), true
	},
}

var Documents = Kind[references.Document]{
	typ:  TypeDocument,
	wrap: func(d references.Document) Value { return NewDocument(d) },
	unwrap: func(v Value) (references.Document, bool) {
		dv, ok := v.(*DocumentValue)
		if !ok {
			return references.Document{}, false
		}
		return dv.val, true
	},
}

var Principals = Kind[references.Principal]{
	typ:  TypePrincipal,
	wrap: func(p references.Principal) Value { return NewPrincipal(p) },
	unwrap: func(v Value) (references.Principal, bool) {
		pv, ok := v.(*PrincipalValue)
		if !ok {
			return references.Principal{}, false
		}
		return pv.Principal(), true
	},
}
