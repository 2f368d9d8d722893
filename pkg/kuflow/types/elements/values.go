package elements

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"cloud.google.com/go/civil"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/references"
)

// Type is the discriminator written in the "type" field of an element value
type Type string

const (
	TypeString    Type = "STRING"
	TypeNumber    Type = "NUMBER"
	TypeDate      Type = "DATE"
	TypeMap       Type = "MAP"
	TypeDocument  Type = "DOCUMENT"
	TypePrincipal Type = "PRINCIPAL"

	// typeObject is the name older servers use for TypeMap
	typeObject Type = "OBJECT"
)

// Validity records the outcome of an external form validation of a single value
type Validity int8

const (
	ValidityUnknown Validity = iota
	Valid
	Invalid
)

// ValidityOf converts a boolean validation outcome into a Validity
func ValidityOf(valid bool) Validity {
	if valid {
		return Valid
	}
	return Invalid
}

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

func (v Validity) MarshalJSON() ([]byte, error) {
	switch v {
	case Valid:
		return []byte("true"), nil
	case Invalid:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (v *Validity) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("valid must be a boolean or null: %w", err)
	}

	*v = ValidityUnknown
	if b != nil {
		*v = ValidityOf(*b)
	}

	return nil
}

// Value is one typed, independently validated datum stored under an attribute code.
// The set of implementations is closed; see the *Value types in this package.
type Value interface {
	Type() Type
	Validity() Validity
	SetValidity(Validity)

	// Value returns the payload in its native type
	Value() any

	isElementValue()
}

// ValueImpl contains the discriminator and validity flag shared by all variants
type ValueImpl struct {
	typ   Type
	valid Validity
}

func (vi *ValueImpl) Type() Type {
	return vi.typ
}

func (vi *ValueImpl) Validity() Validity {
	return vi.valid
}

func (vi *ValueImpl) SetValidity(valid Validity) {
	vi.valid = valid
}

func (vi *ValueImpl) isElementValue() {}

// StringValue holds a text payload
type StringValue struct {
	ValueImpl
	val string
}

func (sv *StringValue) Value() any {
	return sv.val
}

func (sv *StringValue) String() string {
	return sv.val
}

// NewString is a convenience function for creating StringValue instances
func NewString(value string) *StringValue {
	return &StringValue{
		ValueImpl: ValueImpl{typ: TypeString},
		val:       value,
	}
}

// NumberValue holds a float64 payload
type NumberValue struct {
	ValueImpl
	val float64
}

func (nv *NumberValue) Value() any {
	return nv.val
}

func (nv *NumberValue) Float64() float64 {
	return nv.val
}

// NewNumber is a convenience function for creating NumberValue instances
func NewNumber(value float64) *NumberValue {
	return &NumberValue{
		ValueImpl: ValueImpl{typ: TypeNumber},
		val:       value,
	}
}

// DateValue holds a calendar date without time of day or time zone
type DateValue struct {
	ValueImpl
	val civil.Date
}

func (dv *DateValue) Value() any {
	return dv.val
}

func (dv *DateValue) Date() civil.Date {
	return dv.val
}

func NewDate(value civil.Date) *DateValue {
	return &DateValue{
		ValueImpl: ValueImpl{typ: TypeDate},
		val:       value,
	}
}

// MapValue holds a structured, string keyed object of untyped JSON. The top level keys
// keep the order in which they were decoded.
type MapValue struct {
	ValueImpl
	keys []string
	val  map[string]any
}

func (mv *MapValue) Value() any {
	return mv.Map()
}

// Map returns a shallow copy of the payload
func (mv *MapValue) Map() map[string]any {
	return maps.Clone(mv.val)
}

// Keys returns the top level keys of the payload in order
func (mv *MapValue) Keys() []string {
	return slices.Clone(mv.keys)
}

func (mv *MapValue) clone() *MapValue {
	return &MapValue{
		ValueImpl: mv.ValueImpl,
		keys:      slices.Clone(mv.keys),
		val:       maps.Clone(mv.val),
	}
}

// NewMap copies the top level of value into a new MapValue. A nil map becomes an empty one.
// Go maps carry no order, so the keys are kept sorted.
func NewMap(value map[string]any) *MapValue {
	m := maps.Clone(value)
	if m == nil {
		m = map[string]any{}
	}

	return &MapValue{
		ValueImpl: ValueImpl{typ: TypeMap},
		keys:      slices.Sorted(maps.Keys(m)),
		val:       m,
	}
}

// DocumentValue references a document stored by the platform
type DocumentValue struct {
	ValueImpl
	val references.Document
}

func (dv *DocumentValue) Value() any {
	return dv.val
}

func (dv *DocumentValue) Document() references.Document {
	return dv.val
}

func NewDocument(value references.Document) *DocumentValue {
	return &DocumentValue{
		ValueImpl: ValueImpl{typ: TypeDocument},
		val:       value,
	}
}

// PrincipalValue references a user, an application or the system
type PrincipalValue struct {
	ValueImpl
	val references.Principal
}

func (pv *PrincipalValue) Value() any {
	return pv.Principal()
}

func (pv *PrincipalValue) Principal() references.Principal {
	return pv.val.Clone()
}

func NewPrincipal(value references.Principal) *PrincipalValue {
	return &PrincipalValue{
		ValueImpl: ValueImpl{typ: TypePrincipal},
		val:       value.Clone(),
	}
}

// WithValidity sets the validity of v and returns it, for use in composite literals
func WithValidity[V Value](v V, valid Validity) V {
	v.SetValidity(valid)
	return v
}
