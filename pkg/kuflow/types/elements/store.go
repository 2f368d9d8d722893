package elements

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	kuflowerrors "github.com/kuflow/kuflow-sdk-go/pkg/kuflow/errors"
)

// Store maps attribute codes to ordered lists of element values. Codes keep their
// insertion order. A code present in the store always has at least one value.
//
// The zero value is an empty store ready to use. A Store is not safe for concurrent use.
type Store struct {
	codes  []string
	values map[string][]Value
}

func NewStore() *Store {
	return &Store{}
}

// Codes returns the attribute codes in insertion order
func (s *Store) Codes() []string {
	return slices.Clone(s.codes)
}

func (s *Store) Has(code string) bool {
	return len(s.values[code]) > 0
}

// Len returns the number of values stored under code
func (s *Store) Len(code string) int {
	return len(s.values[code])
}

func (s *Store) IsEmpty() bool {
	return len(s.codes) == 0
}

// Values returns copies of the element values stored under code
func (s *Store) Values(code string) []Value {
	values := s.values[code]
	if len(values) == 0 {
		return []Value{}
	}

	result := make([]Value, 0, len(values))
	for _, v := range values {
		result = append(result, clone(v))
	}
	return result
}

// Remove deletes code and all of its values
func (s *Store) Remove(code string) {
	if _, ok := s.values[code]; !ok {
		return
	}

	delete(s.values, code)
	s.codes = slices.DeleteFunc(s.codes, func(c string) bool { return c == code })
}

// Clone returns a deep copy of the store
func (s *Store) Clone() *Store {
	c := &Store{}
	for _, code := range s.codes {
		c.put(code, s.Values(code))
	}
	return c
}

func (s *Store) put(code string, values []Value) {
	if len(values) == 0 {
		s.Remove(code)
		return
	}

	if s.values == nil {
		s.values = map[string][]Value{}
	}

	if _, ok := s.values[code]; !ok {
		s.codes = append(s.codes, code)
	}

	s.values[code] = values
}

func (s *Store) appendValues(code string, values []Value) {
	s.put(code, append(slices.Clone(s.values[code]), values...))
}

// Get returns the first value under code. Absent codes fail with ErrElementNotFound.
func Get[T any](s *Store, k Kind[T], code string) (T, error) {
	t, found, err := Find(s, k, code)
	if err != nil {
		return t, err
	}

	if !found {
		return t, kuflowerrors.NewElementNotFoundError(code)
	}

	return t, nil
}

// Find is like Get but reports absence through the boolean instead of an error.
// A value of another kind still fails with ErrTypeMismatch.
func Find[T any](s *Store, k Kind[T], code string) (T, bool, error) {
	var zero T

	if err := k.defined(); err != nil {
		return zero, false, err
	}

	values := s.values[code]
	if len(values) == 0 {
		return zero, false, nil
	}

	t, err := unwrap(k, code, values[0])
	if err != nil {
		return zero, false, err
	}

	return t, true, nil
}

// GetList returns all values under code, in order. Absent codes give an empty list.
func GetList[T any](s *Store, k Kind[T], code string) ([]T, error) {
	if err := k.defined(); err != nil {
		return nil, err
	}

	values := s.values[code]
	result := make([]T, 0, len(values))

	for _, v := range values {
		t, err := unwrap(k, code, v)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}

	return result, nil
}

// Set replaces the values under code with value. A nil value removes code.
func Set[T any](s *Store, k Kind[T], code string, value *T) error {
	if err := k.defined(); err != nil {
		return err
	}

	if value == nil {
		s.Remove(code)
		return nil
	}

	s.put(code, []Value{k.wrap(*value)})
	return nil
}

// SetList replaces the values under code, keeping their order. An empty list removes code.
func SetList[T any](s *Store, k Kind[T], code string, values []T) error {
	if err := k.defined(); err != nil {
		return err
	}

	s.put(code, wrapAll(k, values))
	return nil
}

// Add appends value to the values under code. A nil value is a no-op.
func Add[T any](s *Store, k Kind[T], code string, value *T) error {
	if err := k.defined(); err != nil {
		return err
	}

	if value == nil {
		return nil
	}

	return AddList(s, k, code, []T{*value})
}

// AddList appends values, in order, to the values under code.
// Appending to a code that holds values of another kind fails with ErrTypeMismatch.
func AddList[T any](s *Store, k Kind[T], code string, values []T) error {
	if err := k.defined(); err != nil {
		return err
	}

	if len(values) == 0 {
		return nil
	}

	for _, v := range s.values[code] {
		if v.Type() != k.typ {
			return kuflowerrors.NewTypeMismatchError(code, string(k.typ), string(v.Type()))
		}
	}

	s.appendValues(code, wrapAll(k, values))
	return nil
}

// replace backs the typed setters, whose kinds are always defined
func replace[T any](s *Store, k Kind[T], code string, values ...T) {
	s.put(code, wrapAll(k, values))
}

func wrapAll[T any](k Kind[T], values []T) []Value {
	result := make([]Value, 0, len(values))
	for _, t := range values {
		result = append(result, k.wrap(t))
	}
	return result
}

func unwrap[T any](k Kind[T], code string, v Value) (T, error) {
	t, ok := k.unwrap(v)
	if !ok {
		return t, kuflowerrors.NewTypeMismatchError(code, string(k.typ), string(v.Type()))
	}
	return t, nil
}

// GetValid is true only when every value under code is Valid
func (s *Store) GetValid(code string) (bool, error) {
	values := s.values[code]
	if len(values) == 0 {
		return false, kuflowerrors.NewElementNotFoundError(code)
	}

	for _, v := range values {
		if v.Validity() != Valid {
			return false, nil
		}
	}

	return true, nil
}

func (s *Store) GetValidAt(code string, index int) (Validity, error) {
	values := s.values[code]
	if index < 0 || index >= len(values) {
		return ValidityUnknown, kuflowerrors.NewIndexOutOfRangeError(code, index, len(values))
	}

	return values[index].Validity(), nil
}

// SetValid sets the same validity on every value under code
func (s *Store) SetValid(code string, valid Validity) {
	for _, v := range s.values[code] {
		v.SetValidity(valid)
	}
}

func (s *Store) SetValidAt(code string, valid Validity, index int) error {
	values := s.values[code]
	if index < 0 || index >= len(values) {
		return kuflowerrors.NewIndexOutOfRangeError(code, index, len(values))
	}

	values[index].SetValidity(valid)
	return nil
}

// MarshalJSON writes the store as an object of code -> array of element values,
// with the codes in insertion order
func (s *Store) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')

	for idx, code := range s.codes {
		if idx > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(code)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(":[")

		for vidx, v := range s.values[code] {
			if vidx > 0 {
				buf.WriteByte(',')
			}

			b, err := Encode(v)
			if err != nil {
				return nil, fmt.Errorf("failed to encode element value %q at index %d: %w", code, vidx, err)
			}
			buf.Write(b)
		}

		buf.WriteByte(']')
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the contents of the store. Codes keep the order in which
// they appear in data, and codes with a null or empty array are left out.
func (s *Store) UnmarshalJSON(data []byte) error {
	s.codes = nil
	s.values = nil

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return kuflowerrors.NewInvalidPayloadError(fmt.Sprintf("failed to unmarshal element values: %s", err.Error()))
	}

	if tok == nil {
		return nil
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return kuflowerrors.NewInvalidPayloadError("element values must be a JSON object")
	}

	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return kuflowerrors.NewInvalidPayloadError(fmt.Sprintf("failed to unmarshal element values: %s", err.Error()))
		}

		code, _ := tok.(string)

		var raw []json.RawMessage
		if err = dec.Decode(&raw); err != nil {
			return kuflowerrors.NewInvalidPayloadError(fmt.Sprintf("element values of %q must be an array: %s", code, err.Error()))
		}

		values := make([]Value, 0, len(raw))
		for idx, r := range raw {
			v, err := Decode(r)
			if err != nil {
				return fmt.Errorf("failed to decode element value %q at index %d: %w", code, idx, err)
			}
			values = append(values, v)
		}

		s.put(code, values)
	}

	return nil
}

func clone(v Value) Value {
	var c Value

	switch tv := v.(type) {
	case *StringValue:
		c = NewString(tv.val)
	case *NumberValue:
		c = NewNumber(tv.val)
	case *DateValue:
		c = NewDate(tv.val)
	case *MapValue:
		c = tv.clone()
	case *DocumentValue:
		c = NewDocument(tv.val)
	case *PrincipalValue:
		c = NewPrincipal(tv.val)
	default:
		panic(fmt.Sprintf("unexpected element value type %T", v))
	}

	c.SetValidity(v.Validity())
	return c
}
