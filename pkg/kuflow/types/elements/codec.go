package elements

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	kuflowerrors "github.com/kuflow/kuflow-sdk-go/pkg/kuflow/errors"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/references"
)

// Encode writes the wire representation of a single element value
func Encode(v Value) ([]byte, error) {
	if v == nil {
		return nil, kuflowerrors.NewInvalidPayloadError("cannot encode a nil element value")
	}
	return json.Marshal(v)
}

func (sv *StringValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Valid Validity `json:"valid"`
		Type  Type     `json:"type"`
		Val   string   `json:"value"`
	}{sv.valid, sv.typ, sv.val})
}

func (nv *NumberValue) MarshalJSON() ([]byte, error) {
	if math.IsNaN(nv.val) || math.IsInf(nv.val, 0) {
		return nil, kuflowerrors.NewInvalidPayloadError(fmt.Sprintf("number %v has no JSON representation", nv.val))
	}

	return json.Marshal(struct {
		Valid Validity `json:"valid"`
		Type  Type     `json:"type"`
		Val   float64  `json:"value"`
	}{nv.valid, nv.typ, nv.val})
}

func (dv *DateValue) MarshalJSON() ([]byte, error) {
	// the wire format has room for four digit years only
	if !dv.val.IsValid() || dv.val.Year < 0 || dv.val.Year > 9999 {
		return nil, kuflowerrors.NewInvalidPayloadError(fmt.Sprintf("date %s is not a valid calendar date", dv.val))
	}

	return json.Marshal(struct {
		Valid Validity `json:"valid"`
		Type  Type     `json:"type"`
		Val   string   `json:"value"`
	}{dv.valid, dv.typ, dv.val.String()})
}

func (mv *MapValue) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')

	for idx, key := range mv.keys {
		if idx > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(key)
		if err != nil {
			return nil, kuflowerrors.NewInvalidPayloadError(fmt.Sprintf("map key %q has no JSON representation", key))
		}

		v, err := json.Marshal(mv.val[key])
		if err != nil {
			return nil, kuflowerrors.NewInvalidPayloadError(fmt.Sprintf("map entry %q has no JSON representation: %s", key, err.Error()))
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')

	return json.Marshal(struct {
		Valid Validity        `json:"valid"`
		Type  Type            `json:"type"`
		Val   json.RawMessage `json:"value"`
	}{mv.valid, mv.typ, buf.Bytes()})
}

func (dv *DocumentValue) MarshalJSON() ([]byte, error) {
	if dv.val.ID == uuid.Nil {
		return nil, kuflowerrors.NewInvalidPayloadError("document element value without an id")
	}

	return json.Marshal(struct {
		Valid Validity `json:"valid"`
		Type  Type     `json:"type"`
		references.Document
	}{dv.valid, dv.typ, dv.val})
}

func (pv *PrincipalValue) MarshalJSON() ([]byte, error) {
	if pv.val.ID == uuid.Nil {
		return nil, kuflowerrors.NewInvalidPayloadError("principal element value without an id")
	}

	return json.Marshal(struct {
		Valid Validity `json:"valid"`
		Type  Type     `json:"type"`
		references.Principal
	}{pv.valid, pv.typ, pv.val})
}

// Decode reads the "type" discriminator of an element value object and hands the
// object over to the matching variant decoder
func Decode(data []byte) (Value, error) {
	header := struct {
		Type  json.RawMessage `json:"type"`
		Valid Validity        `json:"valid"`
		Value json.RawMessage `json:"value"`
	}{}

	if err := json.Unmarshal(data, &header); err != nil {
		return nil, kuflowerrors.NewInvalidPayloadError(fmt.Sprintf("failed to unmarshal element value: %s", err.Error()))
	}

	if isMissing(header.Type) {
		return nil, kuflowerrors.NewUnknownVariantError("")
	}

	var discriminator string
	if err := json.Unmarshal(header.Type, &discriminator); err != nil {
		return nil, kuflowerrors.NewUnknownVariantError(string(header.Type))
	}

	var v Value
	var err error

	switch Type(discriminator) {
	case TypeString:
		v, err = decodeString(header.Value)
	case TypeNumber:
		v, err = decodeNumber(header.Value)
	case TypeDate:
		v, err = decodeDate(header.Value)
	case TypeMap, typeObject:
		v, err = decodeMap(header.Value)
	case TypeDocument:
		v, err = decodeDocument(data)
	case TypePrincipal:
		v, err = decodePrincipal(data)
	default:
		return nil, kuflowerrors.NewUnknownVariantError(discriminator)
	}

	if err != nil {
		return nil, err
	}

	v.SetValidity(header.Valid)
	return v, nil
}

func isMissing(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func decodeString(raw json.RawMessage) (Value, error) {
	if isMissing(raw) {
		return nil, kuflowerrors.NewInvalidPayloadError("string element value without a value")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, kuflowerrors.NewInvalidPayloadError(fmt.Sprintf("string element value %s is not a string", string(raw)))
	}

	return NewString(s), nil
}

func decodeNumber(raw json.RawMessage) (Value, error) {
	if isMissing(raw) {
		return nil, kuflowerrors.NewInvalidPayloadError("number element value without a value")
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, kuflowerrors.NewInvalidPayloadError(fmt.Sprintf("number element value %s is not a number", string(raw)))
	}

	return NewNumber(f), nil
}

func decodeDate(raw json.RawMessage) (Value, error) {
	if isMissing(raw) {
		return nil, kuflowerrors.NewInvalidPayloadError("date element value without a value")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, kuflowerrors.NewInvalidPayloadError(fmt.Sprintf("date element value %s is not a string", string(raw)))
	}

	// civil.ParseDate rejects anything with a time component
	d, err := civil.ParseDate(s)
	if err != nil {
		return nil, kuflowerrors.NewInvalidPayloadError(fmt.Sprintf("date element value %q is not a calendar date", s))
	}

	return NewDate(d), nil
}

// decodeMap reads the payload object token by token so that its keys keep their order
func decodeMap(raw json.RawMessage) (Value, error) {
	if isMissing(raw) {
		return nil, kuflowerrors.NewInvalidPayloadError("map element value without a value")
	}

	notAnObject := kuflowerrors.NewInvalidPayloadError(fmt.Sprintf("map element value %s is not an object", string(raw)))

	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, notAnObject
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, notAnObject
	}

	mv := &MapValue{ValueImpl: ValueImpl{typ: TypeMap}, val: map[string]any{}}

	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, notAnObject
		}

		key, _ := tok.(string)

		var entry any
		if err = dec.Decode(&entry); err != nil {
			return nil, notAnObject
		}

		// a repeated key keeps its first position and its last value
		if _, exists := mv.val[key]; !exists {
			mv.keys = append(mv.keys, key)
		}
		mv.val[key] = entry
	}

	return mv, nil
}

func decodeDocument(data []byte) (Value, error) {
	doc := references.Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, kuflowerrors.NewInvalidPayloadError(fmt.Sprintf("failed to unmarshal document element value: %s", err.Error()))
	}

	if doc.ID == uuid.Nil {
		return nil, kuflowerrors.NewInvalidPayloadError("document element value without an id")
	}

	return NewDocument(doc), nil
}

func decodePrincipal(data []byte) (Value, error) {
	p := references.Principal{}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, kuflowerrors.NewInvalidPayloadError(fmt.Sprintf("failed to unmarshal principal element value: %s", err.Error()))
	}

	if p.ID == uuid.Nil {
		return nil, kuflowerrors.NewInvalidPayloadError("principal element value without an id")
	}

	pt, err := references.UnmarshalPrincipalType(string(p.Type))
	if err != nil {
		return nil, kuflowerrors.NewInvalidPayloadError(err.Error())
	}
	p.Type = pt

	return &PrincipalValue{ValueImpl: ValueImpl{typ: TypePrincipal}, val: p}, nil
}
