package elements

import (
	"cloud.google.com/go/civil"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/references"
)

// The methods in this file are the typed accessor families exposed by every owner of a
// Store. Null forms of the scalar setters are Remove (for Set) and a no-op (for Add); the
// generic functions Set and Add accept pointers for callers that carry optional values.

// GetAsString returns the first value under code as a text value
func (s *Store) GetAsString(code string) (string, error) {
	return Get(s, Strings, code)
}

// FindAsString reports absence of code through its boolean result
func (s *Store) FindAsString(code string) (string, bool, error) {
	return Find(s, Strings, code)
}

func (s *Store) GetAsStringList(code string) ([]string, error) {
	return GetList(s, Strings, code)
}

func (s *Store) SetAsString(code string, value string) {
	replace(s, Strings, code, value)
}

func (s *Store) SetAsStringList(code string, values []string) {
	replace(s, Strings, code, values...)
}

func (s *Store) AddAsString(code string, value string) error {
	return Add(s, Strings, code, &value)
}

func (s *Store) AddAsStringList(code string, values []string) error {
	return AddList(s, Strings, code, values)
}

func (s *Store) GetAsDouble(code string) (float64, error) {
	return Get(s, Numbers, code)
}

func (s *Store) FindAsDouble(code string) (float64, bool, error) {
	return Find(s, Numbers, code)
}

func (s *Store) GetAsDoubleList(code string) ([]float64, error) {
	return GetList(s, Numbers, code)
}

func (s *Store) SetAsDouble(code string, value float64) {
	replace(s, Numbers, code, value)
}

func (s *Store) SetAsDoubleList(code string, values []float64) {
	replace(s, Numbers, code, values...)
}

func (s *Store) AddAsDouble(code string, value float64) error {
	return Add(s, Numbers, code, &value)
}

func (s *Store) AddAsDoubleList(code string, values []float64) error {
	return AddList(s, Numbers, code, values)
}

func (s *Store) GetAsDate(code string) (civil.Date, error) {
	return Get(s, Dates, code)
}

func (s *Store) FindAsDate(code string) (civil.Date, bool, error) {
	return Find(s, Dates, code)
}

func (s *Store) GetAsDateList(code string) ([]civil.Date, error) {
	return GetList(s, Dates, code)
}

func (s *Store) SetAsDate(code string, value civil.Date) {
	replace(s, Dates, code, value)
}

func (s *Store) SetAsDateList(code string, values []civil.Date) {
	replace(s, Dates, code, values...)
}

func (s *Store) AddAsDate(code string, value civil.Date) error {
	return Add(s, Dates, code, &value)
}

func (s *Store) AddAsDateList(code string, values []civil.Date) error {
	return AddList(s, Dates, code, values)
}

func (s *Store) GetAsMap(code string) (map[string]any, error) {
	return Get(s, Maps, code)
}

func (s *Store) FindAsMap(code string) (map[string]any, bool, error) {
	return Find(s, Maps, code)
}

func (s *Store) GetAsMapList(code string) ([]map[string]any, error) {
	return GetList(s, Maps, code)
}

// SetAsMap removes code when value is nil
func (s *Store) SetAsMap(code string, value map[string]any) {
	if value == nil {
		s.Remove(code)
		return
	}
	replace(s, Maps, code, value)
}

func (s *Store) SetAsMapList(code string, values []map[string]any) {
	replace(s, Maps, code, values...)
}

func (s *Store) AddAsMap(code string, value map[string]any) error {
	if value == nil {
		return nil
	}
	return Add(s, Maps, code, &value)
}

func (s *Store) AddAsMapList(code string, values []map[string]any) error {
	return AddList(s, Maps, code, values)
}

func (s *Store) GetAsDocument(code string) (references.Document, error) {
	return Get(s, Documents, code)
}

func (s *Store) FindAsDocument(code string) (references.Document, bool, error) {
	return Find(s, Documents, code)
}

func (s *Store) GetAsDocumentList(code string) ([]references.Document, error) {
	return GetList(s, Documents, code)
}

func (s *Store) SetAsDocument(code string, value references.Document) {
	replace(s, Documents, code, value)
}

func (s *Store) SetAsDocumentList(code string, values []references.Document) {
	replace(s, Documents, code, values...)
}

func (s *Store) AddAsDocument(code string, value references.Document) error {
	return Add(s, Documents, code, &value)
}

func (s *Store) AddAsDocumentList(code string, values []references.Document) error {
	return AddList(s, Documents, code, values)
}

func (s *Store) GetAsPrincipal(code string) (references.Principal, error) {
	return Get(s, Principals, code)
}

func (s *Store) FindAsPrincipal(code string) (references.Principal, bool, error) {
	return Find(s, Principals, code)
}

func (s *Store) GetAsPrincipalList(code string) ([]references.Principal, error) {
	return GetList(s, Principals, code)
}

func (s *Store) SetAsPrincipal(code string, value references.Principal) {
	replace(s, Principals, code, value)
}

func (s *Store) SetAsPrincipalList(code string, values []references.Principal) {
	replace(s, Principals, code, values...)
}

func (s *Store) AddAsPrincipal(code string, value references.Principal) error {
	return Add(s, Principals, code, &value)
}

func (s *Store) AddAsPrincipalList(code string, values []references.Principal) error {
	return AddList(s, Principals, code, values)
}
