package references

import (
	"fmt"

	"github.com/google/uuid"
)

type PrincipalType string

const (
	PrincipalTypeUser        PrincipalType = "USER"
	PrincipalTypeApplication PrincipalType = "APPLICATION"
	PrincipalTypeSystem      PrincipalType = "SYSTEM"
)

// Document points at a file stored by the KuFlow platform
type Document struct {
	ID            uuid.UUID `json:"id"`
	URI           string    `json:"uri,omitempty"`
	Name          string    `json:"name,omitempty"`
	ContentPath   string    `json:"contentPath,omitempty"`
	ContentType   string    `json:"contentType,omitempty"`
	ContentLength int64     `json:"contentLength,omitempty"`
}

type DocumentDecoratorFunc func(d *Document)

func URI(uri string) DocumentDecoratorFunc {
	return func(d *Document) { d.URI = uri }
}

func Name(name string) DocumentDecoratorFunc {
	return func(d *Document) { d.Name = name }
}

func ContentPath(path string) DocumentDecoratorFunc {
	return func(d *Document) { d.ContentPath = path }
}

// Content sets both the content type and the content length of a document
func Content(contentType string, length int64) DocumentDecoratorFunc {
	return func(d *Document) {
		d.ContentType = contentType
		d.ContentLength = length
	}
}

// NewDocument is a convenience function for creating Document instances
func NewDocument(id uuid.UUID, decorators ...DocumentDecoratorFunc) Document {
	d := Document{ID: id}
	for _, decorator := range decorators {
		decorator(&d)
	}
	return d
}

type PrincipalUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email,omitempty"`
}

type PrincipalApplication struct {
	ID uuid.UUID `json:"id"`
}

// Principal references a user, an application or the system itself
type Principal struct {
	ID          uuid.UUID             `json:"id"`
	Type        PrincipalType         `json:"principalType,omitempty"`
	Name        string                `json:"name,omitempty"`
	User        *PrincipalUser        `json:"user,omitempty"`
	Application *PrincipalApplication `json:"application,omitempty"`
}

func NewUserPrincipal(id uuid.UUID, name, email string) Principal {
	return Principal{
		ID:   id,
		Type: PrincipalTypeUser,
		Name: name,
		User: &PrincipalUser{ID: id, Email: email},
	}
}

func NewApplicationPrincipal(id uuid.UUID, name string) Principal {
	return Principal{
		ID:          id,
		Type:        PrincipalTypeApplication,
		Name:        name,
		Application: &PrincipalApplication{ID: id},
	}
}

// Equal compares two principals by value, including the nested descriptors
func (p Principal) Equal(other Principal) bool {
	if p.ID != other.ID || p.Type != other.Type || p.Name != other.Name {
		return false
	}

	if (p.User == nil) != (other.User == nil) || (p.User != nil && *p.User != *other.User) {
		return false
	}

	if (p.Application == nil) != (other.Application == nil) || (p.Application != nil && *p.Application != *other.Application) {
		return false
	}

	return true
}

// Clone returns a copy that shares no pointers with p
func (p Principal) Clone() Principal {
	c := p
	if p.User != nil {
		u := *p.User
		c.User = &u
	}
	if p.Application != nil {
		a := *p.Application
		c.Application = &a
	}
	return c
}

// UnmarshalPrincipalType accepts the known principal types only
func UnmarshalPrincipalType(value string) (PrincipalType, error) {
	switch pt := PrincipalType(value); pt {
	case PrincipalTypeUser, PrincipalTypeApplication, PrincipalTypeSystem:
		return pt, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("principal type %s not supported", value)
	}
}
