package references

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/matryer/is"
)

var principalID = uuid.MustParse("9c1f2b7e-4a3d-4e5f-8a6b-7c8d9e0f1a2b")

func TestNewDocumentWithDecorators(t *testing.T) {
	is := is.New(t)

	id := uuid.New()
	d := NewDocument(id, Name("invoice.pdf"), Content("application/pdf", 1024), ContentPath("/files/invoice.pdf"))

	is.Equal(d.ID, id)
	is.Equal(d.Name, "invoice.pdf")
	is.Equal(d.ContentType, "application/pdf")
	is.Equal(d.ContentLength, int64(1024))
	is.Equal(d.ContentPath, "/files/invoice.pdf")
	is.Equal(d.URI, "")
}

func TestUserPrincipalJSON(t *testing.T) {
	is := is.New(t)

	p := NewUserPrincipal(principalID, "Jane", "jane@example.com")

	b, err := json.Marshal(p)
	is.NoErr(err)

	const expected string = `{"id":"9c1f2b7e-4a3d-4e5f-8a6b-7c8d9e0f1a2b","principalType":"USER","name":"Jane","user":{"id":"9c1f2b7e-4a3d-4e5f-8a6b-7c8d9e0f1a2b","email":"jane@example.com"}}`
	is.Equal(string(b), expected)
}

func TestPrincipalEqual(t *testing.T) {
	is := is.New(t)

	p := NewUserPrincipal(principalID, "Jane", "jane@example.com")
	is.True(p.Equal(NewUserPrincipal(principalID, "Jane", "jane@example.com")))
	is.True(!p.Equal(NewUserPrincipal(principalID, "Jane", "other@example.com")))
	is.True(!p.Equal(NewApplicationPrincipal(principalID, "Jane")))
}

func TestPrincipalCloneSharesNoPointers(t *testing.T) {
	is := is.New(t)

	p := NewUserPrincipal(principalID, "Jane", "jane@example.com")
	c := p.Clone()
	c.User.Email = "changed@example.com"

	is.Equal(p.User.Email, "jane@example.com")
	is.True(!p.Equal(c))
}

func TestUnmarshalPrincipalType(t *testing.T) {
	is := is.New(t)

	pt, err := UnmarshalPrincipalType("SYSTEM")
	is.NoErr(err)
	is.Equal(pt, PrincipalTypeSystem)

	pt, err = UnmarshalPrincipalType("")
	is.NoErr(err)
	is.Equal(pt, PrincipalType(""))

	_, err = UnmarshalPrincipalType("ROBOT")
	is.True(err != nil)
}
