package types

import (
	"github.com/google/uuid"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/elements"
)

// ElementOwner is implemented by everything that carries element values, such as
// tasks, processes and their page items
type ElementOwner interface {
	Codes() []string
	Has(code string) bool
	Values(code string) []elements.Value

	GetValidAt(code string, index int) (elements.Validity, error)
	SetValid(code string, valid elements.Validity)
	SetValidAt(code string, valid elements.Validity, index int) error
}

type Entity interface {
	ElementOwner

	ID() uuid.UUID
	ObjectType() string
	MarshalJSON() ([]byte, error)
}
