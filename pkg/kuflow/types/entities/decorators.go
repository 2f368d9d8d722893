package entities

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/elements"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/references"
)

type decoratable interface {
	base() *entityImpl
}

type EntityDecoratorFunc func(e decoratable)

func Tenant(tenantID uuid.UUID) EntityDecoratorFunc {
	return func(e decoratable) { e.base().tenantID = tenantID }
}

func Created(by uuid.UUID, at time.Time) EntityDecoratorFunc {
	return func(e decoratable) {
		a := &e.base().audited
		a.CreatedBy, a.CreatedAt = &by, &at
	}
}

func LastModified(by uuid.UUID, at time.Time) EntityDecoratorFunc {
	return func(e decoratable) {
		a := &e.base().audited
		a.LastModifiedBy, a.LastModifiedAt = &by, &at
	}
}

func Text(code string, values ...string) EntityDecoratorFunc {
	return func(e decoratable) { e.base().SetAsStringList(code, values) }
}

func Number(code string, values ...float64) EntityDecoratorFunc {
	return func(e decoratable) { e.base().SetAsDoubleList(code, values) }
}

func Date(code string, values ...civil.Date) EntityDecoratorFunc {
	return func(e decoratable) { e.base().SetAsDateList(code, values) }
}

func Map(code string, values ...map[string]any) EntityDecoratorFunc {
	return func(e decoratable) { e.base().SetAsMapList(code, values) }
}

func Document(code string, values ...references.Document) EntityDecoratorFunc {
	return func(e decoratable) { e.base().SetAsDocumentList(code, values) }
}

func Principal(code string, values ...references.Principal) EntityDecoratorFunc {
	return func(e decoratable) { e.base().SetAsPrincipalList(code, values) }
}

// Valid sets the validity of every value already decorated onto code
func Valid(code string, valid elements.Validity) EntityDecoratorFunc {
	return func(e decoratable) { e.base().SetValid(code, valid) }
}

type taskDecoratable interface {
	task() *Task
}

type processDecoratable interface {
	process() *Process
}

// The decorators below only apply to tasks or processes and are ignored by other entities

func TaskDefinition(definition TaskDefinitionSummary) EntityDecoratorFunc {
	return func(e decoratable) {
		if t, ok := e.(taskDecoratable); ok {
			t.task().definition = definition
		}
	}
}

func TaskStatus(state TaskState) EntityDecoratorFunc {
	return func(e decoratable) {
		if t, ok := e.(taskDecoratable); ok {
			t.task().state = state
		}
	}
}

func InProcess(processID uuid.UUID) EntityDecoratorFunc {
	return func(e decoratable) {
		if t, ok := e.(taskDecoratable); ok {
			t.task().processID = processID
		}
	}
}

func Owner(owner references.Principal) EntityDecoratorFunc {
	return func(e decoratable) {
		if t, ok := e.(taskDecoratable); ok {
			o := owner.Clone()
			t.task().owner = &o
		}
	}
}

func ProcessDefinition(definition ProcessDefinitionSummary) EntityDecoratorFunc {
	return func(e decoratable) {
		if p, ok := e.(processDecoratable); ok {
			p.process().definition = definition
		}
	}
}

func ProcessStatus(state ProcessState) EntityDecoratorFunc {
	return func(e decoratable) {
		if p, ok := e.(processDecoratable); ok {
			p.process().state = state
		}
	}
}

func Initiator(principalID uuid.UUID) EntityDecoratorFunc {
	return func(e decoratable) {
		if p, ok := e.(processDecoratable); ok {
			p.process().initiatorID = principalID
		}
	}
}
