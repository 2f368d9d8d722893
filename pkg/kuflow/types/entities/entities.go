package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	kuflowerrors "github.com/kuflow/kuflow-sdk-go/pkg/kuflow/errors"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/elements"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/references"
)

const (
	ObjectTypeTask    string = "TASK"
	ObjectTypeProcess string = "PROCESS"
)

type TaskState string

const (
	TaskStateReady     TaskState = "READY"
	TaskStateClaimed   TaskState = "CLAIMED"
	TaskStateCompleted TaskState = "COMPLETED"
	TaskStateCancelled TaskState = "CANCELLED"
)

type ProcessState string

const (
	ProcessStateRunning   ProcessState = "RUNNING"
	ProcessStateCompleted ProcessState = "COMPLETED"
	ProcessStateCancelled ProcessState = "CANCELLED"
)

type TaskDefinitionSummary struct {
	ID      uuid.UUID `json:"id"`
	Version string    `json:"version,omitempty"`
	Code    string    `json:"code"`
	Name    string    `json:"name,omitempty"`
}

type ProcessDefinitionSummary struct {
	ID      uuid.UUID `json:"id"`
	Version string    `json:"version,omitempty"`
	Name    string    `json:"name,omitempty"`
}

// Audited holds the creation and modification stamps the platform writes on its objects
type Audited struct {
	CreatedBy      *uuid.UUID `json:"createdBy,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	LastModifiedBy *uuid.UUID `json:"lastModifiedBy,omitempty"`
	LastModifiedAt *time.Time `json:"lastModifiedAt,omitempty"`
}

// entityImpl contains what tasks and processes have in common, including the element
// value store whose accessor families are promoted to the owning entity
type entityImpl struct {
	elements.Store

	id       uuid.UUID
	tenantID uuid.UUID
	audited  Audited
}

func (e *entityImpl) base() *entityImpl {
	return e
}

func (e *entityImpl) ID() uuid.UUID {
	return e.id
}

func (e *entityImpl) TenantID() uuid.UUID {
	return e.tenantID
}

func (e *entityImpl) Audit() Audited {
	return e.audited
}

func optionalID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func valueOrNil(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

// Task is a unit of work within a process. Its element values are reached through the
// accessor families promoted from elements.Store.
type Task struct {
	entityImpl

	state      TaskState
	definition TaskDefinitionSummary
	processID  uuid.UUID
	owner      *references.Principal
}

func (t *Task) task() *Task {
	return t
}

func (t *Task) ObjectType() string {
	return ObjectTypeTask
}

func (t *Task) State() TaskState {
	return t.state
}

func (t *Task) Definition() TaskDefinitionSummary {
	return t.definition
}

func (t *Task) ProcessID() uuid.UUID {
	return t.processID
}

// Owner returns the principal the task is assigned to, if any
func (t *Task) Owner() (references.Principal, bool) {
	if t.owner == nil {
		return references.Principal{}, false
	}
	return t.owner.Clone(), true
}

type taskJSON struct {
	ObjectType string `json:"objectType"`
	Audited
	TaskDefinition *TaskDefinitionSummary `json:"taskDefinition,omitempty"`
	ProcessID      *uuid.UUID             `json:"processId,omitempty"`
	ID             *uuid.UUID             `json:"id"`
	State          TaskState              `json:"state,omitempty"`
	ElementValues  *elements.Store        `json:"elementValues"`
	Owner          *references.Principal  `json:"owner,omitempty"`
	TenantID       *uuid.UUID             `json:"tenantId,omitempty"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	var definition *TaskDefinitionSummary
	if t.definition.ID != uuid.Nil || t.definition.Code != "" {
		definition = &t.definition
	}

	return json.Marshal(&taskJSON{
		ObjectType:     ObjectTypeTask,
		Audited:        t.audited,
		TaskDefinition: definition,
		ProcessID:      optionalID(t.processID),
		ID:             &t.id,
		State:          t.state,
		ElementValues:  &t.Store,
		Owner:          t.owner,
		TenantID:       optionalID(t.tenantID),
	})
}

func (t *Task) UnmarshalJSON(data []byte) error {
	*t = Task{}

	contents := taskJSON{ElementValues: &t.Store}
	if err := json.Unmarshal(data, &contents); err != nil {
		return fmt.Errorf("failed to unmarshal task: %w", err)
	}

	if contents.ObjectType != "" && contents.ObjectType != ObjectTypeTask {
		return kuflowerrors.NewInvalidPayloadError(fmt.Sprintf("object type %q is not a task", contents.ObjectType))
	}

	t.id = valueOrNil(contents.ID)
	t.state = contents.State
	t.processID = valueOrNil(contents.ProcessID)
	t.owner = contents.Owner
	t.tenantID = valueOrNil(contents.TenantID)
	t.audited = contents.Audited

	if contents.TaskDefinition != nil {
		t.definition = *contents.TaskDefinition
	}

	return nil
}

// TaskPageItem is the summary of a task returned when listing tasks
type TaskPageItem struct {
	Task
}

// Process is an instance of a process definition
type Process struct {
	entityImpl

	state       ProcessState
	definition  ProcessDefinitionSummary
	initiatorID uuid.UUID
}

func (p *Process) process() *Process {
	return p
}

func (p *Process) ObjectType() string {
	return ObjectTypeProcess
}

func (p *Process) State() ProcessState {
	return p.state
}

func (p *Process) Definition() ProcessDefinitionSummary {
	return p.definition
}

func (p *Process) InitiatorID() uuid.UUID {
	return p.initiatorID
}

type processJSON struct {
	ObjectType string `json:"objectType"`
	Audited
	ID                *uuid.UUID                `json:"id"`
	State             ProcessState              `json:"state,omitempty"`
	ProcessDefinition *ProcessDefinitionSummary `json:"processDefinition,omitempty"`
	ElementValues     *elements.Store           `json:"elementValues"`
	InitiatorID       *uuid.UUID                `json:"initiatorId,omitempty"`
	TenantID          *uuid.UUID                `json:"tenantId,omitempty"`
}

func (p Process) MarshalJSON() ([]byte, error) {
	var definition *ProcessDefinitionSummary
	if p.definition.ID != uuid.Nil {
		definition = &p.definition
	}

	return json.Marshal(&processJSON{
		ObjectType:        ObjectTypeProcess,
		Audited:           p.audited,
		ID:                &p.id,
		State:             p.state,
		ProcessDefinition: definition,
		ElementValues:     &p.Store,
		InitiatorID:       optionalID(p.initiatorID),
		TenantID:          optionalID(p.tenantID),
	})
}

func (p *Process) UnmarshalJSON(data []byte) error {
	*p = Process{}

	contents := processJSON{ElementValues: &p.Store}
	if err := json.Unmarshal(data, &contents); err != nil {
		return fmt.Errorf("failed to unmarshal process: %w", err)
	}

	if contents.ObjectType != "" && contents.ObjectType != ObjectTypeProcess {
		return kuflowerrors.NewInvalidPayloadError(fmt.Sprintf("object type %q is not a process", contents.ObjectType))
	}

	p.id = valueOrNil(contents.ID)
	p.state = contents.State
	p.initiatorID = valueOrNil(contents.InitiatorID)
	p.tenantID = valueOrNil(contents.TenantID)
	p.audited = contents.Audited

	if contents.ProcessDefinition != nil {
		p.definition = *contents.ProcessDefinition
	}

	return nil
}

// ProcessPageItem is the summary of a process returned when listing processes
type ProcessPageItem struct {
	Process
}

var _ types.Entity = &Task{}
var _ types.Entity = &TaskPageItem{}
var _ types.Entity = &Process{}
var _ types.Entity = &ProcessPageItem{}

func NewTask(id uuid.UUID, decorators ...EntityDecoratorFunc) *Task {
	t := &Task{}
	t.id = id

	for _, decorator := range decorators {
		decorator(t)
	}

	return t
}

func NewProcess(id uuid.UUID, decorators ...EntityDecoratorFunc) *Process {
	p := &Process{}
	p.id = id

	for _, decorator := range decorators {
		decorator(p)
	}

	return p
}

func NewTaskFromJSON(body []byte) (*Task, error) {
	t := &Task{}

	err := json.Unmarshal(body, t)
	if err != nil {
		return nil, err
	}

	if t.ID() == uuid.Nil {
		return nil, kuflowerrors.NewInvalidPayloadError("task without an id")
	}

	return t, nil
}

func NewTaskPageItemFromJSON(body []byte) (*TaskPageItem, error) {
	t, err := NewTaskFromJSON(body)
	if err != nil {
		return nil, err
	}
	return &TaskPageItem{Task: *t}, nil
}

func NewProcessFromJSON(body []byte) (*Process, error) {
	p := &Process{}

	err := json.Unmarshal(body, p)
	if err != nil {
		return nil, err
	}

	if p.ID() == uuid.Nil {
		return nil, kuflowerrors.NewInvalidPayloadError("process without an id")
	}

	return p, nil
}

func NewProcessPageItemFromJSON(body []byte) (*ProcessPageItem, error) {
	p, err := NewProcessFromJSON(body)
	if err != nil {
		return nil, err
	}
	return &ProcessPageItem{Process: *p}, nil
}
