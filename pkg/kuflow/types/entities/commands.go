package entities

import (
	"encoding/json"
	"fmt"

	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/elements"
)

// ElementValueList is a list of element values that decodes each item by its discriminator
type ElementValueList []elements.Value

func (l *ElementValueList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("element values must be an array: %w", err)
	}

	values := make(ElementValueList, 0, len(raw))
	for idx, r := range raw {
		v, err := elements.Decode(r)
		if err != nil {
			return fmt.Errorf("failed to decode element value at index %d: %w", idx, err)
		}
		values = append(values, v)
	}

	*l = values
	return nil
}

// TaskSaveElementCommand replaces the values of one element of a task
type TaskSaveElementCommand struct {
	ElementDefinitionCode string           `json:"elementDefinitionCode"`
	ElementValues         ElementValueList `json:"elementValues"`
}

// ProcessSaveElementCommand replaces the values of one element of a process
type ProcessSaveElementCommand struct {
	ElementDefinitionCode string           `json:"elementDefinitionCode"`
	ElementValues         ElementValueList `json:"elementValues"`
}

// NewTaskSaveElementCommand copies the current values of code from owner. An absent
// code gives a command with an empty list, which deletes the element when saved.
func NewTaskSaveElementCommand(owner types.ElementOwner, code string) TaskSaveElementCommand {
	return TaskSaveElementCommand{
		ElementDefinitionCode: code,
		ElementValues:         owner.Values(code),
	}
}

func NewProcessSaveElementCommand(owner types.ElementOwner, code string) ProcessSaveElementCommand {
	return ProcessSaveElementCommand{
		ElementDefinitionCode: code,
		ElementValues:         owner.Values(code),
	}
}
