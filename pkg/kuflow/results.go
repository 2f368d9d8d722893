package kuflow

import (
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/elements"
)

const FormValidHeader string = "KuFlow-Form-Valid"

type ValidationResult struct {
	valid           bool
	invalidElements []string
}

// NewValidationResult collects the codes of owner that hold at least one invalid value.
// A nil valid means the outcome was not reported and is derived from those codes.
func NewValidationResult(valid *bool, owner types.ElementOwner) *ValidationResult {
	vr := &ValidationResult{
		invalidElements: []string{},
	}

	for _, code := range owner.Codes() {
		for _, v := range owner.Values(code) {
			if v.Validity() == elements.Invalid {
				vr.invalidElements = append(vr.invalidElements, code)
				break
			}
		}
	}

	if valid != nil {
		vr.valid = *valid
	} else {
		vr.valid = len(vr.invalidElements) == 0
	}

	return vr
}

func (vr ValidationResult) Valid() bool {
	return vr.valid
}

// InvalidElements returns the codes holding invalid values, in the order of the owner
func (vr ValidationResult) InvalidElements() []string {
	return vr.invalidElements
}
