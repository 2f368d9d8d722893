package forms

import (
	"bytes"
	"testing"

	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/elements"
	"github.com/matryer/is"
)

func TestLoadConfig(t *testing.T) {
	is, config := setupConfigTest(t)

	is.Equal(len(config.Forms), 2) // should have two forms
	is.Equal(config.Forms[0].Code, "INVOICE")
	is.Equal(len(config.Forms[0].Elements), 6)
}

func TestLoadElementDefinition(t *testing.T) {
	is, config := setupConfigTest(t)
	amount := config.Forms[0].Elements[1]

	is.Equal(amount.Code, "amount")
	is.Equal(amount.Type, elements.TypeNumber)
	is.True(amount.Required)
	is.Equal(*amount.Min, 0.0)
	is.Equal(*amount.Max, 10000.0)
}

func TestLoadCompilesPatternsAndDates(t *testing.T) {
	is, config := setupConfigTest(t)
	reference := config.Forms[0].Elements[0]
	due := config.Forms[0].Elements[2]

	is.True(reference.pattern != nil)
	is.True(due.minDate != nil)
	is.Equal(due.minDate.String(), "2024-01-01")
}

func TestLoadRejectsInvalidDefinitions(t *testing.T) {
	is := is.New(t)

	for _, cfg := range []string{
		"forms:\n  - code: A\n    elements:\n      - code: x\n        type: BOOLEAN\n",
		"forms:\n  - code: A\n    elements:\n      - type: STRING\n",
		"forms:\n  - code: A\n    elements: []\n",
		"forms:\n  - code: A\n    elements:\n      - code: x\n        type: STRING\n        pattern: \"[\"\n",
		"forms:\n  - code: A\n    elements:\n      - code: x\n        type: DATE\n        minDate: 2024-01-01T00:00:00Z\n",
		"forms:\n  - code: A\n    elements:\n      - code: x\n        type: NUMBER\n        min: 10\n        max: 1\n",
		"forms:\n  - code: A\n    elements:\n      - code: x\n        type: STRING\n      - code: x\n        type: NUMBER\n",
		"forms:\n  - code: A\n    elements:\n      - code: x\n        type: PRINCIPAL\n        principalTypes: [ROBOT]\n",
		"forms: [",
	} {
		_, err := LoadConfiguration(bytes.NewBufferString(cfg))
		is.True(err != nil) // definitions should be rejected
	}
}

func setupConfigTest(t *testing.T) (*is.I, *Config) {
	is := is.New(t)
	cfgData := bytes.NewBuffer([]byte(configFile))
	config, err := LoadConfiguration(cfgData)
	is.NoErr(err)

	return is, config
}

var configFile string = `
forms:
  - code: INVOICE
    name: Invoice approval
    elements:
      - code: reference
        type: STRING
        required: true
        pattern: ^INV-[0-9]{4}$
      - code: amount
        type: NUMBER
        required: true
        min: 0
        max: 10000
      - code: dueDate
        type: DATE
        minDate: "2024-01-01"
      - code: tags
        type: STRING
        multiple: true
        maxLength: 5
      - code: invoice
        type: DOCUMENT
        contentTypes: [application/pdf]
      - code: approver
        type: PRINCIPAL
        principalTypes: [USER]
  - code: ADDRESS
    elements:
      - code: address
        type: MAP
        required: true
`
