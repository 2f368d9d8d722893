package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/elements"
	"github.com/open-policy-agent/opa/rego"
)

// Rules decides on the validity of single element values with a rego policy
type Rules interface {
	Allow(ctx context.Context, form, code string, index int, value elements.Value) (bool, error)
}

type rulesImpl struct {
	preparedQuery rego.PreparedEvalQuery
}

func NewRules(ctx context.Context, policies io.Reader) (Rules, error) {

	module, err := io.ReadAll(policies)
	if err != nil {
		return nil, fmt.Errorf("unable to read form policies: %s", err.Error())
	}

	impl := &rulesImpl{}

	impl.preparedQuery, err = rego.New(
		rego.Query("x = data.kuflow.forms.valid"),
		rego.Module("forms.rego", string(module)),
	).PrepareForEval(ctx)

	if err != nil {
		return nil, err
	}

	return impl, nil
}

func (r *rulesImpl) Allow(ctx context.Context, form, code string, index int, value elements.Value) (bool, error) {
	var err error

	_, span := tracer.Start(ctx, "evaluate-rules")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	element, err := asInput(value)
	if err != nil {
		return false, err
	}

	input := map[string]any{
		"form":    form,
		"code":    code,
		"index":   index,
		"type":    string(value.Type()),
		"value":   element["value"],
		"element": element,
	}

	results, err := r.preparedQuery.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		err = fmt.Errorf("opa eval failed: %w", err)
		return false, err
	}

	// a policy that does not define valid has no opinion on the value
	if len(results) == 0 {
		return true, nil
	}

	allowed, ok := results[0].Bindings["x"].(bool)
	if !ok {
		err = errors.New("opa error: unexpected result type")
		return false, err
	}

	return allowed, nil
}

// asInput converts an element value to its untyped wire representation
func asInput(value elements.Value) (map[string]any, error) {
	b, err := elements.Encode(value)
	if err != nil {
		return nil, err
	}

	element := map[string]any{}
	if err = json.Unmarshal(b, &element); err != nil {
		return nil, err
	}

	return element, nil
}
