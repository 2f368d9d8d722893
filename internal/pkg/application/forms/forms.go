package forms

import (
	"context"
	"fmt"
	"slices"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	kuflowerrors "github.com/kuflow/kuflow-sdk-go/pkg/kuflow/errors"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/elements"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("kuflow-forms/validator")

var validatedValues = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kuflow_forms_validated_values_total",
	Help: "Total element values validated, by form and outcome",
}, []string{"form", "outcome"})

// FormValidator checks the element values of an owner against a form definition and
// writes the outcome into the validity flag of every checked value
type FormValidator interface {
	Validate(ctx context.Context, formCode string, owner types.ElementOwner, options ...ValidationOption) (*Report, error)
	Forms() []Form
	Form(formCode string) (Form, error)
}

type ElementReport struct {
	Code     string   `json:"code"`
	Valid    bool     `json:"valid"`
	Messages []string `json:"messages,omitempty"`
}

// Report summarizes a validation. Elements are listed in the order of the form
// definition, followed by undefined elements when validating strictly.
type Report struct {
	Form     string          `json:"form"`
	Valid    bool            `json:"valid"`
	Elements []ElementReport `json:"elements"`
}

type validationOptions struct {
	only   []string
	strict bool
}

type ValidationOption func(*validationOptions)

// OnlyElements limits the validation to the given codes
func OnlyElements(codes ...string) ValidationOption {
	return func(vo *validationOptions) {
		vo.only = append(vo.only, codes...)
	}
}

// Strict flags values stored under codes that the form does not define as invalid
func Strict(enabled bool) ValidationOption {
	return func(vo *validationOptions) {
		vo.strict = enabled
	}
}

type formValidator struct {
	forms map[string]Form
	order []string
	rules Rules
}

// New creates a validator for the forms in cfg. Rules may be nil.
func New(ctx context.Context, cfg Config, rules Rules) (FormValidator, error) {
	v := &formValidator{
		forms: make(map[string]Form),
		rules: rules,
	}

	for _, form := range cfg.Forms {
		if _, exists := v.forms[form.Code]; exists {
			return nil, fmt.Errorf("form %q defined more than once", form.Code)
		}

		v.forms[form.Code] = form
		v.order = append(v.order, form.Code)
	}

	logging.GetFromContext(ctx).Info("form validator created", "forms", len(v.order), "rules", rules != nil)

	return v, nil
}

func (v *formValidator) Forms() []Form {
	result := make([]Form, 0, len(v.order))
	for _, code := range v.order {
		result = append(result, v.forms[code])
	}
	return result
}

func (v *formValidator) Form(formCode string) (Form, error) {
	form, ok := v.forms[formCode]
	if !ok {
		return Form{}, kuflowerrors.NewUnknownFormError(formCode)
	}
	return form, nil
}

func (v *formValidator) Validate(ctx context.Context, formCode string, owner types.ElementOwner, options ...ValidationOption) (*Report, error) {
	var err error

	ctx, span := tracer.Start(ctx, "validate-form",
		trace.WithAttributes(attribute.String("form-code", formCode)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	form, ok := v.forms[formCode]
	if !ok {
		err = kuflowerrors.NewUnknownFormError(formCode)
		return nil, err
	}

	opts := &validationOptions{}
	for _, option := range options {
		option(opts)
	}

	selected := func(code string) bool {
		return len(opts.only) == 0 || slices.Contains(opts.only, code)
	}

	report := &Report{
		Form:     formCode,
		Valid:    true,
		Elements: []ElementReport{},
	}

	for idx := range form.Elements {
		ed := &form.Elements[idx]
		if !selected(ed.Code) {
			continue
		}

		var er ElementReport
		er, err = v.validateElement(ctx, formCode, ed, owner)
		if err != nil {
			return nil, err
		}

		report.Valid = report.Valid && er.Valid
		report.Elements = append(report.Elements, er)
	}

	if opts.strict {
		for _, code := range owner.Codes() {
			if !selected(code) || slices.ContainsFunc(form.Elements, func(ed ElementDefinition) bool { return ed.Code == code }) {
				continue
			}

			owner.SetValid(code, elements.Invalid)
			validatedValues.WithLabelValues(formCode, "undefined").Add(float64(len(owner.Values(code))))

			report.Valid = false
			report.Elements = append(report.Elements, ElementReport{
				Code:     code,
				Valid:    false,
				Messages: []string{fmt.Sprintf("element is not defined by form %s", formCode)},
			})
		}
	}

	logging.GetFromContext(ctx).Debug("form validated", "form", formCode, "valid", report.Valid, "elements", len(report.Elements))

	return report, nil
}

func (v *formValidator) validateElement(ctx context.Context, formCode string, ed *ElementDefinition, owner types.ElementOwner) (ElementReport, error) {
	values := owner.Values(ed.Code)

	er := ElementReport{Code: ed.Code}
	er.Messages = ed.checkElement(values)
	er.Valid = len(er.Messages) == 0

	for idx, value := range values {
		violations := ed.checkValue(value)

		if len(violations) == 0 && v.rules != nil {
			allowed, err := v.rules.Allow(ctx, formCode, ed.Code, idx, value)
			if err != nil {
				return er, fmt.Errorf("failed to evaluate rules for %s[%d]: %w", ed.Code, idx, err)
			}

			if !allowed {
				violations = append(violations, "rejected by form policy")
			}
		}

		valid := er.Valid && len(violations) == 0
		if err := owner.SetValidAt(ed.Code, elements.ValidityOf(valid), idx); err != nil {
			return er, err
		}

		outcome := "valid"
		if !valid {
			outcome = "invalid"
		}
		validatedValues.WithLabelValues(formCode, outcome).Inc()

		for _, violation := range violations {
			er.Messages = append(er.Messages, fmt.Sprintf("[%d] %s", idx, violation))
		}
	}

	er.Valid = len(er.Messages) == 0

	return er, nil
}
