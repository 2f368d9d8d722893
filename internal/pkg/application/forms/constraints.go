package forms

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/elements"
)

// checkElement returns the violations that concern all values under the code, such as a
// missing required element
func (ed *ElementDefinition) checkElement(values []elements.Value) []string {
	violations := []string{}

	if ed.Required && len(values) == 0 {
		violations = append(violations, "a value is required")
	}

	if !ed.Multiple && len(values) > 1 {
		violations = append(violations, fmt.Sprintf("only one value is allowed, got %d", len(values)))
	}

	return violations
}

// checkValue returns the violations of a single value. An empty result means the value
// satisfies the definition.
func (ed *ElementDefinition) checkValue(v elements.Value) []string {
	if v.Type() != ed.Type {
		return []string{fmt.Sprintf("expected a %s value, got %s", ed.Type, v.Type())}
	}

	violations := []string{}

	switch tv := v.(type) {
	case *elements.StringValue:
		s := tv.String()
		length := utf8.RuneCountInString(s)

		if ed.MinLength != nil && length < *ed.MinLength {
			violations = append(violations, fmt.Sprintf("length %d is shorter than %d", length, *ed.MinLength))
		}
		if ed.MaxLength != nil && length > *ed.MaxLength {
			violations = append(violations, fmt.Sprintf("length %d is longer than %d", length, *ed.MaxLength))
		}
		if ed.pattern != nil && !ed.pattern.MatchString(s) {
			violations = append(violations, fmt.Sprintf("%q does not match %s", s, ed.Pattern))
		}

	case *elements.NumberValue:
		f := tv.Float64()

		if ed.Min != nil && f < *ed.Min {
			violations = append(violations, fmt.Sprintf("%v is less than %v", f, *ed.Min))
		}
		if ed.Max != nil && f > *ed.Max {
			violations = append(violations, fmt.Sprintf("%v is greater than %v", f, *ed.Max))
		}

	case *elements.DateValue:
		d := tv.Date()

		if ed.minDate != nil && d.Before(*ed.minDate) {
			violations = append(violations, fmt.Sprintf("%s is before %s", d, ed.MinDate))
		}
		if ed.maxDate != nil && d.After(*ed.maxDate) {
			violations = append(violations, fmt.Sprintf("%s is after %s", d, ed.MaxDate))
		}

	case *elements.DocumentValue:
		doc := tv.Document()

		if len(ed.ContentTypes) > 0 && !slices.Contains(ed.ContentTypes, doc.ContentType) {
			violations = append(violations, fmt.Sprintf("content type %q is not accepted", doc.ContentType))
		}

	case *elements.PrincipalValue:
		p := tv.Principal()

		if len(ed.PrincipalTypes) > 0 && !slices.Contains(ed.PrincipalTypes, string(p.Type)) {
			violations = append(violations, fmt.Sprintf("principal type %q is not accepted", p.Type))
		}
	}

	return violations
}
