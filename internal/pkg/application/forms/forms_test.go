package forms

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	kuflowerrors "github.com/kuflow/kuflow-sdk-go/pkg/kuflow/errors"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/elements"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/references"
	"github.com/matryer/is"
)

func TestValidateValidInvoice(t *testing.T) {
	is, ctx, v := setupValidatorTest(t, nil)

	s := validInvoice()

	report, err := v.Validate(ctx, "INVOICE", s)
	is.NoErr(err)
	is.True(report.Valid)
	is.Equal(len(report.Elements), 6)

	for _, code := range []string{"reference", "amount", "dueDate", "tags", "invoice", "approver"} {
		valid, err := s.GetValid(code)
		is.NoErr(err)
		is.True(valid) // every value should have been flagged as valid
	}
}

func TestValidateFlagsOnlyOffendingValues(t *testing.T) {
	is, ctx, v := setupValidatorTest(t, nil)

	s := validInvoice()
	s.SetAsStringList("tags", []string{"ok", "far too long"})

	report, err := v.Validate(ctx, "INVOICE", s)
	is.NoErr(err)
	is.True(!report.Valid)

	first, _ := s.GetValidAt("tags", 0)
	second, _ := s.GetValidAt("tags", 1)
	is.Equal(first, elements.Valid)
	is.Equal(second, elements.Invalid)

	tags := elementReport(report, "tags")
	is.True(!tags.Valid)
	is.Equal(len(tags.Messages), 1)
	is.True(strings.HasPrefix(tags.Messages[0], "[1]"))
}

func TestValidateConstraintViolations(t *testing.T) {
	is, ctx, v := setupValidatorTest(t, nil)

	s := validInvoice()
	s.SetAsString("reference", "INV-12")
	s.SetAsDouble("amount", -1)
	s.SetAsDate("dueDate", civil.Date{Year: 2023, Month: time.December, Day: 31})
	s.SetAsDocument("invoice", references.NewDocument(uuid.New(), references.Content("image/png", 10)))
	s.SetAsPrincipal("approver", references.NewApplicationPrincipal(uuid.New(), "robot"))

	report, err := v.Validate(ctx, "INVOICE", s)
	is.NoErr(err)
	is.True(!report.Valid)

	for _, code := range []string{"reference", "amount", "dueDate", "invoice", "approver"} {
		valid, err := s.GetValid(code)
		is.NoErr(err)
		is.True(!valid)
		is.True(!elementReport(report, code).Valid)
	}

	is.True(elementReport(report, "tags").Valid)
}

func TestValidateMissingRequiredElement(t *testing.T) {
	is, ctx, v := setupValidatorTest(t, nil)

	s := validInvoice()
	s.Remove("amount")

	report, err := v.Validate(ctx, "INVOICE", s)
	is.NoErr(err)
	is.True(!report.Valid)
	is.Equal(elementReport(report, "amount").Messages, []string{"a value is required"})
}

func TestValidateSingleValuedElementWithManyValues(t *testing.T) {
	is, ctx, v := setupValidatorTest(t, nil)

	s := validInvoice()
	s.SetAsDoubleList("amount", []float64{1, 2})

	report, err := v.Validate(ctx, "INVOICE", s)
	is.NoErr(err)
	is.True(!report.Valid)

	for idx := range 2 {
		validity, err := s.GetValidAt("amount", idx)
		is.NoErr(err)
		is.Equal(validity, elements.Invalid)
	}
}

func TestValidateValueOfWrongVariant(t *testing.T) {
	is, ctx, v := setupValidatorTest(t, nil)

	s := validInvoice()
	s.SetAsString("amount", "100")

	_, err := v.Validate(ctx, "INVOICE", s)
	is.NoErr(err)

	validity, err := s.GetValidAt("amount", 0)
	is.NoErr(err)
	is.Equal(validity, elements.Invalid)

	amount, err := s.GetAsStringList("amount")
	is.NoErr(err)
	is.Equal(amount, []string{"100"}) // the value should not be coerced
}

func TestValidateOnlySelectedElements(t *testing.T) {
	is, ctx, v := setupValidatorTest(t, nil)

	s := validInvoice()
	s.SetAsDouble("amount", -1)

	report, err := v.Validate(ctx, "INVOICE", s, OnlyElements("reference"))
	is.NoErr(err)
	is.True(report.Valid)
	is.Equal(len(report.Elements), 1)

	validity, err := s.GetValidAt("amount", 0)
	is.NoErr(err)
	is.Equal(validity, elements.ValidityUnknown)
}

func TestValidateStrictFlagsUndefinedElements(t *testing.T) {
	is, ctx, v := setupValidatorTest(t, nil)

	s := validInvoice()
	s.SetAsString("comment", "hello")

	report, err := v.Validate(ctx, "INVOICE", s)
	is.NoErr(err)
	is.True(report.Valid)

	report, err = v.Validate(ctx, "INVOICE", s, Strict(true))
	is.NoErr(err)
	is.True(!report.Valid)

	valid, err := s.GetValid("comment")
	is.NoErr(err)
	is.True(!valid)
}

func TestValidateUnknownForm(t *testing.T) {
	is, ctx, v := setupValidatorTest(t, nil)

	_, err := v.Validate(ctx, "NOPE", elements.NewStore())
	is.True(errors.Is(err, kuflowerrors.ErrUnknownForm))

	_, err = v.Form("NOPE")
	is.True(errors.Is(err, kuflowerrors.ErrUnknownForm))
}

func TestFormsAreListedInDefinitionOrder(t *testing.T) {
	is, _, v := setupValidatorTest(t, nil)

	forms := v.Forms()
	is.Equal(len(forms), 2)
	is.Equal(forms[0].Code, "INVOICE")
	is.Equal(forms[1].Code, "ADDRESS")
}

func TestValidateWithRules(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	rules, err := NewRules(ctx, bytes.NewBufferString(policies))
	is.NoErr(err)

	_, ctx, v := setupValidatorTest(t, rules)

	s := validInvoice()
	s.SetAsDouble("amount", 5000)

	report, err := v.Validate(ctx, "INVOICE", s)
	is.NoErr(err)
	is.True(!report.Valid)
	is.Equal(elementReport(report, "amount").Messages, []string{"[0] rejected by form policy"})

	s.SetAsDouble("amount", 500)

	report, err = v.Validate(ctx, "INVOICE", s)
	is.NoErr(err)
	is.True(report.Valid)
}

func TestRulesSeeTheWireRepresentation(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	rules, err := NewRules(ctx, bytes.NewBufferString(policies))
	is.NoErr(err)

	allowed, err := rules.Allow(ctx, "ADDRESS", "address", 0, elements.NewMap(map[string]any{"country": "ES"}))
	is.NoErr(err)
	is.True(allowed)

	allowed, err = rules.Allow(ctx, "ADDRESS", "address", 0, elements.NewMap(map[string]any{"country": "XX"}))
	is.NoErr(err)
	is.True(!allowed)
}

func TestRulesWithBrokenPolicyFails(t *testing.T) {
	is := is.New(t)

	_, err := NewRules(context.Background(), bytes.NewBufferString("package kuflow.forms\n\nvalid = {"))
	is.True(err != nil)
}

func setupValidatorTest(t *testing.T, rules Rules) (*is.I, context.Context, FormValidator) {
	is, config := setupConfigTest(t)
	ctx := context.Background()

	v, err := New(ctx, *config, rules)
	is.NoErr(err)

	return is, ctx, v
}

func validInvoice() *elements.Store {
	s := elements.NewStore()

	s.SetAsString("reference", "INV-0042")
	s.SetAsDouble("amount", 120.5)
	s.SetAsDate("dueDate", civil.Date{Year: 2024, Month: time.June, Day: 30})
	s.SetAsStringList("tags", []string{"q2", "ops"})
	s.SetAsDocument("invoice", references.NewDocument(uuid.New(), references.Content("application/pdf", 2048)))
	s.SetAsPrincipal("approver", references.NewUserPrincipal(uuid.New(), "Jane", "jane@example.com"))

	return s
}

func elementReport(r *Report, code string) ElementReport {
	for _, er := range r.Elements {
		if er.Code == code {
			return er
		}
	}
	return ElementReport{}
}

const policies string = `package kuflow.forms

default valid = true

valid = false {
	input.code == "amount"
	input.value > 1000
}

valid = false {
	input.type == "MAP"
	not input.value.country == "ES"
}
`
