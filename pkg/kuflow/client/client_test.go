package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	testutils "github.com/diwise/service-chassis/pkg/test/http"
	"github.com/diwise/service-chassis/pkg/test/http/expects"
	"github.com/diwise/service-chassis/pkg/test/http/response"
	"github.com/google/uuid"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow"
	kuflowerrors "github.com/kuflow/kuflow-sdk-go/pkg/kuflow/errors"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/elements"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/entities"
	"github.com/matryer/is"
)

var Expects = testutils.Expects
var Returns = testutils.Returns
var anyInput = expects.AnyInput
var method = expects.RequestMethod
var path = expects.RequestPath
var body = expects.RequestBody

var taskID = uuid.MustParse("b3c6a2f4-0d3e-4b39-9a1c-1f2e3d4c5b6a")

func TestValidateTask(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodPost),
			path("/api/v1/forms/INVOICE/tasks/validate"),
			body(`{"objectType":"TASK","id":"b3c6a2f4-0d3e-4b39-9a1c-1f2e3d4c5b6a","elementValues":{"amount":[{"valid":null,"type":"NUMBER","value":-1}]}}`),
		),
		Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusOK),
			response.Body([]byte(validatedTaskJSON)),
		),
	)
	defer s.Close()

	c := NewFormsClient(s.URL())

	task, result, err := c.ValidateTask(context.Background(), "INVOICE", testTask())
	is.NoErr(err)

	v, err := task.GetValidAt("amount", 0)
	is.NoErr(err)
	is.Equal(v, elements.Invalid)

	is.True(!result.Valid())
	is.Equal(result.InvalidElements(), []string{"amount"})
}

func TestValidateTaskUsesReportedOutcome(t *testing.T) {
	is := is.New(t)

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		r.Body.Close()

		is.Equal(r.URL.Query().Get("elements"), "amount,name")
		is.Equal(r.URL.Query().Get("strict"), "true")

		w.Header().Add("Content-Type", "application/json")
		w.Header().Add(kuflow.FormValidHeader, "true")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	}))
	defer s.Close()

	c := NewFormsClient(s.URL)

	_, result, err := c.ValidateTask(context.Background(), "INVOICE", testTask(), Elements("amount", "name"), Strict())
	is.NoErr(err)
	is.True(result.Valid())
}

func TestValidateTaskAgainstUnknownForm(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(
			response.ContentType("application/problem+json"),
			response.Code(http.StatusNotFound),
			response.Body([]byte(`{"type":"https://kuflow.com/errors/UnknownForm","title":"Unknown Form","detail":"unknown form \"NOPE\""}`)),
		),
	)
	defer s.Close()

	c := NewFormsClient(s.URL())

	_, _, err := c.ValidateTask(context.Background(), "NOPE", testTask())
	is.True(errors.Is(err, kuflowerrors.ErrUnknownForm))
}

func TestValidateProcessWithBadRequest(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, method(http.MethodPost), path("/api/v1/forms/INVOICE/processes/validate")),
		Returns(
			response.ContentType("application/problem+json"),
			response.Code(http.StatusBadRequest),
			response.Body([]byte(`{"type":"https://kuflow.com/errors/BadRequest","title":"Bad Request","detail":"element value type \"BOOLEAN\" not supported"}`)),
		),
	)
	defer s.Close()

	c := NewFormsClient(s.URL())

	_, _, err := c.ValidateProcess(context.Background(), "INVOICE", entities.NewProcess(uuid.New()))
	is.True(errors.Is(err, kuflowerrors.ErrBadRequest))
}

func TestValidateTaskWithUnexpectedResponseCode(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(response.Code(http.StatusNoContent)),
	)
	defer s.Close()

	c := NewFormsClient(s.URL(), Debug("true"))

	_, _, err := c.ValidateTask(context.Background(), "INVOICE", testTask())
	is.True(errors.Is(err, kuflowerrors.ErrInternal))
}

func testTask() *entities.Task {
	return entities.NewTask(taskID, entities.Number("amount", -1))
}

const validatedTaskJSON string = `{
	"objectType": "TASK",
	"id": "b3c6a2f4-0d3e-4b39-9a1c-1f2e3d4c5b6a",
	"elementValues": {
		"amount": [{"valid": false, "type": "NUMBER", "value": -1}]
	}
}`
