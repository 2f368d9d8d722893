package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/client"
	kuflowerrors "github.com/kuflow/kuflow-sdk-go/pkg/kuflow/errors"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/elements"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/entities"
	"github.com/matryer/is"
)

func TestIntegrateValidateTask(t *testing.T) {
	is, ts := setupIntegrationTest(t)
	defer ts.Close()

	c := client.NewFormsClient(ts.URL)

	task := entities.NewTask(uuid.New(),
		entities.Text("reference", "INV-0042"),
		entities.Number("amount", 20000),
	)

	validated, result, err := c.ValidateTask(context.Background(), "INVOICE", task)
	is.NoErr(err)
	is.True(!result.Valid())
	is.Equal(result.InvalidElements(), []string{"amount"})

	reference, err := validated.GetValidAt("reference", 0)
	is.NoErr(err)
	is.Equal(reference, elements.Valid)
}

func TestIntegrateValidateProcessWithPolicy(t *testing.T) {
	is, ts := setupIntegrationTest(t)
	defer ts.Close()

	c := client.NewFormsClient(ts.URL)

	process := entities.NewProcess(uuid.New(),
		entities.Text("reference", "DRAFT"),
		entities.Number("amount", 10),
	)

	_, result, err := c.ValidateProcess(context.Background(), "INVOICE", process)
	is.NoErr(err)
	is.True(!result.Valid())
	is.Equal(result.InvalidElements(), []string{"reference"})

	_, _, err = c.ValidateProcess(context.Background(), "NOPE", process)
	is.True(errors.Is(err, kuflowerrors.ErrUnknownForm))
}

func TestIntegrateHealthAndMetrics(t *testing.T) {
	is, ts := setupIntegrationTest(t)
	defer ts.Close()

	c := client.NewFormsClient(ts.URL)
	_, _, err := c.ValidateTask(context.Background(), "INVOICE", entities.NewTask(uuid.New(), entities.Text("reference", "INV-0001")))
	is.NoErr(err)

	response, _ := testRequest(ts.URL, http.MethodGet, "/health", nil)
	is.Equal(response.StatusCode, http.StatusNoContent)

	response, body := testRequest(ts.URL, http.MethodGet, "/metrics", nil)
	is.Equal(response.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, `kuflow_forms_validated_values_total{form="INVOICE",outcome="valid"}`))
}

func setupIntegrationTest(t *testing.T) (*is.I, *httptest.Server) {
	is := is.New(t)

	cfg := &AppConfig{
		formsConfig:    io.NopCloser(bytes.NewBufferString(formsConfig)),
		policiesConfig: io.NopCloser(bytes.NewBufferString(formsPolicy)),
	}
	defer cfg.Close()

	handler, err := initialize(context.Background(), cfg)
	is.NoErr(err)

	return is, httptest.NewServer(handler)
}

func testRequest(baseURL, method, path string, body io.Reader) (*http.Response, string) {
	req, _ := http.NewRequest(method, baseURL+path, body)
	resp, _ := http.DefaultClient.Do(req)
	respBody, _ := io.ReadAll(resp.Body)
	defer resp.Body.Close()

	return resp, string(respBody)
}

const formsConfig string = `
forms:
  - code: INVOICE
    elements:
      - code: reference
        type: STRING
        required: true
      - code: amount
        type: NUMBER
        max: 10000
`

const formsPolicy string = `
package kuflow.forms

default valid = true

valid = false {
    input.code == "reference"
    input.value == "DRAFT"
}
`
