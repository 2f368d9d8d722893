package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strconv"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow"
	kuflowerrors "github.com/kuflow/kuflow-sdk-go/pkg/kuflow/errors"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/entities"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// FormsClient validates the element values of tasks and processes against the forms
// configured in a form validation service
type FormsClient interface {
	ValidateTask(ctx context.Context, formCode string, task *entities.Task, parameters ...RequestDecoratorFunc) (*entities.Task, *kuflow.ValidationResult, error)
	ValidateProcess(ctx context.Context, formCode string, process *entities.Process, parameters ...RequestDecoratorFunc) (*entities.Process, *kuflow.ValidationResult, error)
}

func Debug(enabled string) func(*formsClient) {
	return func(c *formsClient) {
		c.debug = (enabled == "true")
	}
}

func NewFormsClient(baseURL string, options ...func(*formsClient)) FormsClient {
	c := &formsClient{
		baseURL: baseURL,
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	for _, option := range options {
		option(c)
	}

	return c
}

const (
	TraceAttributeEntityID string = "entity-id"
	TraceAttributeFormCode string = "form-code"
)

var tracer = otel.Tracer("kuflow-forms-client")

type formsClient struct {
	baseURL    string
	debug      bool
	httpClient http.Client
}

func (c *formsClient) ValidateTask(ctx context.Context, formCode string, task *entities.Task, parameters ...RequestDecoratorFunc) (*entities.Task, *kuflow.ValidationResult, error) {
	var err error

	ctx, span := tracer.Start(ctx, "validate-task",
		trace.WithAttributes(attribute.String(TraceAttributeFormCode, formCode)),
		trace.WithAttributes(attribute.String(TraceAttributeEntityID, task.ID().String())),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	var validated *entities.Task
	var result *kuflow.ValidationResult

	validated, result, err = validate(ctx, c, formCode, "tasks", task, entities.NewTaskFromJSON, parameters...)
	return validated, result, err
}

func (c *formsClient) ValidateProcess(ctx context.Context, formCode string, process *entities.Process, parameters ...RequestDecoratorFunc) (*entities.Process, *kuflow.ValidationResult, error) {
	var err error

	ctx, span := tracer.Start(ctx, "validate-process",
		trace.WithAttributes(attribute.String(TraceAttributeFormCode, formCode)),
		trace.WithAttributes(attribute.String(TraceAttributeEntityID, process.ID().String())),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	var validated *entities.Process
	var result *kuflow.ValidationResult

	validated, result, err = validate(ctx, c, formCode, "processes", process, entities.NewProcessFromJSON, parameters...)
	return validated, result, err
}

func (c *formsClient) callValidationService(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %s (%w)", err.Error(), kuflowerrors.ErrInternal)
	}

	req.Header.Add("Accept", "application/json")
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send request: %s (%w)", err.Error(), kuflowerrors.ErrRequest)
	}

	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %s (%w)", err.Error(), kuflowerrors.ErrBadResponse)
	}

	if c.debug && resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusNotFound {
		reqbytes, _ := httputil.DumpRequest(req, false)
		respbytes, _ := httputil.DumpResponse(resp, false)

		log := logging.GetFromContext(ctx)
		log.Error("request failed", "request", string(reqbytes), "response", string(respbytes))
	}

	return resp, respBody, nil
}

// formValidHeader returns nil when the service did not report an overall outcome
func formValidHeader(r *http.Response) *bool {
	val := r.Header.Get(kuflow.FormValidHeader)
	if val == "" {
		return nil
	}

	valid, err := strconv.ParseBool(val)
	if err != nil {
		return nil
	}

	return &valid
}
