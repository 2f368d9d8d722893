package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"github.com/kuflow/kuflow-sdk-go/internal/pkg/application/forms"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow"
	kuflowerrors "github.com/kuflow/kuflow-sdk-go/pkg/kuflow/errors"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types/entities"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("kuflow-forms/api")

const TraceAttributeFormCode string = "form-code"

func RegisterHandlers(ctx context.Context, r chi.Router, validator forms.FormValidator) {
	r.Route("/api/v1/forms", func(r chi.Router) {
		r.Use(
			Logger(logging.GetFromContext(ctx)),
			RequiredContentTypes([]string{"application/json"}),
		)

		r.Get("/", NewListFormsHandler(validator))

		r.Route("/{formCode}", func(r chi.Router) {
			r.Get("/", NewRetrieveFormHandler(validator))
			r.Post("/tasks/validate", NewValidateTaskHandler(validator))
			r.Post("/processes/validate", NewValidateProcessHandler(validator))
		})
	})
}

func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			_, ctx, _ = o11y.AddTraceIDToLoggerAndStoreInContext(
				trace.SpanFromContext(ctx),
				logger,
				ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequiredContentTypes(validTypes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType := r.Header.Get("Content-Type")
			isValidContentType := true

			if len(contentType) > 0 {
				isValidContentType = false

				for _, t := range validTypes {
					if strings.HasPrefix(contentType, t) {
						isValidContentType = true
						break
					}
				}
			}

			if isValidContentType {
				next.ServeHTTP(w, r)
			} else {
				http.Error(w, "unsupported media type", http.StatusUnsupportedMediaType)
			}
		})
	}
}

func NewListFormsHandler(validator forms.FormValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, validator.Forms())
	}
}

func NewRetrieveFormHandler(validator forms.FormValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		formCode := chi.URLParam(r, "formCode")

		ctx, span := tracer.Start(r.Context(), "retrieve-form",
			trace.WithAttributes(attribute.String(TraceAttributeFormCode, formCode)),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		traceID, _, _ := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)

		form, err := validator.Form(formCode)
		if err != nil {
			kuflowerrors.ReportUnknownForm(w, err.Error(), traceID)
			return
		}

		writeJSON(w, form)
	}
}

func NewValidateTaskHandler(validator forms.FormValidator) http.HandlerFunc {
	return newValidateHandler(validator, "validate-task", entities.NewTaskFromJSON)
}

func NewValidateProcessHandler(validator forms.FormValidator) http.HandlerFunc {
	return newValidateHandler(validator, "validate-process", entities.NewProcessFromJSON)
}

// newValidateHandler decodes an entity, writes the validity of its element values and
// returns it with the overall outcome in the form valid header
func newValidateHandler[E types.Entity](validator forms.FormValidator, operation string, decode func([]byte) (E, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		formCode := chi.URLParam(r, "formCode")

		ctx, span := tracer.Start(r.Context(), operation,
			trace.WithAttributes(attribute.String(TraceAttributeFormCode, formCode)),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		traceID, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)

		options, err := validationOptions(r)
		if err != nil {
			kuflowerrors.ReportBadRequest(w, err.Error(), traceID)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			kuflowerrors.ReportBadRequest(w, fmt.Sprintf("unable to read request payload: %s", err.Error()), traceID)
			return
		}

		entity, err := decode(body)
		if err != nil {
			kuflowerrors.ReportBadRequest(w, fmt.Sprintf("unable to decode request payload: %s", err.Error()), traceID)
			return
		}

		ctx = logging.NewContextWithLogger(ctx, log, "entity_id", entity.ID().String())

		report, err := validator.Validate(ctx, formCode, entity, options...)
		if err != nil {
			if errors.Is(err, kuflowerrors.ErrUnknownForm) {
				kuflowerrors.ReportUnknownForm(w, err.Error(), traceID)
				return
			}

			logging.GetFromContext(ctx).Error("failed to validate form", "err", err.Error())
			kuflowerrors.ReportInternalError(w, err.Error(), traceID)
			return
		}

		response, err := entity.MarshalJSON()
		if err != nil {
			kuflowerrors.ReportInternalError(w, fmt.Sprintf("unable to encode response: %s", err.Error()), traceID)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.Header().Add(kuflow.FormValidHeader, strconv.FormatBool(report.Valid))
		w.WriteHeader(http.StatusOK)
		w.Write(response)
	}
}

func validationOptions(r *http.Request) ([]forms.ValidationOption, error) {
	options := []forms.ValidationOption{}

	if codes := r.URL.Query().Get("elements"); codes != "" {
		options = append(options, forms.OnlyElements(strings.Split(codes, ",")...))
	}

	if strict := r.URL.Query().Get("strict"); strict != "" {
		enabled, err := strconv.ParseBool(strict)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for parameter strict", strict)
		}
		options = append(options, forms.Strict(enabled))
	}

	return options, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		kuflowerrors.ReportInternalError(w, err.Error(), "")
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
