package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

var ErrElementNotFound = fmt.Errorf("element not found")
var ErrIndexOutOfRange = fmt.Errorf("index out of range")
var ErrTypeMismatch = fmt.Errorf("type mismatch")
var ErrUnknownVariant = fmt.Errorf("unknown variant")
var ErrInvalidPayload = fmt.Errorf("invalid payload")

var ErrInternal = fmt.Errorf("internal error")
var ErrNotFound = fmt.Errorf("not found")
var ErrRequest = fmt.Errorf("request error")
var ErrBadRequest = fmt.Errorf("bad request")
var ErrBadResponse = fmt.Errorf("bad response")
var ErrUnknownForm = fmt.Errorf("unknown form")

type myError struct {
	msg    string
	target error
}

func (m myError) Error() string        { return m.msg }
func (m myError) Is(target error) bool { return target == m.target }

func NewElementNotFoundError(code string) error {
	return &myError{
		msg:    fmt.Sprintf("element value %q doesn't exist", code),
		target: ErrElementNotFound,
	}
}

func NewIndexOutOfRangeError(code string, index, length int) error {
	return &myError{
		msg:    fmt.Sprintf("index %d out of range for element value %q with length %d", index, code, length),
		target: ErrIndexOutOfRange,
	}
}

func NewTypeMismatchError(code, expected, actual string) error {
	return &myError{
		msg:    fmt.Sprintf("element value %q is a %s, not a %s", code, actual, expected),
		target: ErrTypeMismatch,
	}
}

func NewUnknownVariantError(discriminator string) error {
	return &myError{
		msg:    fmt.Sprintf("element value type %q not supported", discriminator),
		target: ErrUnknownVariant,
	}
}

func NewInvalidPayloadError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrInvalidPayload,
	}
}

func NewBadRequestError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrBadRequest,
	}
}

func NewNotFoundError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrNotFound,
	}
}

func NewUnknownFormError(form string) error {
	return &myError{
		msg:    fmt.Sprintf("unknown form %q", form),
		target: ErrUnknownForm,
	}
}

const (
	ProblemTypeBadRequest  string = "https://kuflow.com/errors/BadRequest"
	ProblemTypeUnknownForm string = "https://kuflow.com/errors/UnknownForm"
	ProblemTypeNotFound    string = "https://kuflow.com/errors/NotFound"
	ProblemTypeInternal    string = "https://kuflow.com/errors/InternalError"
)

func NewErrorFromProblemReport(code int, contentType string, body []byte) error {
	report := &struct {
		Type   string `json:"type"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}{}

	err := json.Unmarshal(body, report)
	if err != nil {
		return fmt.Errorf("failed to process problem report (content-type: %s): %s", contentType, err.Error())
	}

	if report.Type == ProblemTypeUnknownForm {
		return &myError{msg: report.Detail, target: ErrUnknownForm}
	}

	if code == http.StatusNotFound || report.Type == ProblemTypeNotFound {
		return NewNotFoundError(report.Detail)
	}

	if report.Type == ProblemTypeBadRequest {
		return NewBadRequestError(report.Detail)
	}

	return NewInternalError(
		fmt.Sprintf("[code: %d] unknown problem report of type \"%s\" with detail \"%s\" received",
			code, report.Type, report.Detail,
		),
		"",
	)
}

// ProblemDetails stores details about a certain problem according to RFC7807
// See https://tools.ietf.org/html/rfc7807
type ProblemDetails interface {
	ContentType() string
	MarshalJSON() ([]byte, error)
	WriteResponse(w http.ResponseWriter)
}

// ProblemDetailsImpl is an implementation of the ProblemDetails interface
type ProblemDetailsImpl struct {
	typ     string
	title   string
	detail  string
	code    int
	traceID string
}

const (
	// ProblemReportContentType as required by https://tools.ietf.org/html/rfc7807
	ProblemReportContentType string = "application/problem+json"
)

type BadRequest struct {
	ProblemDetailsImpl
}

func NewBadRequest(detail, traceID string) *BadRequest {
	return &BadRequest{
		ProblemDetailsImpl: ProblemDetailsImpl{
			typ:     ProblemTypeBadRequest,
			title:   "Bad Request",
			detail:  detail,
			code:    http.StatusBadRequest,
			traceID: traceID,
		},
	}
}

func ReportBadRequest(w http.ResponseWriter, detail, traceID string) {
	NewBadRequest(detail, traceID).WriteResponse(w)
}

// UnknownForm reports that a validation was requested against a form that is not configured
type UnknownForm struct {
	ProblemDetailsImpl
}

func NewUnknownForm(detail, traceID string) *UnknownForm {
	return &UnknownForm{
		ProblemDetailsImpl: ProblemDetailsImpl{
			typ:     ProblemTypeUnknownForm,
			title:   "Unknown Form",
			detail:  detail,
			code:    http.StatusNotFound,
			traceID: traceID,
		},
	}
}

func ReportUnknownForm(w http.ResponseWriter, detail, traceID string) {
	NewUnknownForm(detail, traceID).WriteResponse(w)
}

// InternalError reports that there has been an error during the operation execution
type InternalError struct {
	ProblemDetailsImpl
}

func (ie InternalError) Error() string {
	return ie.detail
}

func (ie InternalError) Is(target error) bool {
	return target == ErrInternal
}

func NewInternalError(detail, traceID string) *InternalError {
	return &InternalError{
		ProblemDetailsImpl: ProblemDetailsImpl{
			typ:     ProblemTypeInternal,
			title:   "Internal Error",
			detail:  detail,
			code:    http.StatusInternalServerError,
			traceID: traceID,
		},
	}
}

func ReportInternalError(w http.ResponseWriter, detail, traceID string) {
	NewInternalError(detail, traceID).WriteResponse(w)
}

// ContentType returns the ContentType to be used when returning this problem
func (p *ProblemDetailsImpl) ContentType() string {
	return ProblemReportContentType
}

// MarshalJSON is called when a ProblemDetailsImpl instance should be serialized to JSON
func (p *ProblemDetailsImpl) MarshalJSON() ([]byte, error) {
	var traceID *string

	if p.traceID != "" {
		traceID = &p.traceID
	}

	return json.Marshal(struct {
		Type    string  `json:"type"`
		Title   string  `json:"title"`
		Detail  string  `json:"detail"`
		TraceID *string `json:"traceID,omitempty"`
	}{
		Type:    p.typ,
		Title:   p.title,
		Detail:  p.detail,
		TraceID: traceID,
	})
}

// ResponseCode returns the HTTP response code to be used when returning a specific problem
func (p *ProblemDetailsImpl) ResponseCode() int {
	if p.code != 0 {
		return p.code
	}

	return http.StatusBadRequest
}

// WriteResponse writes the contents of this instance to a http.ResponseWriter
func (p *ProblemDetailsImpl) WriteResponse(w http.ResponseWriter) {
	w.Header().Add("Content-Type", p.ContentType())
	w.Header().Add("Content-Language", "en")
	w.WriteHeader(p.ResponseCode())

	pdbytes, err := json.MarshalIndent(p, "", "  ")
	if err == nil {
		w.Write(pdbytes)
	}
}
