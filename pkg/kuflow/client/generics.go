package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow"
	kuflowerrors "github.com/kuflow/kuflow-sdk-go/pkg/kuflow/errors"
	"github.com/kuflow/kuflow-sdk-go/pkg/kuflow/types"
)

func validate[E types.Entity](ctx context.Context, c *formsClient, formCode, collection string, entity types.Entity, decode func([]byte) (E, error), parameters ...RequestDecoratorFunc) (E, *kuflow.ValidationResult, error) {
	var zero E

	b, err := entity.MarshalJSON()
	if err != nil {
		return zero, nil, fmt.Errorf("failed to marshal %s: %w", strings.ToLower(entity.ObjectType()), err)
	}

	params := make([]string, 0, 2)
	for _, rdf := range parameters {
		params = rdf(params)
	}

	urlparams := ""
	if len(params) > 0 {
		urlparams = "?" + strings.Join(params, "&")
	}

	endpoint := fmt.Sprintf("%s/api/v1/forms/%s/%s/validate%s", c.baseURL, url.PathEscape(formCode), collection, urlparams)

	response, responseBody, err := c.callValidationService(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return zero, nil, err
	}

	if response.StatusCode != http.StatusOK {
		contentType := response.Header.Get("Content-Type")
		if response.StatusCode >= http.StatusBadRequest && response.StatusCode <= http.StatusInternalServerError {
			return zero, nil, kuflowerrors.NewErrorFromProblemReport(response.StatusCode, contentType, responseBody)
		}

		return zero, nil, fmt.Errorf("unexpected response code %d (%w)", response.StatusCode, kuflowerrors.ErrInternal)
	}

	validated, err := decode(responseBody)
	if err != nil {
		if c.debug && len(responseBody) < 1000 {
			err = fmt.Errorf("unmarshaling of %s failed: %w", string(responseBody), err)
		}
		return zero, nil, err
	}

	return validated, kuflow.NewValidationResult(formValidHeader(response), validated), nil
}
