package itts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// GenericErrorMessage is shown when a failure carries no message of its own.
const GenericErrorMessage = "An error occurred while communicating with the server"

// maxErrorBody bounds how much of a failed response is kept for diagnostics.
const maxErrorBody = 4096

// ValidationDetail is one entry of a 422 response. Loc mixes field names
// and list indexes.
type ValidationDetail struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// validationResponse is the body of a 422 response.
type validationResponse struct {
	Detail []ValidationDetail `json:"detail"`
}

// APIError is a non-2xx response from the ITTS service.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
	Detail     []ValidationDetail
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Detail) > 0 {
		return fmt.Sprintf("ITTS service error (%s): %s", e.Status, strings.Join(e.Messages(), "; "))
	}

	return fmt.Sprintf("ITTS service returned non-OK status: %s, body: %s", e.Status, e.Body)
}

// Messages returns every validation message in response order.
func (e *APIError) Messages() []string {
	messages := make([]string, 0, len(e.Detail))

	for _, detail := range e.Detail {
		if detail.Msg != "" {
			messages = append(messages, detail.Msg)
		}
	}

	return messages
}

// IsValidation reports whether the service rejected the request payload.
func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusUnprocessableEntity
}

// UserMessage flattens err to a single display message: the first remote
// validation message when there is one, the generic message otherwise.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		messages := apiErr.Messages()
		if len(messages) > 0 {
			return messages[0]
		}
	}

	return GenericErrorMessage
}

// parseErrorResponse decodes a structured 422 body when present and keeps
// the raw body otherwise.
func parseErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(body),
		Detail:     nil,
	}

	var decoded validationResponse

	err := json.Unmarshal(body, &decoded)
	if err == nil {
		apiErr.Detail = decoded.Detail
	}

	return apiErr
}
