package settings

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// FieldDetail attributes a backend failure to one field of the tree.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Path returns the field identifier as a tree path.
func (d *FieldDetail) Path() Path {
	if d == nil {
		return nil
	}
	return ParsePath(d.Field)
}

// APIError is the structured failure returned by the write and validation
// endpoints. Detail is set when the backend blamed a single field.
type APIError struct {
	Status  int
	Message string
	Detail  *FieldDetail
}

func (e *APIError) Error() string {
	switch {
	case e.Detail != nil && e.Detail.Message != "":
		return fmt.Sprintf("%s: %s", e.Detail.Field, e.Detail.Message)
	case e.Message != "":
		return e.Message
	default:
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
}

type errorBody struct {
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Loc []interface{} `json:"loc"`
	Msg string        `json:"msg"`
}

// parseAPIError reads a failed response into an APIError. Three body shapes
// are understood: {"detail":{"field","message"}}, {"detail":"text"} and
// the list form [{"loc":["body",...],"msg"}] produced by request validation.
func parseAPIError(res *http.Response) *APIError {
	apiErr := &APIError{Status: res.StatusCode}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		apiErr.Message = fmt.Sprintf("cannot read the response: %v", err)
		return apiErr
	}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}
	apiErr.Message = body.Message

	if len(body.Detail) == 0 {
		return apiErr
	}

	var detail FieldDetail
	if err := json.Unmarshal(body.Detail, &detail); err == nil && detail.Field != "" {
		apiErr.Detail = &detail
		return apiErr
	}

	var text string
	if err := json.Unmarshal(body.Detail, &text); err == nil {
		if apiErr.Message == "" {
			apiErr.Message = text
		}
		return apiErr
	}

	var issues []validationIssue
	if err := json.Unmarshal(body.Detail, &issues); err == nil && len(issues) > 0 {
		issue := issues[0]
		if field := issueField(issue.Loc); field != "" {
			apiErr.Detail = &FieldDetail{Field: field, Message: issue.Msg}
		} else if apiErr.Message == "" {
			apiErr.Message = issue.Msg
		}
	}
	return apiErr
}

func issueField(loc []interface{}) string {
	parts := make([]string, 0, len(loc))
	for i, l := range loc {
		s, ok := l.(string)
		if !ok {
			continue
		}
		if i == 0 && s == "body" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, PathSeparator)
}
