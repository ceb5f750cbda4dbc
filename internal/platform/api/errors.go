package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error is a failed backend response. Message holds the most useful
// human-readable text the payload offered.
type Error struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a backend 401.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// errorFromBody builds an *Error from a non-2xx response body. The message is
// extracted in precedence order: a bare string body, then a "message" field,
// then the joined values of a validation-error object.
func errorFromBody(status int, body []byte) *Error {
	e := &Error{StatusCode: status}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		e.Message = http.StatusText(status)
		return e
	}

	var asString string
	if err := json.Unmarshal(body, &asString); err == nil {
		e.Message = asString
		return e
	}

	var asObject map[string]interface{}
	if err := json.Unmarshal(body, &asObject); err != nil {
		// Not JSON at all: treat the raw text as the message.
		e.Message = trimmed
		return e
	}

	if msg, ok := asObject["message"].(string); ok && msg != "" {
		e.Message = msg
		return e
	}

	// Validation-error shape: field name -> message. Join deterministically.
	fields := make(map[string]string)
	keys := make([]string, 0, len(asObject))
	for k, v := range asObject {
		if s, ok := v.(string); ok && s != "" {
			fields[k] = s
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 {
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fields[k])
		}
		e.Message = strings.Join(parts, ", ")
		e.Fields = fields
		return e
	}

	e.Message = http.StatusText(status)
	return e
}
