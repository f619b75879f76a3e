// Package apierr turns every kind of backend failure into one Error shape
// and reports it to the user.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	ConnectionTitle   = "Error de Conexión"
	ConnectionMessage = "No se puede conectar con el servidor. Verifica que esté ejecutándose."
)

// Error is the normalized form of a failed backend request.
type Error struct {
	Title   string
	Message string
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
}

func (e *Error) Error() string {
	return e.Title + ": " + e.Message
}

// Failure describes a request that did not succeed.
type Failure struct {
	// Status is 0 when the server could not be reached.
	Status     int
	StatusText string
	Body       []byte
	// Err is the transport error, if any.
	Err error
}

// Normalize maps f onto exactly one Error.
func Normalize(f Failure) *Error {
	if f.Status == 0 {
		return &Error{Title: ConnectionTitle, Message: ConnectionMessage, Status: 0}
	}

	statusTitle := fmt.Sprintf("Error %d", f.Status)

	switch body := decodeBody(f.Body).(type) {
	case map[string]interface{}:
		message := stringField(body, "message")
		title := stringField(body, "title")
		if message != "" && title != "" {
			return &Error{Title: title, Message: message, Status: f.Status}
		}
		if message != "" {
			return &Error{Title: statusTitle, Message: message, Status: f.Status}
		}
	case string:
		if body != "" {
			return &Error{Title: statusTitle, Message: body, Status: f.Status}
		}
	}

	statusText := f.StatusText
	if statusText == "" {
		statusText = http.StatusText(f.Status)
	}
	return &Error{
		Title:   statusTitle,
		Message: strings.TrimSpace(fmt.Sprintf("Error del servidor: %d %s", f.Status, statusText)),
		Status:  f.Status,
	}
}

// decodeBody returns the parsed JSON body, or the raw text when the body is
// not JSON.
func decodeBody(body []byte) interface{} {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	return v
}

func stringField(m map[string]interface{}, key string) string {
	// ASP.NET serializes with camelCase, but accept PascalCase too
	for _, k := range []string{key, strings.ToUpper(key[:1]) + key[1:]} {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// As reports whether err carries a normalized Error
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
