// Package preview serves an in-memory host over HTTP so synthesized toolbar
// modules and the merged configuration can be inspected in a browser.
package preview

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Context is the framework-agnostic view of a request
type Context interface {
	Param(name string) string
	JSON(code int, v interface{}) error
	Blob(code int, contentType string, b []byte) error
}

// HandlerFunc handles one preview request
type HandlerFunc func(Context) error

// Server is implemented by each web framework backend. Paths use the
// ":name" parameter syntax shared by every backend.
type Server interface {
	RegisterRoute(method, path string, handler HandlerFunc)
	Start(addr string) error
	Stop(ctx context.Context) error
	Name() string
}

// HTTPError is returned by handlers to answer with a status other than 500
type HTTPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error makes HTTPError implement the error interface
func (he *HTTPError) Error() string {
	return he.Message
}

// NewHTTPError creates an HTTPError, defaulting the message to the status text
func NewHTTPError(code int, message ...string) *HTTPError {
	he := &HTTPError{Code: code, Message: http.StatusText(code)}
	if len(message) > 0 {
		he.Message = message[0]
	}
	return he
}

// errorStatus maps a handler error to a status code and JSON body
func errorStatus(err error) (int, map[string]string) {
	if he, ok := err.(*HTTPError); ok {
		return he.Code, map[string]string{"error": he.Message}
	}
	return http.StatusInternalServerError, map[string]string{"error": err.Error()}
}

// Backends lists the supported server backends
func Backends() []string {
	return []string{"echo", "gin", "fiber"}
}

// New creates a server for the named backend
func New(backend string) (Server, error) {
	switch strings.ToLower(backend) {
	case "", "echo":
		return NewDefaultEchoServer(), nil
	case "gin":
		return NewDefaultGinServer(), nil
	case "fiber":
		return NewDefaultFiberServer(), nil
	}
	return nil, fmt.Errorf("unknown preview server %q (supported: %s)", backend, strings.Join(Backends(), ", "))
}
