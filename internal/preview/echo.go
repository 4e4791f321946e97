package preview

import (
	"context"

	"github.com/labstack/echo/v4"
)

// EchoServer implements Server for Echo v4
type EchoServer struct {
	engine *echo.Echo
}

// NewEchoServer wraps an existing Echo instance
func NewEchoServer(e *echo.Echo) *EchoServer {
	return &EchoServer{engine: e}
}

// NewDefaultEchoServer creates an Echo server without the startup banner
func NewDefaultEchoServer() *EchoServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return NewEchoServer(e)
}

// RegisterRoute registers a route with the Echo server
func (es *EchoServer) RegisterRoute(method, path string, handler HandlerFunc) {
	es.engine.Add(method, path, func(c echo.Context) error {
		if err := handler(&echoContext{ctx: c}); err != nil {
			code, body := errorStatus(err)
			return c.JSON(code, body)
		}
		return nil
	})
}

// Start starts the server
func (es *EchoServer) Start(addr string) error {
	return es.engine.Start(addr)
}

// Stop stops the server
func (es *EchoServer) Stop(ctx context.Context) error {
	return es.engine.Shutdown(ctx)
}

// Name returns the backend name
func (es *EchoServer) Name() string {
	return "Echo"
}

// Engine returns the underlying Echo instance
func (es *EchoServer) Engine() *echo.Echo {
	return es.engine
}

type echoContext struct {
	ctx echo.Context
}

func (ec *echoContext) Param(name string) string {
	return ec.ctx.Param(name)
}

func (ec *echoContext) JSON(code int, v interface{}) error {
	return ec.ctx.JSON(code, v)
}

func (ec *echoContext) Blob(code int, contentType string, b []byte) error {
	return ec.ctx.Blob(code, contentType, b)
}
