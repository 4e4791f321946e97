package preview

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// FiberServer implements Server for Fiber v2
type FiberServer struct {
	app *fiber.App
}

// NewFiberServer wraps an existing Fiber app
func NewFiberServer(app *fiber.App) *FiberServer {
	return &FiberServer{app: app}
}

// NewDefaultFiberServer creates a Fiber app with JSON errors and recovery
func NewDefaultFiberServer() *FiberServer {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(recover.New())
	return NewFiberServer(app)
}

// RegisterRoute registers a route with the Fiber app
func (fs *FiberServer) RegisterRoute(method, path string, handler HandlerFunc) {
	fs.app.Add(method, path, func(c *fiber.Ctx) error {
		if err := handler(&fiberContext{ctx: c}); err != nil {
			code, body := errorStatus(err)
			return c.Status(code).JSON(body)
		}
		return nil
	})
}

// Start starts the server
func (fs *FiberServer) Start(addr string) error {
	return fs.app.Listen(addr)
}

// Stop gracefully shuts the server down
func (fs *FiberServer) Stop(ctx context.Context) error {
	return fs.app.ShutdownWithContext(ctx)
}

// Name returns the backend name
func (fs *FiberServer) Name() string {
	return "Fiber"
}

// App returns the underlying Fiber app
func (fs *FiberServer) App() *fiber.App {
	return fs.app
}

type fiberContext struct {
	ctx *fiber.Ctx
}

func (fc *fiberContext) Param(name string) string {
	return fc.ctx.Params(name)
}

func (fc *fiberContext) JSON(code int, v interface{}) error {
	return fc.ctx.Status(code).JSON(v)
}

func (fc *fiberContext) Blob(code int, contentType string, b []byte) error {
	fc.ctx.Set(fiber.HeaderContentType, contentType)
	return fc.ctx.Status(code).Send(b)
}
