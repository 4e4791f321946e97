package preview

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinServer implements Server for Gin. Gin has no shutdown of its own, so
// the engine runs inside an http.Server.
type GinServer struct {
	engine *gin.Engine
	server *http.Server
}

// NewGinServer wraps an existing Gin engine
func NewGinServer(g *gin.Engine) *GinServer {
	return &GinServer{engine: g}
}

// NewDefaultGinServer creates a release-mode Gin engine with recovery
func NewDefaultGinServer() *GinServer {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	return NewGinServer(engine)
}

// RegisterRoute registers a route with the Gin engine
func (gs *GinServer) RegisterRoute(method, path string, handler HandlerFunc) {
	gs.engine.Handle(method, path, func(c *gin.Context) {
		if err := handler(&ginContext{ctx: c}); err != nil {
			code, body := errorStatus(err)
			c.JSON(code, body)
		}
	})
}

// Start starts the server
func (gs *GinServer) Start(addr string) error {
	gs.server = &http.Server{Addr: addr, Handler: gs.engine}
	return gs.server.ListenAndServe()
}

// Stop gracefully shuts the server down
func (gs *GinServer) Stop(ctx context.Context) error {
	if gs.server == nil {
		return nil
	}
	return gs.server.Shutdown(ctx)
}

// Name returns the backend name
func (gs *GinServer) Name() string {
	return "Gin"
}

// Engine returns the underlying Gin engine
func (gs *GinServer) Engine() *gin.Engine {
	return gs.engine
}

type ginContext struct {
	ctx *gin.Context
}

func (gc *ginContext) Param(name string) string {
	return gc.ctx.Param(name)
}

func (gc *ginContext) JSON(code int, v interface{}) error {
	gc.ctx.JSON(code, v)
	return nil
}

func (gc *ginContext) Blob(code int, contentType string, b []byte) error {
	gc.ctx.Data(code, contentType, b)
	return nil
}
