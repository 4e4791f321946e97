package preview

import (
	"net/http"

	"github.com/toyz/devbar/internal/host"
)

// RoutePrefix is prepended to every preview route
const RoutePrefix = "/__devbar"

// Mount registers the preview routes for h on s
func Mount(s Server, h *host.MemoryHost) {
	s.RegisterRoute(http.MethodGet, RoutePrefix+"/apps", func(c Context) error {
		return c.JSON(http.StatusOK, h.Apps())
	})

	s.RegisterRoute(http.MethodGet, RoutePrefix+"/modules/:name", func(c Context) error {
		name := c.Param("name")
		source, ok := h.Module(name)
		if !ok {
			return NewHTTPError(http.StatusNotFound, "no module named "+name)
		}
		return c.Blob(http.StatusOK, "text/javascript; charset=utf-8", []byte(source))
	})

	s.RegisterRoute(http.MethodGet, RoutePrefix+"/config", func(c Context) error {
		return c.JSON(http.StatusOK, h.Config())
	})

	s.RegisterRoute(http.MethodGet, RoutePrefix+"/scripts", func(c Context) error {
		return c.JSON(http.StatusOK, h.Scripts())
	})

	s.RegisterRoute(http.MethodGet, RoutePrefix+"/session", func(c Context) error {
		return c.JSON(http.StatusOK, h.Snapshot())
	})
}
