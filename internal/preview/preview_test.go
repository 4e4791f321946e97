package preview

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/devbar/internal/host"
	"github.com/toyz/devbar/pkg/devbar"
)

const moduleName = "virtual:devtoolbar-app-demo"

func newHost(t *testing.T) *host.MemoryHost {
	t.Helper()
	h := host.New("/proj")
	require.NoError(t, h.Register(moduleName, "export default {};", h))
	h.AddDevToolbarApp(moduleName)
	h.UpdateConfig(devbar.BuildConfig{OptimizeDepsExclude: []string{moduleName}})
	h.InjectScript(devbar.StagePage, "window.x = 1;")
	return h
}

type response struct {
	code        int
	contentType string
	body        string
}

// serve runs one request against a backend and captures the response
type serve func(t *testing.T, req *http.Request) response

func backends(t *testing.T, h *host.MemoryHost) map[string]serve {
	echoServer := NewDefaultEchoServer()
	Mount(echoServer, h)

	ginServer := NewDefaultGinServer()
	Mount(ginServer, h)

	fiberServer := NewDefaultFiberServer()
	Mount(fiberServer, h)

	recorder := func(handler http.Handler) serve {
		return func(t *testing.T, req *http.Request) response {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			return response{code: rec.Code, contentType: rec.Header().Get("Content-Type"), body: rec.Body.String()}
		}
	}

	return map[string]serve{
		"echo": recorder(echoServer.Engine()),
		"gin":  recorder(ginServer.Engine()),
		"fiber": func(t *testing.T, req *http.Request) response {
			resp, err := fiberServer.App().Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			return response{code: resp.StatusCode, contentType: resp.Header.Get("Content-Type"), body: string(body)}
		},
	}
}

func TestPreviewRoutes(t *testing.T) {
	h := newHost(t)

	for name, do := range backends(t, h) {
		t.Run(name, func(t *testing.T) {
			t.Run("apps", func(t *testing.T) {
				resp := do(t, httptest.NewRequest(http.MethodGet, "/__devbar/apps", nil))
				require.Equal(t, http.StatusOK, resp.code)

				var apps []string
				require.NoError(t, json.Unmarshal([]byte(resp.body), &apps))
				assert.Equal(t, []string{moduleName}, apps)
			})

			t.Run("module", func(t *testing.T) {
				resp := do(t, httptest.NewRequest(http.MethodGet, "/__devbar/modules/"+moduleName, nil))
				require.Equal(t, http.StatusOK, resp.code)
				assert.Contains(t, resp.contentType, "text/javascript")
				assert.Equal(t, "export default {};", resp.body)
			})

			t.Run("unknown module", func(t *testing.T) {
				resp := do(t, httptest.NewRequest(http.MethodGet, "/__devbar/modules/nope", nil))
				assert.Equal(t, http.StatusNotFound, resp.code)
				assert.Contains(t, resp.body, "no module named nope")
			})

			t.Run("config", func(t *testing.T) {
				resp := do(t, httptest.NewRequest(http.MethodGet, "/__devbar/config", nil))
				require.Equal(t, http.StatusOK, resp.code)

				var cfg devbar.BuildConfig
				require.NoError(t, json.Unmarshal([]byte(resp.body), &cfg))
				assert.Equal(t, []string{moduleName}, cfg.OptimizeDepsExclude)
			})

			t.Run("scripts", func(t *testing.T) {
				resp := do(t, httptest.NewRequest(http.MethodGet, "/__devbar/scripts", nil))
				require.Equal(t, http.StatusOK, resp.code)

				var scripts []host.Script
				require.NoError(t, json.Unmarshal([]byte(resp.body), &scripts))
				require.Len(t, scripts, 1)
				assert.Equal(t, devbar.StagePage, scripts[0].Stage)
			})

			t.Run("session", func(t *testing.T) {
				resp := do(t, httptest.NewRequest(http.MethodGet, "/__devbar/session", nil))
				require.Equal(t, http.StatusOK, resp.code)

				var snap host.Snapshot
				require.NoError(t, json.Unmarshal([]byte(resp.body), &snap))
				assert.Equal(t, h.SessionID(), snap.SessionID)
			})
		})
	}
}

func TestNew(t *testing.T) {
	for _, backend := range Backends() {
		s, err := New(backend)
		require.NoError(t, err)
		assert.NotEmpty(t, s.Name())
	}

	s, err := New("")
	require.NoError(t, err)
	assert.Equal(t, "Echo", s.Name())

	_, err = New("martini")
	assert.Error(t, err)
}

func TestErrorStatus(t *testing.T) {
	code, body := errorStatus(NewHTTPError(http.StatusTeapot))
	assert.Equal(t, http.StatusTeapot, code)
	assert.Equal(t, "I'm a teapot", body["error"])

	code, _ = errorStatus(io.EOF)
	assert.Equal(t, http.StatusInternalServerError, code)
}
