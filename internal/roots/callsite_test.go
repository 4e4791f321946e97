package roots

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureCallStack(t *testing.T) {
	stack := CaptureCallStack()
	require.NotEmpty(t, stack)

	// the inspector's own frame is excluded, so the test is innermost
	assert.True(t, strings.HasSuffix(stack[0].Function, "roots.TestCaptureCallStack"), stack[0].Function)
	assert.True(t, strings.HasSuffix(stack[0].File, "callsite_test.go"))
	assert.Greater(t, stack[0].Line, 0)

	for _, site := range stack {
		assert.NotContains(t, site.Function, "roots.CaptureCallStack")
	}
}

func helperInsideRoots() (CallSite, bool) {
	return ExternalCaller(ModulePath + "/internal/roots.")
}

func TestExternalCaller(t *testing.T) {
	site, ok := helperInsideRoots()
	require.True(t, ok)
	assert.NotContains(t, site.Function, "helperInsideRoots")
	assert.NotContains(t, site.Function, "ExternalCaller")
	assert.NotContains(t, site.File, "callsite_test.go")
}

func TestPackageOf(t *testing.T) {
	assert.Equal(t, "github.com/toyz/devbar/pkg/devbar", packageOf("github.com/toyz/devbar/pkg/devbar.(*Injector).Inject"))
	assert.Equal(t, "main", packageOf("main.main"))
	assert.Equal(t, "example.com/x_test", packageOf("example.com/x_test.TestA.func1"))
}

func TestIsInternalFrame(t *testing.T) {
	prefixes := []string{"github.com/toyz/devbar/"}
	assert.True(t, isInternalFrame("github.com/toyz/devbar/pkg/devbar.(*Injector).Inject", prefixes))
	assert.False(t, isInternalFrame("github.com/toyz/devbar/pkg/devbar_test.TestInject", prefixes))
	assert.False(t, isInternalFrame("example.com/integration.Setup", prefixes))
}
