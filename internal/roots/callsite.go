package roots

import (
	"runtime"
	"strings"
)

const maxStackDepth = 64

// CallSite is one frame of a captured call stack
type CallSite struct {
	Function string
	File     string
	Line     int
}

// CaptureCallStack returns the current call stack, innermost first, without
// the frame of CaptureCallStack itself.
func CaptureCallStack() []CallSite {
	pcs := make([]uintptr, maxStackDepth)
	// skip runtime.Callers and CaptureCallStack
	n := runtime.Callers(2, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	sites := make([]CallSite, 0, n)
	for {
		frame, more := frames.Next()
		sites = append(sites, CallSite{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})
		if !more {
			break
		}
	}
	return sites
}

// ExternalCaller returns the innermost frame whose function lives outside
// every given package prefix. Runtime frames are never reported. Test
// packages (suffix _test) count as external.
func ExternalCaller(prefixes ...string) (CallSite, bool) {
	stack := CaptureCallStack()
	if len(stack) < 2 {
		return CallSite{}, false
	}
	// stack[0] is ExternalCaller
	for _, site := range stack[1:] {
		if site.File == "" || strings.HasPrefix(site.Function, "runtime.") {
			continue
		}
		if isInternalFrame(site.Function, prefixes) {
			continue
		}
		return site, true
	}
	return CallSite{}, false
}

func isInternalFrame(function string, prefixes []string) bool {
	pkg := packageOf(function)
	if strings.HasSuffix(pkg, "_test") {
		return false
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(function, prefix) {
			return true
		}
	}
	return false
}

// packageOf trims the symbol from a fully qualified function name such as
// "github.com/a/b/pkg.(*T).Method".
func packageOf(function string) string {
	slash := strings.LastIndex(function, "/")
	dot := strings.Index(function[slash+1:], ".")
	if dot < 0 {
		return function
	}
	return function[:slash+1+dot]
}
