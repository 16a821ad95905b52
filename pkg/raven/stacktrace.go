// stacktrace.go converts program counters into wire stack frames.

package raven

import (
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// modulePath prefixes every function name inside this library.
	modulePath = "github.com/strongdm/raven-observe/"

	// corePackage prefixes functions of the capture pipeline itself.
	corePackage = modulePath + "pkg/raven."

	maxFrames = 64
)

// inAppRules decides which frames belong to the application.
type inAppRules struct {
	include []string
	exclude []string
}

func (r inAppRules) inApp(module string) bool {
	for _, prefix := range r.include {
		if strings.HasPrefix(module, prefix) {
			return true
		}
	}
	for _, prefix := range r.exclude {
		if strings.HasPrefix(module, prefix) {
			return false
		}
	}
	if module == "main" {
		return true
	}
	if isStandardLibrary(module) || strings.HasPrefix(module, modulePath) || strings.Contains(module, "/vendor/") {
		return false
	}
	return true
}

// isStandardLibrary reports whether the first path element lacks a dot.
func isStandardLibrary(module string) bool {
	if module == "" {
		return true
	}
	first, _, _ := strings.Cut(module, "/")
	return !strings.Contains(first, ".")
}

// callerFrames captures the calling goroutine's stack with the pipeline's own
// leading frames removed.
func callerFrames(rules inAppRules) []Frame {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(2, pcs)
	return framesFromPCs(pcs[:n], rules, true)
}

// framesFromPCs resolves return program counters, innermost first, into frames
// ordered oldest call first.
func framesFromPCs(pcs []uintptr, rules inAppRules, trimCore bool) []Frame {
	if len(pcs) == 0 {
		return nil
	}

	frames := make([]Frame, 0, len(pcs))
	iter := runtime.CallersFrames(pcs)
	trimming := trimCore
	for {
		f, more := iter.Next()
		if f.Function != "" {
			if trimming && strings.HasPrefix(f.Function, corePackage) && !strings.HasSuffix(f.File, "_test.go") {
				if !more {
					break
				}
				continue
			}
			trimming = false
			frames = append(frames, newFrame(f, rules))
		}
		if !more {
			break
		}
	}

	for i, j := 0, len(frames)-1; i < j; i, j = i+1, j-1 {
		frames[i], frames[j] = frames[j], frames[i]
	}
	return frames
}

func newFrame(f runtime.Frame, rules inAppRules) Frame {
	module, function := splitFunctionName(f.Function)
	return Frame{
		Function: function,
		Module:   module,
		Filename: filepath.Base(f.File),
		AbsPath:  f.File,
		Lineno:   f.Line,
		InApp:    rules.inApp(module),
	}
}

// splitFunctionName splits "github.com/a/b.(*T).M" into "github.com/a/b" and "(*T).M".
func splitFunctionName(name string) (module, function string) {
	lastSlash := strings.LastIndex(name, "/")
	dot := strings.Index(name[lastSlash+1:], ".")
	if dot < 0 {
		return "", name
	}
	dot += lastSlash + 1
	return name[:dot], name[dot+1:]
}
