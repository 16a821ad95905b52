package contexts

import (
	"runtime"
	"strings"

	"github.com/strongdm/raven-observe/pkg/raven/internal/wire"
)

// Runtime describes the language runtime executing the program.
type Runtime struct {
	Name           string
	Version        string
	RawDescription string
	Build          string
}

// MarshalJSON encodes the record with fixed key order, omitting unset fields.
func (r Runtime) MarshalJSON() ([]byte, error) {
	var w wire.Object
	w.String("name", r.Name)
	w.String("version", r.Version)
	w.String("raw_description", r.RawDescription)
	w.String("build", r.Build)
	return w.Bytes(), nil
}

// CaptureRuntime describes the Go runtime of the current process.
func CaptureRuntime() Runtime {
	raw := runtime.Version()
	return Runtime{
		Name:           "go",
		Version:        strings.TrimPrefix(raw, "go"),
		RawDescription: raw + " " + runtime.GOOS + "/" + runtime.GOARCH,
		Build:          runtime.Compiler,
	}
}
