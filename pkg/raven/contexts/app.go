package contexts

import (
	"runtime/debug"
	"time"

	"github.com/strongdm/raven-observe/pkg/raven/internal/wire"
)

// App describes the application binary.
type App struct {
	StartTime time.Time
	Name      string
	Version   string
	Build     string
}

// MarshalJSON encodes the record with fixed key order, omitting unset fields.
func (a App) MarshalJSON() ([]byte, error) {
	var w wire.Object
	w.Time("app_start_time", a.StartTime)
	w.String("app_name", a.Name)
	w.String("app_version", a.Version)
	w.String("app_build", a.Build)
	return w.Bytes(), nil
}

// CaptureApp reads the main module's build information.
// The startTime parameter records when the application started.
func CaptureApp(startTime time.Time) App {
	app := App{StartTime: startTime}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return app
	}
	app.Name = info.Main.Path
	if v := info.Main.Version; v != "" && v != "(devel)" {
		app.Version = v
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			app.Build = s.Value
		}
	}
	return app
}
