package contexts

import "github.com/strongdm/raven-observe/pkg/raven/internal/wire"

// OperatingSystem describes the host operating system.
type OperatingSystem struct {
	// Name is the operating system name, e.g. "Linux" or "Windows".
	Name string

	// Version is the operating system version, e.g. "22.04".
	Version string

	// RawDescription is the unparsed description reported by the platform.
	RawDescription string

	// Build is the internal build identifier.
	Build string

	// KernelVersion is the kernel release string.
	KernelVersion string

	// Rooted reports whether the device is rooted or jailbroken.
	// Nil means unknown.
	Rooted *bool
}

// MarshalJSON encodes the record with fixed key order, omitting unset fields.
func (o OperatingSystem) MarshalJSON() ([]byte, error) {
	var w wire.Object
	w.String("name", o.Name)
	w.String("version", o.Version)
	w.String("raw_description", o.RawDescription)
	w.String("build", o.Build)
	w.String("kernel_version", o.KernelVersion)
	w.OptionalBool("rooted", o.Rooted)
	return w.Bytes(), nil
}

// IsZero reports whether every field is unset.
func (o OperatingSystem) IsZero() bool {
	return o == OperatingSystem{}
}

// CaptureOperatingSystem probes the running system once.
func CaptureOperatingSystem() OperatingSystem {
	return CaptureOperatingSystemWith(SystemProbe)
}

// CaptureOperatingSystemWith runs probe and returns whatever it could determine.
// A panicking probe yields an empty record.
func CaptureOperatingSystemWith(probe Probe) (info OperatingSystem) {
	if probe == nil {
		return OperatingSystem{}
	}
	defer func() {
		if r := recover(); r != nil {
			info = OperatingSystem{}
		}
	}()
	return probe()
}
