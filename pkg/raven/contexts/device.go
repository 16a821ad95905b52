package contexts

import (
	"os"
	"runtime"

	"github.com/strongdm/raven-observe/pkg/raven/internal/wire"
)

// Device describes the machine the program runs on.
type Device struct {
	// Name is the host name.
	Name string

	Family string
	Model  string

	// Arch is the CPU architecture, e.g. "amd64".
	Arch string

	ProcessorCount int

	// MemorySize is the memory obtained from the OS by the process, in bytes.
	MemorySize int64

	// FreeMemory is heap memory held but unused by the process, in bytes.
	FreeMemory int64

	Simulator *bool
}

// MarshalJSON encodes the record with fixed key order, omitting unset fields.
func (d Device) MarshalJSON() ([]byte, error) {
	var w wire.Object
	w.String("name", d.Name)
	w.String("family", d.Family)
	w.String("model", d.Model)
	w.String("arch", d.Arch)
	w.Int("processor_count", int64(d.ProcessorCount))
	w.Int("memory_size", d.MemorySize)
	w.Int("free_memory", d.FreeMemory)
	w.OptionalBool("simulator", d.Simulator)
	return w.Bytes(), nil
}

// CaptureDevice snapshots host name, architecture, CPU count and memory.
func CaptureDevice() Device {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	hostname, _ := os.Hostname() // empty host name is acceptable

	free := int64(memStats.HeapIdle) - int64(memStats.HeapReleased)
	if free < 0 {
		free = 0
	}

	return Device{
		Name:           hostname,
		Arch:           runtime.GOARCH,
		ProcessorCount: runtime.NumCPU(),
		MemorySize:     int64(memStats.Sys),
		FreeMemory:     free,
	}
}
