package contexts

import (
	"bufio"
	"os"
	"runtime"
	"strings"
)

// Probe reports operating-system facts. Any fact it cannot determine is left unset.
type Probe func() OperatingSystem

// SystemProbe reads os-release and uname where the platform offers them.
func SystemProbe() OperatingSystem {
	info := OperatingSystem{Name: osName(runtime.GOOS)}

	release := readOSRelease("/etc/os-release")
	if name := release["NAME"]; name != "" {
		info.Name = name
	}
	info.Version = release["VERSION_ID"]
	info.Build = release["BUILD_ID"]
	info.RawDescription = release["PRETTY_NAME"]

	kernel, raw := uname()
	info.KernelVersion = kernel
	if info.RawDescription == "" {
		info.RawDescription = raw
	}
	return info
}

func osName(goos string) string {
	switch goos {
	case "linux":
		return "Linux"
	case "darwin":
		return "macOS"
	case "windows":
		return "Windows"
	case "freebsd":
		return "FreeBSD"
	case "openbsd":
		return "OpenBSD"
	case "netbsd":
		return "NetBSD"
	default:
		return goos
	}
}

// readOSRelease parses KEY=VALUE lines. A missing or unreadable file yields nil.
func readOSRelease(path string) map[string]string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	out := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		out[key] = strings.Trim(value, `"'`)
	}
	return out
}
