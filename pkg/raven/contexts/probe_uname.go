//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package contexts

import (
	"strings"

	"golang.org/x/sys/unix"
)

// uname returns the kernel release and a "sysname release version" description.
func uname() (kernel, raw string) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "", ""
	}
	kernel = unix.ByteSliceToString(u.Release[:])
	raw = strings.TrimSpace(strings.Join([]string{
		unix.ByteSliceToString(u.Sysname[:]),
		kernel,
		unix.ByteSliceToString(u.Version[:]),
	}, " "))
	return kernel, raw
}
