//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package contexts

func uname() (kernel, raw string) {
	return "", ""
}
