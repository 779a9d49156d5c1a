//go:build !linux && !windows

package osthread

const supported = false

func id() int {
	return 0
}
