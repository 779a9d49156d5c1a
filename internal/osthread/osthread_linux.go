package osthread

import "golang.org/x/sys/unix"

const supported = true

func id() int {
	return unix.Gettid()
}
