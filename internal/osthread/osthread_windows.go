package osthread

import "golang.org/x/sys/windows"

const supported = true

func id() int {
	return int(windows.GetCurrentThreadId())
}
