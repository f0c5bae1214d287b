//go:build linux

package native

import "golang.org/x/sys/unix"

const (
	extraMapFlags = unix.MAP_NORESERVE
	populateFlag  = unix.MAP_POPULATE
)
