//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package native

import "golang.org/x/sys/unix"

func mapAnon(nbytes int, populate bool) ([]byte, error) {
	flags := unix.MAP_ANON | unix.MAP_PRIVATE | extraMapFlags
	if populate {
		flags |= populateFlag
	}
	return unix.Mmap(-1, 0, nbytes, unix.PROT_READ|unix.PROT_WRITE, flags)
}

func unmap(mem []byte) error {
	return unix.Munmap(mem)
}
