//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package native

const (
	extraMapFlags = 0
	populateFlag  = 0
)
