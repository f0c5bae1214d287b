//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package native

func mapAnon(int, bool) ([]byte, error) { return nil, ErrUnsupportedPlatform }

func unmap([]byte) error { return ErrUnsupportedPlatform }
