//go:build linux

package termhost

import "golang.org/x/sys/unix"

const (
	termiosGetAttr = unix.TCGETS
	termiosSetAttr = unix.TCSETS
)
