//go:build darwin

package termhost

import "golang.org/x/sys/unix"

const (
	termiosGetAttr = unix.TIOCGETA
	termiosSetAttr = unix.TIOCSETA
)
