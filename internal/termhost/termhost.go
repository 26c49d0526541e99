// Package termhost is a host.Host reference implementation that
// drives a real terminal: raw-mode keyboard input, an ANSI block-
// character framebuffer, a BEL beep (plus an optional synthesized
// tone), and a
// monotonic frame clock. It is grounded on the reference
// implementation's os_init/os_term/os_draw/os_read_key/os_get_time
// functions.
package termhost

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"
	"golang.org/x/sys/unix"
)

const (
	pixelOn  = "\033[92m█\033[0m"
	pixelOff = "\033[32m░\033[0m"

	ansiHome  = "\033[H"
	ansiHide  = "\033[?25l\033[2J\033[H"
	ansiShow  = "\033[H\033[2J\033[?25h"

	videoWidth  = 64
	videoHeight = 32
)

// keyMap mirrors the reference implementation's QWERTY layout:
//
//	Chip-8 |   KB
//	-----------------
//	1 2 3 C | 1 2 3 4
//	4 5 6 D | Q W E R
//	7 8 9 E | A S D F
//	A 0 B F | Z X C V
var keyMap = map[byte]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'Q': 0x4, 'W': 0x5, 'E': 0x6, 'R': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'A': 0x7, 'S': 0x8, 'D': 0x9, 'F': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
	'Z': 0xA, 'X': 0x0, 'C': 0xB, 'V': 0xF,
}

// Terminal is a host.Host backed by stdin/stdout. Open puts the
// terminal into raw, non-blocking-read mode; Close restores it.
type Terminal struct {
	fd       int
	saved    *unix.Termios
	start    time.Time
	rng      *rand.Rand
	withTone bool
	toneInit bool

	drawBuf strings.Builder
}

// Option configures a Terminal at construction.
type Option func(*Terminal)

// WithTone makes Beep play a short synthesized sine tone through the
// default audio device, in addition to the terminal bell. Adapted
// from the origin project's mp3-asset playback: rather than bundling
// an audio file, the tone is generated on the fly.
func WithTone() Option {
	return func(t *Terminal) { t.withTone = true }
}

// Open puts stdin into raw mode (no canonical line buffering, no
// echo, non-blocking single-byte reads) and hides the cursor.
func Open(opts ...Option) (*Terminal, error) {
	t := &Terminal{
		fd:    int(os.Stdin.Fd()),
		start: time.Now(),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(t)
	}

	saved, err := unix.IoctlGetTermios(t.fd, termiosGetAttr)
	if err != nil {
		return nil, fmt.Errorf("termhost: get termios: %w", err)
	}
	t.saved = saved

	raw := *saved
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(t.fd, termiosSetAttr, &raw); err != nil {
		return nil, fmt.Errorf("termhost: set termios: %w", err)
	}

	fmt.Fprint(os.Stdout, ansiHide)
	return t, nil
}

// Close restores the terminal's original mode and un-hides the
// cursor.
func (t *Terminal) Close() error {
	fmt.Fprint(os.Stdout, ansiShow)
	if t.saved == nil {
		return nil
	}
	return unix.IoctlSetTermios(t.fd, termiosSetAttr, t.saved)
}

// NowNS returns nanoseconds elapsed since Open, from the monotonic
// clock reading time.Time carries internally.
func (t *Terminal) NowNS() int64 { return time.Since(t.start).Nanoseconds() }

// SleepNS sleeps for ns nanoseconds.
func (t *Terminal) SleepNS(ns int64) {
	if ns > 0 {
		time.Sleep(time.Duration(ns))
	}
}

// SampleKeys drains up to 4 pending bytes from stdin (matching the
// reference implementation's 4-key-per-poll cap) and ORs their mapped
// CHIP-8 key bits together.
func (t *Terminal) SampleKeys() uint16 {
	var mask uint16
	var buf [1]byte
	for n := 0; n < 4; n++ {
		read, err := unix.Read(t.fd, buf[:])
		if err != nil || read <= 0 {
			break
		}
		if key, ok := keyMap[buf[0]]; ok {
			mask |= uint16(1) << key
		}
	}
	return mask
}

// FlushFramebuffer renders fb as a grid of ANSI block characters,
// homing the cursor first rather than clearing, to avoid flicker.
func (t *Terminal) FlushFramebuffer(fb [256]byte) {
	t.drawBuf.Reset()
	t.drawBuf.WriteString(ansiHome)
	for y := 0; y < videoHeight; y++ {
		for x := 0; x < videoWidth; x++ {
			b := fb[(y*videoWidth+x)/8]
			if b&(1<<(7-uint(x%8))) != 0 {
				t.drawBuf.WriteString(pixelOn)
			} else {
				t.drawBuf.WriteString(pixelOff)
			}
		}
		t.drawBuf.WriteString("\r\n")
	}
	os.Stdout.WriteString(t.drawBuf.String())
}

// Beep writes a bell character and, if WithTone was given, plays a
// short synthesized tone.
func (t *Terminal) Beep() {
	os.Stdout.Write([]byte{'\a'})
	if t.withTone {
		t.playTone()
	}
}

func (t *Terminal) playTone() {
	const sampleRate = beep.SampleRate(44100)
	tone, err := generators.SinTone(sampleRate, 440)
	if err != nil {
		return
	}
	if !t.toneInit {
		if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
			return
		}
		t.toneInit = true
	}
	speaker.Play(beep.Take(sampleRate.N(80*time.Millisecond), tone))
}

// RandomByte returns a pseudo-random byte from a PRNG this Terminal
// seeded itself at Open time.
func (t *Terminal) RandomByte() byte { return byte(t.rng.Intn(256)) }

// DumpOut writes a memory/register dump to stderr, matching the
// reference implementation's chip8_dump(stderr, ...) convention.
func (t *Terminal) DumpOut(s string) { fmt.Fprintln(os.Stderr, s) }

// ErrorOut writes a diagnostic message to stderr.
func (t *Terminal) ErrorOut(s string) { fmt.Fprintln(os.Stderr, s) }
