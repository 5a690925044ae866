//go:build linux

package main

import (
	"os"
	"strconv"
	"testing"

	"golang.org/x/sys/unix"
)

// openPTY returns the master side and the path of a fresh pseudo terminal.
func openPTY(t *testing.T) (*os.File, string) {
	t.Helper()
	master, err := os.OpenFile("/dev/ptmx", os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		t.Skipf("no pseudo terminals: %v", err)
	}
	t.Cleanup(func() { master.Close() })

	fd := int(master.Fd())
	if err := unix.IoctlSetPointerInt(fd, unix.TIOCSPTLCK, 0); err != nil {
		t.Skipf("unlockpt: %v", err)
	}
	n, err := unix.IoctlGetInt(fd, unix.TIOCGPTN)
	if err != nil {
		t.Skipf("ptsname: %v", err)
	}
	return master, "/dev/pts/" + strconv.Itoa(n)
}

func TestDialTTYSwitchesToRawMode(t *testing.T) {
	_, path := openPTY(t)

	c, err := dial("", path)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	f, err := os.OpenFile(path, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	tio, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
	if err != nil {
		t.Fatalf("tcgets: %v", err)
	}
	if tio.Lflag&(unix.ECHO|unix.ICANON|unix.ISIG) != 0 {
		t.Fatalf("lflag = %#x, echo/canonical/signals still enabled", tio.Lflag)
	}
	if tio.Oflag&unix.OPOST != 0 {
		t.Fatalf("oflag = %#x, output processing still enabled", tio.Oflag)
	}
	if tio.Iflag&unix.ICRNL != 0 {
		t.Fatalf("iflag = %#x, CR translation still enabled", tio.Iflag)
	}
}
