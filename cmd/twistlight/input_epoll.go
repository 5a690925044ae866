//go:build linux && !tinygo

package main

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// evdev hands back whole records; one read drains up to this many.
const evdevBatch = 16

// epollWaitMS bounds each wait so a closed done channel is noticed.
const epollWaitMS = 100

// readInputEventsEpoll multiplexes every switch device on one epoll fd and
// forwards decoded records. It returns once done is closed, or after the
// first error, which is reported on readErr.
func readInputEventsEpoll(done <-chan struct{}, files []*os.File, events chan<- inputEvent, readErr chan<- error) {
	if len(files) == 0 {
		readErr <- errors.New("no input devices provided")
		return
	}

	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		readErr <- fmt.Errorf("epoll_create1: %w", err)
		return
	}
	defer unix.Close(epfd)

	byFd := make(map[int32]*os.File, len(files))
	for _, f := range files {
		fd := int32(f.Fd())
		byFd[fd] = f
		ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: fd}
		if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, int(fd), &ev); err != nil {
			readErr <- fmt.Errorf("epoll_ctl_add %s: %w", f.Name(), err)
			return
		}
	}

	ready := make([]unix.EpollEvent, len(files))
	buf := make([]byte, inputEventSize*evdevBatch)

	for {
		select {
		case <-done:
			return
		default:
		}

		n, err := unix.EpollWait(epfd, ready, epollWaitMS)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			readErr <- fmt.Errorf("epoll_wait: %w", err)
			return
		}

		for _, r := range ready[:n] {
			f := byFd[r.Fd]
			if r.Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
				readErr <- fmt.Errorf("switch device %s went away", f.Name())
				return
			}

			got, err := f.Read(buf)
			if err != nil {
				readErr <- fmt.Errorf("read %s: %w", f.Name(), err)
				return
			}
			for off := 0; off+inputEventSize <= got; off += inputEventSize {
				ev, ok := decodeInputEvent(buf[off:])
				if !ok {
					continue
				}
				select {
				case events <- ev:
				case <-done:
					return
				}
			}
		}
	}
}
