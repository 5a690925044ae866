//go:build !linux

package main

import (
	"errors"
	"os"
)

func makeRaw(f *os.File) error {
	return errors.New("-tty is only supported on linux; use -socket")
}
